package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/autocatalog/autocatalog/internal/api/handler"
	"github.com/autocatalog/autocatalog/internal/api/middleware"
	"github.com/autocatalog/autocatalog/internal/catalog"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Service        *catalog.Service
	DBPinger       handler.DBPinger
	Version        string
	OpenAPISpec    []byte
	MetricsEnabled bool
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	if deps.MetricsEnabled {
		r.Use(middleware.Metrics)
		r.Method("GET", "/metrics", promhttp.Handler())
	}

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	if len(deps.OpenAPISpec) > 0 {
		openapiHandler := handler.NewOpenAPIHandler(deps.OpenAPISpec)
		r.Get("/openapi.json", openapiHandler.ServeHTTP)
	}

	if deps.Service != nil {
		brandHandler := handler.NewBrandHandler(deps.Service)
		modelHandler := handler.NewModelHandler(deps.Service)

		r.Route("/brands", func(r chi.Router) {
			r.Get("/", brandHandler.List)
			r.Post("/", brandHandler.Create)
			r.Get("/average-prices", brandHandler.AveragePrices)
			r.Get("/{id}", brandHandler.GetByID)
			r.Patch("/{id}", brandHandler.Update)
			r.Put("/{id}", brandHandler.Update)
			r.Delete("/{id}", brandHandler.Delete)
			r.Get("/{id}/models", modelHandler.ListForBrand)
			r.Post("/{id}/models", modelHandler.CreateForBrand)
		})

		r.Route("/models", func(r chi.Router) {
			r.Get("/", modelHandler.List)
			r.Post("/", modelHandler.Create)
			r.Get("/{id}", modelHandler.GetByID)
			r.Patch("/{id}", modelHandler.Update)
			r.Put("/{id}", modelHandler.Update)
			r.Delete("/{id}", modelHandler.Delete)
		})
	}

	return r
}
