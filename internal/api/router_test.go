package api_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"

	specpkg "github.com/autocatalog/autocatalog/api"
	"github.com/autocatalog/autocatalog/internal/api"
	"github.com/autocatalog/autocatalog/internal/api/middleware"
	"github.com/autocatalog/autocatalog/internal/catalog"
)

// openAPIDocument is the minimal structure needed to extract paths from the document.
type openAPIDocument struct {
	Paths map[string]map[string]interface{} `json:"paths"`
}

// pathItemKeys are path-level keys that are not HTTP methods.
var pathItemKeys = map[string]bool{"parameters": true, "summary": true, "description": true}

type route struct {
	method string
	path   string
}

func sortRoutes(routes []route) {
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].path == routes[j].path {
			return routes[i].method < routes[j].method
		}
		return routes[i].path < routes[j].path
	})
}

func documentRoutes(t *testing.T) []route {
	t.Helper()

	docJSON, err := yaml.YAMLToJSON(specpkg.OpenAPISpec)
	require.NoError(t, err, "embedded document must convert to JSON")

	var doc openAPIDocument
	require.NoError(t, yaml.Unmarshal(docJSON, &doc))

	var routes []route
	for path, items := range doc.Paths {
		for key := range items {
			if pathItemKeys[key] {
				continue
			}
			routes = append(routes, route{method: strings.ToUpper(key), path: path})
		}
	}
	sortRoutes(routes)
	return routes
}

func routerRoutes(t *testing.T, r *chi.Mux) []route {
	t.Helper()

	var routes []route
	walkFunc := func(method, routePath string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		// Subrouter roots come back as /brands/ while the document uses /brands.
		normalized := strings.TrimRight(routePath, "/")
		if normalized == "" {
			normalized = "/"
		}
		routes = append(routes, route{method: method, path: normalized})
		return nil
	}
	require.NoError(t, chi.Walk(r, walkFunc))

	sortRoutes(routes)
	return routes
}

// fullRouter registers every route. The service has no repositories because the
// routes are only walked, never served.
func fullRouter() *chi.Mux {
	return api.NewRouter(api.RouterDeps{
		Service:        catalog.NewService(nil, nil),
		Version:        "test",
		OpenAPISpec:    specpkg.OpenAPISpec,
		MetricsEnabled: true,
	})
}

func TestOpenAPIDocument_RoutesCoverAllPaths(t *testing.T) {
	t.Parallel()

	docRoutes := documentRoutes(t)
	require.NotEmpty(t, docRoutes)

	chiRoutes := routerRoutes(t, fullRouter())
	require.NotEmpty(t, chiRoutes)

	for _, dr := range docRoutes {
		t.Run(fmt.Sprintf("document_%s_%s_is_routed", dr.method, dr.path), func(t *testing.T) {
			assert.Contains(t, chiRoutes, dr, "documented route %s %s is not registered", dr.method, dr.path)
		})
	}

	for _, cr := range chiRoutes {
		t.Run(fmt.Sprintf("router_%s_%s_is_documented", cr.method, cr.path), func(t *testing.T) {
			assert.Contains(t, docRoutes, cr, "registered route %s %s is missing from the document", cr.method, cr.path)
		})
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	t.Parallel()

	router := fullRouter()

	health := httptest.NewRecorder()
	router.ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, health.Code)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "autocatalog_http_requests_total")
}

func TestRouter_MetricsDisabled(t *testing.T) {
	t.Parallel()

	router := api.NewRouter(api.RouterDeps{Version: "test"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_EchoesRequestID(t *testing.T) {
	t.Parallel()

	router := api.NewRouter(api.RouterDeps{Version: "test"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(middleware.RequestIDHeader))
	assert.Contains(t, w.Body.String(), `"requestId":"req-123"`)
}

func TestRouter_CatalogRoutesNeedService(t *testing.T) {
	t.Parallel()

	router := api.NewRouter(api.RouterDeps{Version: "test"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/brands", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
