package handler

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/autocatalog/autocatalog/internal/api/middleware"
	"github.com/autocatalog/autocatalog/internal/api/response"
	"github.com/autocatalog/autocatalog/internal/api/validation"
	"github.com/autocatalog/autocatalog/internal/brand"
	"github.com/autocatalog/autocatalog/internal/catalog"
)

// createBrandRequest is the request body for POST /brands.
type createBrandRequest struct {
	Name         string           `json:"name"`
	AveragePrice *decimal.Decimal `json:"averagePrice"`
}

// updateBrandRequest is the request body for PATCH/PUT /brands/{id}.
type updateBrandRequest struct {
	Name         *string          `json:"name"`
	IsActive     *bool            `json:"isActive"`
	AveragePrice *decimal.Decimal `json:"averagePrice"`
}

type brandResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsActive  bool   `json:"isActive"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type brandAveragePriceResponse struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	AveragePrice json.Number `json:"averagePrice"`
}

func toBrandResponse(b *brand.Brand) brandResponse {
	return brandResponse{
		ID:        b.ID.String(),
		Name:      b.Name,
		IsActive:  b.IsActive,
		CreatedAt: formatTime(b.CreatedAt),
		UpdatedAt: formatTime(b.UpdatedAt),
	}
}

// BrandHandler handles brand endpoints.
type BrandHandler struct {
	svc *catalog.Service
}

// NewBrandHandler creates a new BrandHandler.
func NewBrandHandler(svc *catalog.Service) *BrandHandler {
	return &BrandHandler{svc: svc}
}

// List handles GET /brands.
func (h *BrandHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	includeInactive, fe := parseFlag(r, "includeInactive")
	if fe != nil {
		validationFailed(w, []validation.FieldError{*fe}, requestID)
		return
	}

	brands, err := h.svc.ListBrands(r.Context(), includeInactive)
	if err != nil {
		writeServiceError(w, err, "Failed to list brands", requestID)
		return
	}

	items := make([]brandResponse, 0, len(brands))
	for i := range brands {
		items = append(items, toBrandResponse(&brands[i]))
	}
	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// AveragePrices handles GET /brands/average-prices.
func (h *BrandHandler) AveragePrices(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	prices, err := h.svc.ListBrandAveragePrices(r.Context())
	if err != nil {
		writeServiceError(w, err, "Failed to compute brand average prices", requestID)
		return
	}

	items := make([]brandAveragePriceResponse, 0, len(prices))
	for _, p := range prices {
		items = append(items, brandAveragePriceResponse{
			ID:           p.ID.String(),
			Name:         p.Name,
			AveragePrice: priceNumber(p.AveragePrice),
		})
	}
	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// Create handles POST /brands.
func (h *BrandHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req createBrandRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	fieldErrors := validation.ValidateCreateBrandRequest(validation.CreateBrandRequest{
		Name:         req.Name,
		AveragePrice: req.AveragePrice,
	})
	if len(fieldErrors) > 0 {
		validationFailed(w, fieldErrors, requestID)
		return
	}

	b, err := h.svc.CreateBrand(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, err, "Failed to create brand", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toBrandResponse(b), requestID)
}

// GetByID handles GET /brands/{id}.
func (h *BrandHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r, requestID)
	if !ok {
		return
	}

	b, err := h.svc.GetBrand(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Failed to get brand", requestID)
		return
	}

	response.Success(w, http.StatusOK, toBrandResponse(b), requestID)
}

// Update handles PATCH and PUT /brands/{id}. Omitted fields keep their value.
func (h *BrandHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r, requestID)
	if !ok {
		return
	}

	var req updateBrandRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	fieldErrors := validation.ValidateUpdateBrandRequest(validation.UpdateBrandRequest{
		Name:         req.Name,
		AveragePrice: req.AveragePrice,
	})
	if len(fieldErrors) > 0 {
		validationFailed(w, fieldErrors, requestID)
		return
	}

	b, err := h.svc.UpdateBrand(r.Context(), id, brand.UpdateFields{
		Name:     req.Name,
		IsActive: req.IsActive,
	})
	if err != nil {
		writeServiceError(w, err, "Failed to update brand", requestID)
		return
	}

	response.Success(w, http.StatusOK, toBrandResponse(b), requestID)
}

// Delete handles DELETE /brands/{id}. The brand is deactivated unless hard=true is given,
// in which case it is removed, provided no model references it.
func (h *BrandHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r, requestID)
	if !ok {
		return
	}

	hard, fe := parseFlag(r, "hard")
	if fe != nil {
		validationFailed(w, []validation.FieldError{*fe}, requestID)
		return
	}

	var err error
	if hard {
		err = h.svc.DeleteBrand(r.Context(), id)
	} else {
		err = h.svc.DeactivateBrand(r.Context(), id)
	}
	if err != nil {
		writeServiceError(w, err, "Failed to delete brand", requestID)
		return
	}

	response.NoContent(w)
}
