package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/autocatalog/autocatalog/internal/api/middleware"
	"github.com/autocatalog/autocatalog/internal/api/response"
	"github.com/autocatalog/autocatalog/internal/api/validation"
	"github.com/autocatalog/autocatalog/internal/catalog"
	"github.com/autocatalog/autocatalog/internal/vehiclemodel"
)

// createModelRequest is the request body for POST /models and POST /brands/{id}/models.
type createModelRequest struct {
	Name         string           `json:"name"`
	AveragePrice *decimal.Decimal `json:"averagePrice"`
	BrandID      uuid.UUID        `json:"brandId"`
}

// updateModelRequest is the request body for PATCH/PUT /models/{id}.
// A null averagePrice is treated the same as an absent one.
type updateModelRequest struct {
	Name         *string          `json:"name"`
	AveragePrice *decimal.Decimal `json:"averagePrice"`
	IsActive     *bool            `json:"isActive"`
}

type modelResponse struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	AveragePrice *json.Number `json:"averagePrice"`
	BrandID      string       `json:"brandId"`
	IsActive     bool         `json:"isActive"`
	CreatedAt    string       `json:"createdAt"`
	UpdatedAt    string       `json:"updatedAt"`
}

func toModelResponse(m *vehiclemodel.Model) modelResponse {
	resp := modelResponse{
		ID:        m.ID.String(),
		Name:      m.Name,
		BrandID:   m.BrandID.String(),
		IsActive:  m.IsActive,
		CreatedAt: formatTime(m.CreatedAt),
		UpdatedAt: formatTime(m.UpdatedAt),
	}
	if m.AveragePrice != nil {
		n := priceNumber(*m.AveragePrice)
		resp.AveragePrice = &n
	}
	return resp
}

func writeModelList(w http.ResponseWriter, models []vehiclemodel.Model, requestID string) {
	items := make([]modelResponse, 0, len(models))
	for i := range models {
		items = append(items, toModelResponse(&models[i]))
	}
	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// ModelHandler handles model endpoints, including those nested under a brand.
type ModelHandler struct {
	svc *catalog.Service
}

// NewModelHandler creates a new ModelHandler.
func NewModelHandler(svc *catalog.Service) *ModelHandler {
	return &ModelHandler{svc: svc}
}

// List handles GET /models. The optional greater and lower query parameters are
// exclusive price bounds.
func (h *ModelHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()

	var fieldErrors []validation.FieldError
	greater, fe := validation.ParsePriceBound("greater", query.Get("greater"))
	if fe != nil {
		fieldErrors = append(fieldErrors, *fe)
	}
	lower, fe := validation.ParsePriceBound("lower", query.Get("lower"))
	if fe != nil {
		fieldErrors = append(fieldErrors, *fe)
	}
	includeInactive, fe := parseFlag(r, "includeInactive")
	if fe != nil {
		fieldErrors = append(fieldErrors, *fe)
	}
	if len(fieldErrors) > 0 {
		validationFailed(w, fieldErrors, requestID)
		return
	}

	models, err := h.svc.ListModels(r.Context(), catalog.ModelFilter{
		Greater:         greater,
		Lower:           lower,
		IncludeInactive: includeInactive,
	})
	if err != nil {
		writeServiceError(w, err, "Failed to list models", requestID)
		return
	}

	writeModelList(w, models, requestID)
}

// ListForBrand handles GET /brands/{id}/models.
func (h *ModelHandler) ListForBrand(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	brandID, ok := parseID(w, r, requestID)
	if !ok {
		return
	}

	models, err := h.svc.ListBrandModels(r.Context(), brandID)
	if err != nil {
		writeServiceError(w, err, "Failed to list brand models", requestID)
		return
	}

	writeModelList(w, models, requestID)
}

// Create handles POST /models, where the body names the brand.
func (h *ModelHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req createModelRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	h.create(w, r, req, true, requestID)
}

// CreateForBrand handles POST /brands/{id}/models, where the path names the brand.
func (h *ModelHandler) CreateForBrand(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	brandID, ok := parseID(w, r, requestID)
	if !ok {
		return
	}

	var req createModelRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}
	req.BrandID = brandID

	h.create(w, r, req, false, requestID)
}

func (h *ModelHandler) create(w http.ResponseWriter, r *http.Request, req createModelRequest, requireBrand bool, requestID string) {
	fieldErrors := validation.ValidateCreateModelRequest(validation.CreateModelRequest{
		Name:         req.Name,
		AveragePrice: req.AveragePrice,
		BrandID:      req.BrandID,
		RequireBrand: requireBrand,
	})
	if len(fieldErrors) > 0 {
		validationFailed(w, fieldErrors, requestID)
		return
	}

	m, err := h.svc.CreateModel(r.Context(), catalog.CreateModelInput{
		BrandID:      req.BrandID,
		Name:         req.Name,
		AveragePrice: req.AveragePrice,
	})
	if err != nil {
		writeServiceError(w, err, "Failed to create model", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toModelResponse(m), requestID)
}

// GetByID handles GET /models/{id}.
func (h *ModelHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r, requestID)
	if !ok {
		return
	}

	m, err := h.svc.GetModel(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Failed to get model", requestID)
		return
	}

	response.Success(w, http.StatusOK, toModelResponse(m), requestID)
}

// Update handles PATCH and PUT /models/{id}. Omitted fields keep their value.
func (h *ModelHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r, requestID)
	if !ok {
		return
	}

	var req updateModelRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	fieldErrors := validation.ValidateUpdateModelRequest(validation.UpdateModelRequest{
		Name:         req.Name,
		AveragePrice: req.AveragePrice,
	})
	if len(fieldErrors) > 0 {
		validationFailed(w, fieldErrors, requestID)
		return
	}

	m, err := h.svc.UpdateModel(r.Context(), id, vehiclemodel.UpdateFields{
		Name:         req.Name,
		AveragePrice: req.AveragePrice,
		IsActive:     req.IsActive,
	})
	if err != nil {
		writeServiceError(w, err, "Failed to update model", requestID)
		return
	}

	response.Success(w, http.StatusOK, toModelResponse(m), requestID)
}

// Delete handles DELETE /models/{id}. The model is deactivated unless hard=true is given.
func (h *ModelHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
		err = h.svc.DeleteModel(r.Context(), id)
	} else {
		err = h.svc.DeactivateModel(r.Context(), id)
	}
	if err != nil {
		writeServiceError(w, err, "Failed to delete model", requestID)
		return
	}

	response.NoContent(w)
}
