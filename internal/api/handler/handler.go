package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/autocatalog/autocatalog/internal/api/response"
	"github.com/autocatalog/autocatalog/internal/api/validation"
	"github.com/autocatalog/autocatalog/internal/catalog"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

const timeLayout = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// priceNumber renders a price as a bare JSON number.
func priceNumber(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// parseID reads the {id} URL parameter. It writes a 400 and returns false when the
// parameter is not a UUID.
func parseID(w http.ResponseWriter, r *http.Request, requestID string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return uuid.Nil, false
	}
	return id, true
}

// decodeJSON decodes a size-limited request body into dst. It writes a 400 and returns
// false when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, requestID string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return false
	}
	return true
}

// parseFlag reads an optional boolean query parameter.
func parseFlag(r *http.Request, name string) (bool, *validation.FieldError) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &validation.FieldError{Field: name, Message: name + " must be a boolean"}
	}
	return v, nil
}

func validationFailed(w http.ResponseWriter, fieldErrors []validation.FieldError, requestID string) {
	response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
}

// writeServiceError maps a catalog.Service error to its HTTP status and envelope.
// Unclassified errors are logged and reported as a 500 with fallback as the message.
func writeServiceError(w http.ResponseWriter, err error, fallback, requestID string) {
	var ce *catalog.Error
	if errors.As(err, &ce) {
		switch {
		case errors.Is(ce, catalog.ErrValidation):
			validationFailed(w, ce.Fields, requestID)
			return
		case errors.Is(ce, catalog.ErrNotFound):
			response.Err(w, http.StatusNotFound, ce.Code, ce.Message, requestID)
			return
		case errors.Is(ce, catalog.ErrConflict):
			response.Err(w, http.StatusConflict, ce.Code, ce.Message, requestID)
			return
		case errors.Is(ce, catalog.ErrStorageUnavailable):
			slog.Error("storage unavailable", "error", err, "requestId", requestID)
			response.Err(w, http.StatusServiceUnavailable, ce.Code, ce.Message, requestID)
			return
		}
	}

	slog.Error("request failed", "error", err, "message", fallback, "requestId", requestID)
	response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", fallback, requestID)
}
