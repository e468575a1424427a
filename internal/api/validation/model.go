package validation

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateModelRequest mirrors the fields needed for create model validation.
// BrandID is checked only when RequireBrand is set; nested routes take it from the path.
type CreateModelRequest struct {
	Name         string
	AveragePrice *decimal.Decimal
	BrandID      uuid.UUID
	RequireBrand bool
}

// ValidateCreateModelRequest validates the fields of a create model request.
func ValidateCreateModelRequest(req CreateModelRequest) []FieldError {
	var errs []FieldError

	errs = checkName(errs, req.Name)
	errs = checkPrice(errs, req.AveragePrice)

	if req.RequireBrand && req.BrandID == uuid.Nil {
		errs = append(errs, FieldError{Field: "brandId", Message: "brandId is required"})
	}

	return errs
}

// UpdateModelRequest mirrors the fields needed for update model validation.
// Nil fields are not validated.
type UpdateModelRequest struct {
	Name         *string
	AveragePrice *decimal.Decimal
}

// ValidateUpdateModelRequest validates only non-nil fields on an update request.
func ValidateUpdateModelRequest(req UpdateModelRequest) []FieldError {
	var errs []FieldError

	if req.Name != nil {
		errs = checkName(errs, *req.Name)
	}
	errs = checkPrice(errs, req.AveragePrice)

	return errs
}
