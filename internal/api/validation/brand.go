package validation

import "github.com/shopspring/decimal"

const derivedPriceMessage = "averagePrice is computed from the brand's models and cannot be set"

// CreateBrandRequest mirrors the fields needed for create brand validation.
type CreateBrandRequest struct {
	Name         string
	AveragePrice *decimal.Decimal
}

// ValidateCreateBrandRequest validates the fields of a create brand request.
func ValidateCreateBrandRequest(req CreateBrandRequest) []FieldError {
	var errs []FieldError

	errs = checkName(errs, req.Name)

	if req.AveragePrice != nil {
		errs = append(errs, FieldError{Field: "averagePrice", Message: derivedPriceMessage})
	}

	return errs
}

// UpdateBrandRequest mirrors the fields needed for update brand validation.
// Nil fields are not validated.
type UpdateBrandRequest struct {
	Name         *string
	AveragePrice *decimal.Decimal
}

// ValidateUpdateBrandRequest validates only non-nil fields on an update request.
func ValidateUpdateBrandRequest(req UpdateBrandRequest) []FieldError {
	var errs []FieldError

	if req.Name != nil {
		errs = checkName(errs, *req.Name)
	}

	if req.AveragePrice != nil {
		errs = append(errs, FieldError{Field: "averagePrice", Message: derivedPriceMessage})
	}

	return errs
}
