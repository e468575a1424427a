package validation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/autocatalog/autocatalog/internal/catalog"
)

// FieldError represents a validation error on a specific field.
type FieldError = catalog.FieldError

// ParsePriceBound parses an optional price filter from a query parameter.
// An empty value yields a nil bound.
func ParsePriceBound(field, raw string) (*decimal.Decimal, *FieldError) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, &FieldError{Field: field, Message: fmt.Sprintf("%s must be a decimal number", field)}
	}
	return &d, nil
}

func checkName(errs []FieldError, name string) []FieldError {
	if msg := catalog.NameProblem("name", catalog.NormalizeName(name)); msg != "" {
		errs = append(errs, FieldError{Field: "name", Message: msg})
	}
	return errs
}

func checkPrice(errs []FieldError, price *decimal.Decimal) []FieldError {
	if price != nil && !catalog.ValidPrice(*price) {
		errs = append(errs, FieldError{Field: "averagePrice", Message: catalog.PriceMessage("averagePrice")})
	}
	return errs
}
