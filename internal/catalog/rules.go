package catalog

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// MinAveragePrice is the exclusive lower bound for any average price stored in the catalog.
const MinAveragePrice = 100000

// MaxNameLength is the width of the name columns on both tables.
const MaxNameLength = 100

// MaxAveragePrice is the largest value the NUMERIC(12,2) price column can hold.
const MaxAveragePrice = "9999999999.99"

var (
	minAveragePrice = decimal.NewFromInt(MinAveragePrice)
	maxAveragePrice = decimal.RequireFromString(MaxAveragePrice)
)

// ValidPrice reports whether p is strictly above MinAveragePrice and fits the price column.
func ValidPrice(p decimal.Decimal) bool {
	return p.GreaterThan(minAveragePrice) && p.LessThanOrEqual(maxAveragePrice)
}

// PriceMessage is the message attached to a rejected average price.
func PriceMessage(field string) string {
	return fmt.Sprintf("%s must be greater than %d and at most %s", field, MinAveragePrice, MaxAveragePrice)
}

// NormalizeName trims surrounding whitespace from an entity name.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// NameProblem returns a message describing why name is unusable, or "" when it is valid.
// The name is expected to be normalized already.
func NameProblem(field, name string) string {
	if name == "" {
		return fmt.Sprintf("%s is required", field)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return fmt.Sprintf("%s must be at most %d characters", field, MaxNameLength)
	}
	return ""
}
