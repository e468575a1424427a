package vehiclemodel

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Model represents a row in the vehicle.models table.
type Model struct {
	ID           uuid.UUID
	Name         string
	AveragePrice *decimal.Decimal
	BrandID      uuid.UUID
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ListFilter holds optional price bounds for listing models. Both bounds are exclusive
// and combine with AND; a model without a price never matches a bound.
type ListFilter struct {
	Greater         *decimal.Decimal
	Lower           *decimal.Decimal
	IncludeInactive bool
}

// UpdateFields holds user-updatable fields on a model record.
// Nil fields are not updated.
type UpdateFields struct {
	Name         *string
	AveragePrice *decimal.Decimal
	IsActive     *bool
}
