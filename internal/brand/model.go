package brand

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Brand represents a row in the vehicle.brands table.
type Brand struct {
	ID        uuid.UUID
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UpdateFields holds optional fields for a partial brand update.
// Nil fields are not updated.
type UpdateFields struct {
	Name     *string
	IsActive *bool
}

// AveragePrice is one row of the per-brand price aggregate.
type AveragePrice struct {
	ID           uuid.UUID
	Name         string
	AveragePrice decimal.Decimal
}
