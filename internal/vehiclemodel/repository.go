package vehiclemodel

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrModelNotFound is returned when a model record is not found.
var ErrModelNotFound = errors.New("model not found")

// ErrDuplicateModelName is returned when a model with the same name already exists.
var ErrDuplicateModelName = errors.New("model name already exists")

// ErrBrandDoesNotExist is returned when the referenced brand is missing at write time.
var ErrBrandDoesNotExist = errors.New("brand does not exist")

// ErrInvalidPrice is returned when the database rejects an average price.
var ErrInvalidPrice = errors.New("average price below threshold")

// Repository provides CRUD operations on the models table.
type Repository interface {
	Create(ctx context.Context, m *Model) error
	GetByID(ctx context.Context, id uuid.UUID) (*Model, error)
	GetByName(ctx context.Context, name string) (*Model, error)
	List(ctx context.Context, filter ListFilter) ([]Model, error)
	ListByBrand(ctx context.Context, brandID uuid.UUID) ([]Model, error)
	Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*Model, error)
	Delete(ctx context.Context, id uuid.UUID) error
	BulkInsert(ctx context.Context, models []Model) (int64, error)
}
