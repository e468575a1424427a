package brand

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrBrandNotFound is returned when a brand record is not found.
var ErrBrandNotFound = errors.New("brand not found")

// ErrDuplicateBrandName is returned when a brand with the same name already exists.
var ErrDuplicateBrandName = errors.New("brand name already exists")

// ErrBrandHasModels is returned when attempting to hard-delete a brand that still has models.
var ErrBrandHasModels = errors.New("brand has models")

// Repository provides CRUD operations on the brands table.
type Repository interface {
	Create(ctx context.Context, b *Brand) error
	GetByID(ctx context.Context, id uuid.UUID) (*Brand, error)
	GetByName(ctx context.Context, name string) (*Brand, error)
	List(ctx context.Context, includeInactive bool) ([]Brand, error)
	ListByNames(ctx context.Context, names []string) ([]Brand, error)
	Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*Brand, error)
	Delete(ctx context.Context, id uuid.UUID) error
	BulkInsert(ctx context.Context, names []string) (int64, error)
	AveragePrices(ctx context.Context) ([]AveragePrice, error)
}
