package catalog_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/autocatalog/autocatalog/internal/brand"
	"github.com/autocatalog/autocatalog/internal/vehiclemodel"
)

// --- Mock brand repository ---

type mockBrandRepo struct {
	createFn        func(ctx context.Context, b *brand.Brand) error
	getByIDFn       func(ctx context.Context, id uuid.UUID) (*brand.Brand, error)
	getByNameFn     func(ctx context.Context, name string) (*brand.Brand, error)
	listFn          func(ctx context.Context, includeInactive bool) ([]brand.Brand, error)
	updateFn        func(ctx context.Context, id uuid.UUID, fields brand.UpdateFields) (*brand.Brand, error)
	deleteFn        func(ctx context.Context, id uuid.UUID) error
	averagePricesFn func(ctx context.Context) ([]brand.AveragePrice, error)
}

func (m *mockBrandRepo) Create(ctx context.Context, b *brand.Brand) error {
	if m.createFn != nil {
		return m.createFn(ctx, b)
	}
	b.ID = uuid.New()
	b.IsActive = true
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	return nil
}

func (m *mockBrandRepo) GetByID(ctx context.Context, id uuid.UUID) (*brand.Brand, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, brand.ErrBrandNotFound
}

func (m *mockBrandRepo) GetByName(ctx context.Context, name string) (*brand.Brand, error) {
	if m.getByNameFn != nil {
		return m.getByNameFn(ctx, name)
	}
	return nil, brand.ErrBrandNotFound
}

func (m *mockBrandRepo) List(ctx context.Context, includeInactive bool) ([]brand.Brand, error) {
	if m.listFn != nil {
		return m.listFn(ctx, includeInactive)
	}
	return []brand.Brand{}, nil
}

func (m *mockBrandRepo) ListByNames(_ context.Context, _ []string) ([]brand.Brand, error) {
	return []brand.Brand{}, nil
}

func (m *mockBrandRepo) Update(ctx context.Context, id uuid.UUID, fields brand.UpdateFields) (*brand.Brand, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, fields)
	}
	return nil, brand.ErrBrandNotFound
}

func (m *mockBrandRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockBrandRepo) BulkInsert(_ context.Context, names []string) (int64, error) {
	return int64(len(names)), nil
}

func (m *mockBrandRepo) AveragePrices(ctx context.Context) ([]brand.AveragePrice, error) {
	if m.averagePricesFn != nil {
		return m.averagePricesFn(ctx)
	}
	return []brand.AveragePrice{}, nil
}

// --- Mock model repository ---

type mockModelRepo struct {
	createFn      func(ctx context.Context, m *vehiclemodel.Model) error
	getByIDFn     func(ctx context.Context, id uuid.UUID) (*vehiclemodel.Model, error)
	getByNameFn   func(ctx context.Context, name string) (*vehiclemodel.Model, error)
	listFn        func(ctx context.Context, filter vehiclemodel.ListFilter) ([]vehiclemodel.Model, error)
	listByBrandFn func(ctx context.Context, brandID uuid.UUID) ([]vehiclemodel.Model, error)
	updateFn      func(ctx context.Context, id uuid.UUID, fields vehiclemodel.UpdateFields) (*vehiclemodel.Model, error)
	deleteFn      func(ctx context.Context, id uuid.UUID) error
}

func (m *mockModelRepo) Create(ctx context.Context, model *vehiclemodel.Model) error {
	if m.createFn != nil {
		return m.createFn(ctx, model)
	}
	model.ID = uuid.New()
	model.IsActive = true
	model.CreatedAt = time.Now().UTC()
	model.UpdatedAt = model.CreatedAt
	return nil
}

func (m *mockModelRepo) GetByID(ctx context.Context, id uuid.UUID) (*vehiclemodel.Model, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, vehiclemodel.ErrModelNotFound
}

func (m *mockModelRepo) GetByName(ctx context.Context, name string) (*vehiclemodel.Model, error) {
	if m.getByNameFn != nil {
		return m.getByNameFn(ctx, name)
	}
	return nil, vehiclemodel.ErrModelNotFound
}

func (m *mockModelRepo) List(ctx context.Context, filter vehiclemodel.ListFilter) ([]vehiclemodel.Model, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return []vehiclemodel.Model{}, nil
}

func (m *mockModelRepo) ListByBrand(ctx context.Context, brandID uuid.UUID) ([]vehiclemodel.Model, error) {
	if m.listByBrandFn != nil {
		return m.listByBrandFn(ctx, brandID)
	}
	return []vehiclemodel.Model{}, nil
}

func (m *mockModelRepo) Update(ctx context.Context, id uuid.UUID, fields vehiclemodel.UpdateFields) (*vehiclemodel.Model, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, fields)
	}
	return nil, vehiclemodel.ErrModelNotFound
}

func (m *mockModelRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockModelRepo) BulkInsert(_ context.Context, models []vehiclemodel.Model) (int64, error) {
	return int64(len(models)), nil
}
