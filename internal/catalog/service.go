package catalog

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/autocatalog/autocatalog/internal/brand"
	"github.com/autocatalog/autocatalog/internal/database"
	"github.com/autocatalog/autocatalog/internal/vehiclemodel"
)

// Service applies the cross-entity rules of the catalog on top of the brand and model
// repositories and classifies every failure into one of the Err* outcome classes.
type Service struct {
	brands brand.Repository
	models vehiclemodel.Repository
}

// NewService creates a new catalog Service.
func NewService(brands brand.Repository, models vehiclemodel.Repository) *Service {
	return &Service{brands: brands, models: models}
}

// CreateModelInput holds the fields of a new model.
type CreateModelInput struct {
	BrandID      uuid.UUID
	Name         string
	AveragePrice *decimal.Decimal
}

// ModelFilter bounds a model listing by price. Nil bounds are skipped.
type ModelFilter struct {
	Greater         *decimal.Decimal
	Lower           *decimal.Decimal
	IncludeInactive bool
}

// ListBrands returns all brands, skipping inactive ones unless includeInactive is set.
func (s *Service) ListBrands(ctx context.Context, includeInactive bool) ([]brand.Brand, error) {
	brands, err := s.brands.List(ctx, includeInactive)
	if err != nil {
		return nil, storageError("listing brands", err)
	}
	return brands, nil
}

// GetBrand returns a single brand.
func (s *Service) GetBrand(ctx context.Context, id uuid.UUID) (*brand.Brand, error) {
	b, err := s.brands.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, brand.ErrBrandNotFound) {
			return nil, brandNotFound(id)
		}
		return nil, storageError("getting brand", err)
	}
	return b, nil
}

// ListBrandAveragePrices returns the per-brand average of active priced models. Brands
// without any priced model are absent from the result.
func (s *Service) ListBrandAveragePrices(ctx context.Context) ([]brand.AveragePrice, error) {
	prices, err := s.brands.AveragePrices(ctx)
	if err != nil {
		return nil, storageError("aggregating brand prices", err)
	}
	return prices, nil
}

// CreateBrand creates a brand with a unique name.
func (s *Service) CreateBrand(ctx context.Context, name string) (*brand.Brand, error) {
	name = NormalizeName(name)
	if msg := NameProblem("name", name); msg != "" {
		return nil, validationError(FieldError{Field: "name", Message: msg})
	}

	if _, err := s.brands.GetByName(ctx, name); err == nil {
		return nil, duplicateBrand(name)
	} else if !errors.Is(err, brand.ErrBrandNotFound) {
		return nil, storageError("checking brand name", err)
	}

	b := &brand.Brand{Name: name}
	if err := s.brands.Create(ctx, b); err != nil {
		if errors.Is(err, brand.ErrDuplicateBrandName) {
			return nil, duplicateBrand(name)
		}
		return nil, storageError("creating brand", err)
	}

	slog.Info("brand created", "id", b.ID, "name", b.Name)
	return b, nil
}

// UpdateBrand applies a partial update to a brand. Only non-nil fields change.
func (s *Service) UpdateBrand(ctx context.Context, id uuid.UUID, fields brand.UpdateFields) (*brand.Brand, error) {
	current, err := s.GetBrand(ctx, id)
	if err != nil {
		return nil, err
	}

	if fields.Name != nil {
		name := NormalizeName(*fields.Name)
		if msg := NameProblem("name", name); msg != "" {
			return nil, validationError(FieldError{Field: "name", Message: msg})
		}
		fields.Name = &name

		if name != current.Name {
			if _, err := s.brands.GetByName(ctx, name); err == nil {
				return nil, duplicateBrand(name)
			} else if !errors.Is(err, brand.ErrBrandNotFound) {
				return nil, storageError("checking brand name", err)
			}
		}
	}

	b, err := s.brands.Update(ctx, id, fields)
	if err != nil {
		switch {
		case errors.Is(err, brand.ErrBrandNotFound):
			return nil, brandNotFound(id)
		case errors.Is(err, brand.ErrDuplicateBrandName):
			return nil, duplicateBrand(*fields.Name)
		}
		return nil, storageError("updating brand", err)
	}
	return b, nil
}

// DeactivateBrand soft-deletes a brand: it stays stored but leaves default listings.
func (s *Service) DeactivateBrand(ctx context.Context, id uuid.UUID) error {
	inactive := false
	_, err := s.UpdateBrand(ctx, id, brand.UpdateFields{IsActive: &inactive})
	return err
}

// DeleteBrand permanently removes a brand that no model references.
func (s *Service) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	if err := s.brands.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, brand.ErrBrandNotFound):
			return brandNotFound(id)
		case errors.Is(err, brand.ErrBrandHasModels):
			return conflictError("BRAND_HAS_MODELS", "Brand with id '%s' still has models", id)
		}
		return storageError("deleting brand", err)
	}
	slog.Info("brand deleted", "id", id)
	return nil
}

// ListBrandModels returns the active models of an existing brand.
func (s *Service) ListBrandModels(ctx context.Context, brandID uuid.UUID) ([]vehiclemodel.Model, error) {
	if _, err := s.GetBrand(ctx, brandID); err != nil {
		return nil, err
	}

	models, err := s.models.ListByBrand(ctx, brandID)
	if err != nil {
		return nil, storageError("listing brand models", err)
	}
	return models, nil
}

// ListModels returns models whose price lies strictly between the filter bounds.
func (s *Service) ListModels(ctx context.Context, filter ModelFilter) ([]vehiclemodel.Model, error) {
	models, err := s.models.List(ctx, vehiclemodel.ListFilter{
		Greater:         filter.Greater,
		Lower:           filter.Lower,
		IncludeInactive: filter.IncludeInactive,
	})
	if err != nil {
		return nil, storageError("listing models", err)
	}
	return models, nil
}

// GetModel returns a single model.
func (s *Service) GetModel(ctx context.Context, id uuid.UUID) (*vehiclemodel.Model, error) {
	m, err := s.models.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, vehiclemodel.ErrModelNotFound) {
			return nil, modelNotFound(id)
		}
		return nil, storageError("getting model", err)
	}
	return m, nil
}

// CreateModel creates a model under an existing, active brand. The checks run in order:
// the brand must resolve, then the name must be free, then the row is inserted.
func (s *Service) CreateModel(ctx context.Context, in CreateModelInput) (*vehiclemodel.Model, error) {
	name := NormalizeName(in.Name)
	if msg := NameProblem("name", name); msg != "" {
		return nil, validationError(FieldError{Field: "name", Message: msg})
	}
	if in.AveragePrice != nil && !ValidPrice(*in.AveragePrice) {
		return nil, priceError("averagePrice")
	}

	b, err := s.brands.GetByID(ctx, in.BrandID)
	if err != nil {
		if errors.Is(err, brand.ErrBrandNotFound) {
			return nil, brandNotFound(in.BrandID)
		}
		return nil, storageError("getting brand", err)
	}
	if !b.IsActive {
		return nil, brandNotFound(in.BrandID)
	}

	if _, err := s.models.GetByName(ctx, name); err == nil {
		return nil, duplicateModel(name)
	} else if !errors.Is(err, vehiclemodel.ErrModelNotFound) {
		return nil, storageError("checking model name", err)
	}

	m := &vehiclemodel.Model{
		Name:         name,
		AveragePrice: in.AveragePrice,
		BrandID:      in.BrandID,
	}
	if err := s.models.Create(ctx, m); err != nil {
		switch {
		case errors.Is(err, vehiclemodel.ErrDuplicateModelName):
			return nil, duplicateModel(name)
		case errors.Is(err, vehiclemodel.ErrBrandDoesNotExist):
			return nil, brandNotFound(in.BrandID)
		case errors.Is(err, vehiclemodel.ErrInvalidPrice):
			return nil, priceError("averagePrice")
		}
		return nil, storageError("creating model", err)
	}

	slog.Info("model created", "id", m.ID, "name", m.Name, "brandId", m.BrandID)
	return m, nil
}

// UpdateModel applies a partial update to a model. Only non-nil fields change; the price
// is re-checked here even when the caller already validated it.
func (s *Service) UpdateModel(ctx context.Context, id uuid.UUID, fields vehiclemodel.UpdateFields) (*vehiclemodel.Model, error) {
	current, err := s.GetModel(ctx, id)
	if err != nil {
		return nil, err
	}

	if fields.AveragePrice != nil && !ValidPrice(*fields.AveragePrice) {
		return nil, priceError("averagePrice")
	}

	if fields.Name != nil {
		name := NormalizeName(*fields.Name)
		if msg := NameProblem("name", name); msg != "" {
			return nil, validationError(FieldError{Field: "name", Message: msg})
		}
		fields.Name = &name

		if name != current.Name {
			if _, err := s.models.GetByName(ctx, name); err == nil {
				return nil, duplicateModel(name)
			} else if !errors.Is(err, vehiclemodel.ErrModelNotFound) {
				return nil, storageError("checking model name", err)
			}
		}
	}

	m, err := s.models.Update(ctx, id, fields)
	if err != nil {
		switch {
		case errors.Is(err, vehiclemodel.ErrModelNotFound):
			return nil, modelNotFound(id)
		case errors.Is(err, vehiclemodel.ErrDuplicateModelName):
			return nil, duplicateModel(*fields.Name)
		case errors.Is(err, vehiclemodel.ErrInvalidPrice):
			return nil, priceError("averagePrice")
		}
		return nil, storageError("updating model", err)
	}
	return m, nil
}

// DeactivateModel soft-deletes a model.
func (s *Service) DeactivateModel(ctx context.Context, id uuid.UUID) error {
	inactive := false
	_, err := s.UpdateModel(ctx, id, vehiclemodel.UpdateFields{IsActive: &inactive})
	return err
}

// DeleteModel permanently removes a model.
func (s *Service) DeleteModel(ctx context.Context, id uuid.UUID) error {
	if err := s.models.Delete(ctx, id); err != nil {
		if errors.Is(err, vehiclemodel.ErrModelNotFound) {
			return modelNotFound(id)
		}
		return storageError("deleting model", err)
	}
	slog.Info("model deleted", "id", id)
	return nil
}

func brandNotFound(id uuid.UUID) *Error {
	return notFoundError("Brand with id '%s' does not exist", id)
}

func modelNotFound(id uuid.UUID) *Error {
	return notFoundError("Model with id '%s' does not exist", id)
}

func duplicateBrand(name string) *Error {
	return conflictError("DUPLICATE_NAME", "Brand '%s' already exists", name)
}

func duplicateModel(name string) *Error {
	return conflictError("DUPLICATE_NAME", "Model '%s' already exists", name)
}

// storageError classifies an unexpected repository failure. Connection-level failures
// become ErrStorageUnavailable; anything else is returned wrapped and unclassified.
func storageError(op string, err error) error {
	if database.IsUnavailable(err) {
		return &Error{Kind: ErrStorageUnavailable, Code: "STORAGE_UNAVAILABLE", Message: "The catalog store is unavailable", Err: err}
	}
	return &internalError{op: op, err: err}
}

type internalError struct {
	op  string
	err error
}

func (e *internalError) Error() string { return e.op + ": " + e.err.Error() }
func (e *internalError) Unwrap() error { return e.err }
