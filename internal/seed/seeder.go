package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/autocatalog/autocatalog/internal/brand"
	"github.com/autocatalog/autocatalog/internal/database"
	"github.com/autocatalog/autocatalog/internal/metrics"
	"github.com/autocatalog/autocatalog/internal/vehiclemodel"
)

// Transactor runs fn inside a single database transaction.
type Transactor interface {
	InTx(ctx context.Context, fn func(q database.Querier) error) error
}

// Result reports what a seed run changed.
type Result struct {
	BrandsInserted int64
	ModelsInserted int64
	Skipped        int
}

// Seeder bulk-inserts a dataset. Rows whose name already exists are left untouched, so
// running the same dataset twice inserts nothing the second time.
type Seeder struct {
	db        Transactor
	brandRepo func(q database.Querier) brand.Repository
	modelRepo func(q database.Querier) vehiclemodel.Repository
}

// NewSeeder creates a Seeder that writes through Postgres repositories.
func NewSeeder(db Transactor) *Seeder {
	return &Seeder{
		db:        db,
		brandRepo: brand.NewPostgresRepository,
		modelRepo: vehiclemodel.NewPostgresRepository,
	}
}

// Run prepares entries and inserts brands, then models, in one transaction.
func (s *Seeder) Run(ctx context.Context, entries []Entry) (Result, error) {
	plan := Prepare(entries)
	result := Result{Skipped: plan.Skipped}

	err := s.db.InTx(ctx, func(q database.Querier) error {
		brands := s.brandRepo(q)
		models := s.modelRepo(q)

		inserted, err := brands.BulkInsert(ctx, plan.Brands)
		if err != nil {
			return err
		}
		result.BrandsInserted = inserted

		stored, err := brands.ListByNames(ctx, plan.Brands)
		if err != nil {
			return fmt.Errorf("resolving seeded brands: %w", err)
		}
		brandIDs := make(map[string]uuid.UUID, len(stored))
		for _, b := range stored {
			brandIDs[b.Name] = b.ID
		}

		rows := make([]vehiclemodel.Model, 0, len(plan.Models))
		for _, pm := range plan.Models {
			id, ok := brandIDs[pm.Brand]
			if !ok {
				return fmt.Errorf("brand %q missing after insert", pm.Brand)
			}
			rows = append(rows, vehiclemodel.Model{
				Name:         pm.Name,
				AveragePrice: pm.AveragePrice,
				BrandID:      id,
			})
		}

		inserted, err = models.BulkInsert(ctx, rows)
		if err != nil {
			return err
		}
		result.ModelsInserted = inserted
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("seeding catalog: %w", err)
	}

	metrics.SeedRows.WithLabelValues("brand", "inserted").Add(float64(result.BrandsInserted))
	metrics.SeedRows.WithLabelValues("brand", "existing").Add(float64(int64(len(plan.Brands)) - result.BrandsInserted))
	metrics.SeedRows.WithLabelValues("model", "inserted").Add(float64(result.ModelsInserted))
	metrics.SeedRows.WithLabelValues("model", "existing").Add(float64(int64(len(plan.Models)) - result.ModelsInserted))
	metrics.SeedRows.WithLabelValues("row", "skipped").Add(float64(result.Skipped))

	slog.Info("catalog seeded",
		"brandsInserted", result.BrandsInserted,
		"modelsInserted", result.ModelsInserted,
		"skipped", result.Skipped,
	)
	return result, nil
}
