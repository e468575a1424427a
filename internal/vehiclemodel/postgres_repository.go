package vehiclemodel

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/autocatalog/autocatalog/internal/database"
)

// bulkInsertChunk bounds the rows per INSERT statement (three parameters per row).
const bulkInsertChunk = 1000

// PostgresRepository implements Repository on top of a pgx pool or transaction.
type PostgresRepository struct {
	q database.Querier
}

// NewPostgresRepository creates a new Repository backed by the given querier.
func NewPostgresRepository(q database.Querier) Repository {
	return &PostgresRepository{q: q}
}

const allColumns = `id, name, average_price, brand_id, is_active, created_at, updated_at`

func scanModel(row pgx.Row) (*Model, error) {
	var (
		m     Model
		price decimal.NullDecimal
	)
	err := row.Scan(&m.ID, &m.Name, &price, &m.BrandID, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrModelNotFound
		}
		return nil, fmt.Errorf("scanning model row: %w", err)
	}
	if price.Valid {
		m.AveragePrice = &price.Decimal
	}
	return &m, nil
}

// translateWriteError maps constraint violations raised by INSERT/UPDATE to package errors.
func translateWriteError(err error) error {
	switch {
	case database.HasCode(err, database.CodeUniqueViolation):
		return ErrDuplicateModelName
	case database.HasCode(err, database.CodeForeignKeyViolation):
		return ErrBrandDoesNotExist
	case database.HasCode(err, database.CodeCheckViolation),
		database.HasCode(err, database.CodeNumericOutOfRange):
		return ErrInvalidPrice
	}
	return nil
}

// Create inserts a new model record and fills its generated fields.
func (r *PostgresRepository) Create(ctx context.Context, m *Model) error {
	query := `
		INSERT INTO vehicle.models (name, average_price, brand_id)
		VALUES ($1, $2, $3)
		RETURNING ` + allColumns

	created, err := scanModel(r.q.QueryRow(ctx, query, m.Name, m.AveragePrice, m.BrandID))
	if err != nil {
		if domainErr := translateWriteError(err); domainErr != nil {
			return domainErr
		}
		return fmt.Errorf("inserting model: %w", err)
	}

	*m = *created
	return nil
}

// GetByID retrieves a single model by its UUID, active or not.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Model, error) {
	query := `SELECT ` + allColumns + ` FROM vehicle.models WHERE id = $1`
	return scanModel(r.q.QueryRow(ctx, query, id))
}

// GetByName retrieves a single model by its exact name.
func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*Model, error) {
	query := `SELECT ` + allColumns + ` FROM vehicle.models WHERE name = $1`
	return scanModel(r.q.QueryRow(ctx, query, name))
}

// List retrieves models matching the filter, ordered by name.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]Model, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if !filter.IncludeInactive {
		conditions = append(conditions, "is_active")
	}
	if filter.Greater != nil {
		conditions = append(conditions, fmt.Sprintf("average_price > $%d", argIdx))
		args = append(args, *filter.Greater)
		argIdx++
	}
	if filter.Lower != nil {
		conditions = append(conditions, fmt.Sprintf("average_price < $%d", argIdx))
		args = append(args, *filter.Lower)
		argIdx++
	}

	query := `SELECT ` + allColumns + ` FROM vehicle.models`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY name"

	return r.list(ctx, query, args...)
}

// ListByBrand retrieves the active models of a brand, ordered by name.
func (r *PostgresRepository) ListByBrand(ctx context.Context, brandID uuid.UUID) ([]Model, error) {
	query := `SELECT ` + allColumns + ` FROM vehicle.models WHERE brand_id = $1 AND is_active ORDER BY name`
	return r.list(ctx, query, brandID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]Model, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing models: %w", err)
	}
	defer rows.Close()

	models := []Model{}
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, err
		}
		models = append(models, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating model rows: %w", err)
	}

	return models, nil
}

// Update modifies the non-nil fields of a model and refreshes updated_at.
func (r *PostgresRepository) Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*Model, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if fields.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *fields.Name)
		argIdx++
	}
	if fields.AveragePrice != nil {
		setClauses = append(setClauses, fmt.Sprintf("average_price = $%d", argIdx))
		args = append(args, *fields.AveragePrice)
		argIdx++
	}
	if fields.IsActive != nil {
		setClauses = append(setClauses, fmt.Sprintf("is_active = $%d", argIdx))
		args = append(args, *fields.IsActive)
		argIdx++
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")

	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE vehicle.models
		SET %s
		WHERE id = $%d
		RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, allColumns)

	m, err := scanModel(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, ErrModelNotFound) {
			return nil, err
		}
		if domainErr := translateWriteError(err); domainErr != nil {
			return nil, domainErr
		}
		return nil, fmt.Errorf("updating model: %w", err)
	}
	return m, nil
}

// Delete permanently removes a model.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.Exec(ctx, `DELETE FROM vehicle.models WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting model: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrModelNotFound
	}

	return nil
}

// BulkInsert inserts the given models, silently skipping rows whose name already exists.
// Only Name, AveragePrice and BrandID are read from each element. Returns the number of
// rows actually inserted.
func (r *PostgresRepository) BulkInsert(ctx context.Context, models []Model) (int64, error) {
	var inserted int64
	for start := 0; start < len(models); start += bulkInsertChunk {
		end := min(start+bulkInsertChunk, len(models))
		chunk := models[start:end]

		placeholders := make([]string, 0, len(chunk))
		args := make([]any, 0, len(chunk)*3)
		for i, m := range chunk {
			base := i * 3
			placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d)", base+1, base+2, base+3))
			args = append(args, m.Name, m.AveragePrice, m.BrandID)
		}

		query := fmt.Sprintf(`
			INSERT INTO vehicle.models (name, average_price, brand_id)
			VALUES %s
			ON CONFLICT (name) DO NOTHING`, strings.Join(placeholders, ", "))

		result, err := r.q.Exec(ctx, query, args...)
		if err != nil {
			if domainErr := translateWriteError(err); domainErr != nil {
				return inserted, fmt.Errorf("bulk inserting models: %w", domainErr)
			}
			return inserted, fmt.Errorf("bulk inserting models: %w", err)
		}
		inserted += result.RowsAffected()
	}
	return inserted, nil
}
