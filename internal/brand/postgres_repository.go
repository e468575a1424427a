package brand

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

// bulkInsertChunk bounds the rows per INSERT statement.
const bulkInsertChunk = 1000

// PostgresRepository implements Repository on top of a pgx pool or transaction.
type PostgresRepository struct {
	q database.Querier
}

// NewPostgresRepository creates a new Repository backed by the given querier.
func NewPostgresRepository(q database.Querier) Repository {
	return &PostgresRepository{q: q}
}

// allColumns is the ordered list of columns scanned from the brands table.
const allColumns = `id, name, is_active, created_at, updated_at`

// scanBrand scans a single Brand from a row.
func scanBrand(row pgx.Row) (*Brand, error) {
	var b Brand
	err := row.Scan(&b.ID, &b.Name, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBrandNotFound
		}
		return nil, fmt.Errorf("scanning brand row: %w", err)
	}
	return &b, nil
}

// Create inserts a new brand record and fills its generated fields.
func (r *PostgresRepository) Create(ctx context.Context, b *Brand) error {
	query := `
		INSERT INTO vehicle.brands (name)
		VALUES ($1)
		RETURNING ` + allColumns

	created, err := scanBrand(r.q.QueryRow(ctx, query, b.Name))
	if err != nil {
		if database.HasCode(err, database.CodeUniqueViolation) {
			return ErrDuplicateBrandName
		}
		return fmt.Errorf("inserting brand: %w", err)
	}

	*b = *created
	return nil
}

// GetByID retrieves a single brand by its UUID, active or not.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Brand, error) {
	query := `SELECT ` + allColumns + ` FROM vehicle.brands WHERE id = $1`
	return scanBrand(r.q.QueryRow(ctx, query, id))
}

// GetByName retrieves a single brand by its exact name.
func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*Brand, error) {
	query := `SELECT ` + allColumns + ` FROM vehicle.brands WHERE name = $1`
	return scanBrand(r.q.QueryRow(ctx, query, name))
}

// List retrieves brands ordered by name. Inactive brands are skipped unless includeInactive is set.
func (r *PostgresRepository) List(ctx context.Context, includeInactive bool) ([]Brand, error) {
	query := `SELECT ` + allColumns + ` FROM vehicle.brands`
	if !includeInactive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`

	return r.list(ctx, query)
}

// ListByNames retrieves the brands whose names are in names.
func (r *PostgresRepository) ListByNames(ctx context.Context, names []string) ([]Brand, error) {
	if len(names) == 0 {
		return []Brand{}, nil
	}
	query := `SELECT ` + allColumns + ` FROM vehicle.brands WHERE name = ANY($1) ORDER BY name`
	return r.list(ctx, query, names)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]Brand, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing brands: %w", err)
	}
	defer rows.Close()

	brands := []Brand{}
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, err
		}
		brands = append(brands, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating brand rows: %w", err)
	}

	return brands, nil
}

// Update modifies non-nil fields on a brand. Returns the updated brand.
func (r *PostgresRepository) Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*Brand, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if fields.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *fields.Name)
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
		UPDATE vehicle.brands
		SET %s
		WHERE id = $%d
		RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, allColumns)

	b, err := scanBrand(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if database.HasCode(err, database.CodeUniqueViolation) {
			return nil, ErrDuplicateBrandName
		}
		if errors.Is(err, ErrBrandNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("updating brand: %w", err)
	}
	return b, nil
}

// Delete removes a brand by its UUID. Returns ErrBrandHasModels if any model,
// active or not, still references it.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var count int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM vehicle.models WHERE brand_id = $1`, id,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking models for brand: %w", err)
	}
	if count > 0 {
		return ErrBrandHasModels
	}

	result, err := r.q.Exec(ctx, `DELETE FROM vehicle.brands WHERE id = $1`, id)
	if err != nil {
		if database.HasCode(err, database.CodeForeignKeyViolation) {
			return ErrBrandHasModels
		}
		return fmt.Errorf("deleting brand: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrBrandNotFound
	}

	return nil
}

// BulkInsert inserts the given brand names, silently skipping names that already exist.
// Returns the number of rows actually inserted.
func (r *PostgresRepository) BulkInsert(ctx context.Context, names []string) (int64, error) {
	var inserted int64
	for start := 0; start < len(names); start += bulkInsertChunk {
		end := min(start+bulkInsertChunk, len(names))
		chunk := names[start:end]

		placeholders := make([]string, len(chunk))
		args := make([]any, len(chunk))
		for i, name := range chunk {
			placeholders[i] = fmt.Sprintf("($%d)", i+1)
			args[i] = name
		}

		query := fmt.Sprintf(`
			INSERT INTO vehicle.brands (name)
			VALUES %s
			ON CONFLICT (name) DO NOTHING`, strings.Join(placeholders, ", "))

		result, err := r.q.Exec(ctx, query, args...)
		if err != nil {
			return inserted, fmt.Errorf("bulk inserting brands: %w", err)
		}
		inserted += result.RowsAffected()
	}
	return inserted, nil
}

// AveragePrices returns, for every active brand with at least one active priced model,
// the mean of those prices rounded to the nearest integer.
func (r *PostgresRepository) AveragePrices(ctx context.Context) ([]AveragePrice, error) {
	query := `
		SELECT b.id, b.name, AVG(m.average_price)
		FROM vehicle.brands b
		JOIN vehicle.models m ON m.brand_id = b.id
		WHERE b.is_active AND m.is_active AND m.average_price IS NOT NULL
		GROUP BY b.id, b.name
		ORDER BY b.name`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("aggregating brand prices: %w", err)
	}
	defer rows.Close()

	prices := []AveragePrice{}
	for rows.Next() {
		var (
			p   AveragePrice
			avg decimal.Decimal
		)
		if err := rows.Scan(&p.ID, &p.Name, &avg); err != nil {
			return nil, fmt.Errorf("scanning brand price row: %w", err)
		}
		p.AveragePrice = avg.Round(0)
		prices = append(prices, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating brand price rows: %w", err)
	}

	return prices, nil
}
