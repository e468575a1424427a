// Package seed loads the reference brand/model dataset and bulk-inserts it into the catalog.
package seed

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/autocatalog/autocatalog/internal/catalog"
)

//go:embed data/models.json
var defaultDataset []byte

// ErrUnsupportedFormat is returned by LoadFile for extensions other than .json and .xlsx.
var ErrUnsupportedFormat = errors.New("unsupported seed file format")

// Entry is one dataset row. A zero AveragePrice means the model has no price.
type Entry struct {
	Brand        string          `json:"brand"`
	Model        string          `json:"model"`
	AveragePrice decimal.Decimal `json:"average_price"`
}

// Default returns the embedded reference dataset.
func Default() ([]Entry, error) {
	return LoadJSON(bytes.NewReader(defaultDataset))
}

// LoadFile reads a dataset from a .json or .xlsx file.
func LoadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening seed file: %w", err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(f)
	case ".xlsx":
		return LoadXLSX(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// LoadJSON reads a JSON array of entries.
func LoadJSON(r io.Reader) ([]Entry, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decoding seed JSON: %w", err)
	}
	return entries, nil
}

// LoadXLSX reads entries from the active sheet of a workbook. The first row is a header;
// the columns are brand, model and average price. An empty price cell means no price.
func LoadXLSX(r io.Reader) ([]Entry, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening seed workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return []Entry{}, nil
	}

	entries := make([]Entry, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		e := Entry{Brand: cell(row, 0), Model: cell(row, 1)}
		if raw := cell(row, 2); raw != "" {
			price, err := decimal.NewFromString(raw)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid average price %q: %w", i+2, raw, err)
			}
			e.AveragePrice = price
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// PlannedModel is a model ready for insertion, still keyed by brand name.
type PlannedModel struct {
	Brand        string
	Name         string
	AveragePrice *decimal.Decimal
}

// Plan is a cleaned dataset: unique brand names in first-seen order and the models to
// insert under them.
type Plan struct {
	Brands  []string
	Models  []PlannedModel
	Skipped int
}

// Prepare normalizes entries and drops the ones the catalog would reject. Names are
// trimmed; a zero price becomes no price; a price at or below the minimum drops the row;
// the first occurrence of a model name wins. A row with a brand but no model name seeds
// the brand only.
func Prepare(entries []Entry) Plan {
	var plan Plan
	seenBrands := make(map[string]bool)
	seenModels := make(map[string]bool)

	for i, e := range entries {
		brandName := catalog.NormalizeName(e.Brand)
		modelName := catalog.NormalizeName(e.Model)

		if brandName == "" || utf8.RuneCountInString(brandName) > catalog.MaxNameLength {
			slog.Warn("skipping seed row: invalid brand name", "row", i, "brand", brandName)
			plan.Skipped++
			continue
		}
		if !seenBrands[brandName] {
			seenBrands[brandName] = true
			plan.Brands = append(plan.Brands, brandName)
		}

		if modelName == "" {
			continue
		}
		if utf8.RuneCountInString(modelName) > catalog.MaxNameLength {
			slog.Warn("skipping seed row: model name too long", "row", i, "model", modelName)
			plan.Skipped++
			continue
		}

		var price *decimal.Decimal
		if !e.AveragePrice.IsZero() {
			if !catalog.ValidPrice(e.AveragePrice) {
				slog.Warn("skipping seed row: average price out of range",
					"row", i, "model", modelName, "averagePrice", e.AveragePrice.String())
				plan.Skipped++
				continue
			}
			p := e.AveragePrice
			price = &p
		}

		if seenModels[modelName] {
			slog.Warn("skipping seed row: duplicate model name", "row", i, "model", modelName)
			plan.Skipped++
			continue
		}
		seenModels[modelName] = true

		plan.Models = append(plan.Models, PlannedModel{Brand: brandName, Name: modelName, AveragePrice: price})
	}

	return plan
}
