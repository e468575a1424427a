package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/autocatalog/autocatalog/internal/brand"
	"github.com/autocatalog/autocatalog/internal/catalog"
	"github.com/autocatalog/autocatalog/internal/vehiclemodel"
)

// memStore is an in-memory catalog that enforces the same constraints as the schema:
// unique names, the brand foreign key and the price check.
type memStore struct {
	mu     sync.Mutex
	brands map[uuid.UUID]brand.Brand
	models map[uuid.UUID]vehiclemodel.Model
	err    error
}

func newMemStore() *memStore {
	return &memStore{
		brands: make(map[uuid.UUID]brand.Brand),
		models: make(map[uuid.UUID]vehiclemodel.Model),
	}
}

func (s *memStore) service() *catalog.Service {
	return catalog.NewService(memBrandRepo{s}, memModelRepo{s})
}

func (s *memStore) addBrand(t *testing.T, name string, active bool) brand.Brand {
	t.Helper()
	now := time.Now().UTC()
	b := brand.Brand{ID: uuid.New(), Name: name, IsActive: active, CreatedAt: now, UpdatedAt: now}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brands[b.ID] = b
	return b
}

func (s *memStore) addModel(t *testing.T, brandID uuid.UUID, name string, price *decimal.Decimal) vehiclemodel.Model {
	t.Helper()
	now := time.Now().UTC()
	m := vehiclemodel.Model{ID: uuid.New(), Name: name, AveragePrice: price, BrandID: brandID, IsActive: true, CreatedAt: now, UpdatedAt: now}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.models[m.ID] = m
	return m
}

func (s *memStore) model(id uuid.UUID) vehiclemodel.Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.models[id]
}

var (
	minPrice = decimal.NewFromInt(catalog.MinAveragePrice)
	maxPrice = decimal.RequireFromString(catalog.MaxAveragePrice)
)

// errStoreDown is an unclassified store failure.
var errStoreDown = errors.New("relation \"vehicle.models\" is corrupted")

// --- brand.Repository ---

type memBrandRepo struct{ s *memStore }

func (r memBrandRepo) Create(_ context.Context, b *brand.Brand) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return r.s.err
	}
	for _, existing := range r.s.brands {
		if existing.Name == b.Name {
			return brand.ErrDuplicateBrandName
		}
	}
	now := time.Now().UTC()
	b.ID, b.IsActive, b.CreatedAt, b.UpdatedAt = uuid.New(), true, now, now
	r.s.brands[b.ID] = *b
	return nil
}

func (r memBrandRepo) GetByID(_ context.Context, id uuid.UUID) (*brand.Brand, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return nil, r.s.err
	}
	b, ok := r.s.brands[id]
	if !ok {
		return nil, brand.ErrBrandNotFound
	}
	return &b, nil
}

func (r memBrandRepo) GetByName(_ context.Context, name string) (*brand.Brand, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return nil, r.s.err
	}
	for _, b := range r.s.brands {
		if b.Name == name {
			return &b, nil
		}
	}
	return nil, brand.ErrBrandNotFound
}

func (r memBrandRepo) List(_ context.Context, includeInactive bool) ([]brand.Brand, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return nil, r.s.err
	}
	out := []brand.Brand{}
	for _, b := range r.s.brands {
		if b.IsActive || includeInactive {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memBrandRepo) ListByNames(_ context.Context, names []string) ([]brand.Brand, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	out := []brand.Brand{}
	for _, b := range r.s.brands {
		if want[b.Name] {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r memBrandRepo) Update(_ context.Context, id uuid.UUID, fields brand.UpdateFields) (*brand.Brand, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return nil, r.s.err
	}
	b, ok := r.s.brands[id]
	if !ok {
		return nil, brand.ErrBrandNotFound
	}
	if fields.Name != nil {
		for otherID, other := range r.s.brands {
			if otherID != id && other.Name == *fields.Name {
				return nil, brand.ErrDuplicateBrandName
			}
		}
		b.Name = *fields.Name
	}
	if fields.IsActive != nil {
		b.IsActive = *fields.IsActive
	}
	b.UpdatedAt = time.Now().UTC()
	r.s.brands[id] = b
	return &b, nil
}

func (r memBrandRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return r.s.err
	}
	for _, m := range r.s.models {
		if m.BrandID == id {
			return brand.ErrBrandHasModels
		}
	}
	if _, ok := r.s.brands[id]; !ok {
		return brand.ErrBrandNotFound
	}
	delete(r.s.brands, id)
	return nil
}

func (r memBrandRepo) BulkInsert(ctx context.Context, names []string) (int64, error) {
	var n int64
	for _, name := range names {
		if err := r.Create(ctx, &brand.Brand{Name: name}); err == nil {
			n++
		}
	}
	return n, nil
}

func (r memBrandRepo) AveragePrices(_ context.Context) ([]brand.AveragePrice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return nil, r.s.err
	}
	out := []brand.AveragePrice{}
	for _, b := range r.s.brands {
		if !b.IsActive {
			continue
		}
		sum, count := decimal.Zero, int64(0)
		for _, m := range r.s.models {
			if m.BrandID == b.ID && m.IsActive && m.AveragePrice != nil {
				sum = sum.Add(*m.AveragePrice)
				count++
			}
		}
		if count == 0 {
			continue
		}
		avg := sum.Div(decimal.NewFromInt(count)).Round(0)
		out = append(out, brand.AveragePrice{ID: b.ID, Name: b.Name, AveragePrice: avg})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// --- vehiclemodel.Repository ---

type memModelRepo struct{ s *memStore }

func (r memModelRepo) Create(_ context.Context, m *vehiclemodel.Model) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return r.s.err
	}
	for _, existing := range r.s.models {
		if existing.Name == m.Name {
			return vehiclemodel.ErrDuplicateModelName
		}
	}
	if _, ok := r.s.brands[m.BrandID]; !ok {
		return vehiclemodel.ErrBrandDoesNotExist
	}
	if m.AveragePrice != nil && (!m.AveragePrice.GreaterThan(minPrice) || m.AveragePrice.GreaterThan(maxPrice)) {
		return vehiclemodel.ErrInvalidPrice
	}
	now := time.Now().UTC()
	m.ID, m.IsActive, m.CreatedAt, m.UpdatedAt = uuid.New(), true, now, now
	r.s.models[m.ID] = *m
	return nil
}

func (r memModelRepo) GetByID(_ context.Context, id uuid.UUID) (*vehiclemodel.Model, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return nil, r.s.err
	}
	m, ok := r.s.models[id]
	if !ok {
		return nil, vehiclemodel.ErrModelNotFound
	}
	return &m, nil
}

func (r memModelRepo) GetByName(_ context.Context, name string) (*vehiclemodel.Model, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return nil, r.s.err
	}
	for _, m := range r.s.models {
		if m.Name == name {
			return &m, nil
		}
	}
	return nil, vehiclemodel.ErrModelNotFound
}

func (r memModelRepo) list(keep func(m vehiclemodel.Model) bool) ([]vehiclemodel.Model, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return nil, r.s.err
	}
	out := []vehiclemodel.Model{}
	for _, m := range r.s.models {
		if keep(m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memModelRepo) List(_ context.Context, filter vehiclemodel.ListFilter) ([]vehiclemodel.Model, error) {
	return r.list(func(m vehiclemodel.Model) bool {
		if !m.IsActive && !filter.IncludeInactive {
			return false
		}
		if filter.Greater != nil && (m.AveragePrice == nil || !m.AveragePrice.GreaterThan(*filter.Greater)) {
			return false
		}
		if filter.Lower != nil && (m.AveragePrice == nil || !m.AveragePrice.LessThan(*filter.Lower)) {
			return false
		}
		return true
	})
}

func (r memModelRepo) ListByBrand(_ context.Context, brandID uuid.UUID) ([]vehiclemodel.Model, error) {
	return r.list(func(m vehiclemodel.Model) bool { return m.BrandID == brandID && m.IsActive })
}

func (r memModelRepo) Update(_ context.Context, id uuid.UUID, fields vehiclemodel.UpdateFields) (*vehiclemodel.Model, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return nil, r.s.err
	}
	m, ok := r.s.models[id]
	if !ok {
		return nil, vehiclemodel.ErrModelNotFound
	}
	if fields.Name != nil {
		for otherID, other := range r.s.models {
			if otherID != id && other.Name == *fields.Name {
				return nil, vehiclemodel.ErrDuplicateModelName
			}
		}
		m.Name = *fields.Name
	}
	if fields.AveragePrice != nil {
		if !fields.AveragePrice.GreaterThan(minPrice) || fields.AveragePrice.GreaterThan(maxPrice) {
			return nil, vehiclemodel.ErrInvalidPrice
		}
		p := *fields.AveragePrice
		m.AveragePrice = &p
	}
	if fields.IsActive != nil {
		m.IsActive = *fields.IsActive
	}
	m.UpdatedAt = time.Now().UTC()
	r.s.models[id] = m
	return &m, nil
}

func (r memModelRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return r.s.err
	}
	if _, ok := r.s.models[id]; !ok {
		return vehiclemodel.ErrModelNotFound
	}
	delete(r.s.models, id)
	return nil
}

func (r memModelRepo) BulkInsert(ctx context.Context, models []vehiclemodel.Model) (int64, error) {
	var n int64
	for i := range models {
		m := models[i]
		if err := r.Create(ctx, &m); err == nil {
			n++
		}
	}
	return n, nil
}

// --- HTTP helpers ---

func makeChiRequest(method, path string, body []byte, params map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req, w
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var env map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &env)
	require.NoError(t, err, "failed to parse response body")
	return env
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func errorCode(t *testing.T, env map[string]interface{}) string {
	t.Helper()
	errObj, ok := env["error"].(map[string]interface{})
	require.True(t, ok, "expected an error object, got %v", env["error"])
	return errObj["code"].(string)
}

func dataObject(t *testing.T, env map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := env["data"].(map[string]interface{})
	require.True(t, ok, "expected a data object, got %v", env["data"])
	return data
}

func dataList(t *testing.T, env map[string]interface{}) []interface{} {
	t.Helper()
	data, ok := env["data"].([]interface{})
	require.True(t, ok, "expected a data array, got %v", env["data"])
	return data
}

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}
