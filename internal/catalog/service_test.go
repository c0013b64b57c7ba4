package catalog

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fadeatelier/fade-backend/pkg/db/models"
	"github.com/fadeatelier/fade-backend/pkg/enums"
	pkgerrors "github.com/fadeatelier/fade-backend/pkg/errors"
	"github.com/fadeatelier/fade-backend/pkg/pagination"
)

type fakeRepository struct {
	products map[uuid.UUID]*models.Product
	now      time.Time
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		products: map[uuid.UUID]*models.Product{},
		now:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, product *models.Product) error {
	for _, existing := range f.products {
		if existing.SKU == product.SKU {
			return gorm.ErrDuplicatedKey
		}
	}
	product.ID = uuid.New()
	f.now = f.now.Add(time.Minute)
	product.CreatedAt = f.now
	product.UpdatedAt = f.now
	f.products[product.ID] = product
	return nil
}

func (f *fakeRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	product, ok := f.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["name"].(string); ok {
		product.Name = v
	}
	if v, ok := updates["price_minor"].(int); ok {
		product.PriceMinor = v
	}
	if v, ok := updates["stock_quantity"].(int); ok {
		product.StockQuantity = v
	}
	if v, ok := updates["is_active"].(bool); ok {
		product.IsActive = v
	}
	if v, ok := updates["is_featured"].(bool); ok {
		product.IsFeatured = v
	}
	return nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *product
	return &copied, nil
}

func (f *fakeRepository) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	for _, product := range f.products {
		if product.SKU == sku {
			copied := *product
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if product, ok := f.products[id]; ok && product.IsActive {
			out = append(out, *product)
		}
	}
	return out, nil
}

func (f *fakeRepository) List(ctx context.Context, params ListParams) ([]models.Product, *pagination.Cursor, error) {
	var matched []models.Product
	for _, product := range f.products {
		if params.ActiveOnly && !product.IsActive {
			continue
		}
		if params.FeaturedOnly && !product.IsFeatured {
			continue
		}
		if params.Brand != "" && product.Brand != params.Brand {
			continue
		}
		if params.Concentration != nil && product.Concentration != *params.Concentration {
			continue
		}
		if params.Cursor != nil && !product.CreatedAt.Before(params.Cursor.CreatedAt) {
			continue
		}
		matched = append(matched, *product)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	limit := pagination.NormalizeLimit(params.Limit)
	if len(matched) > limit {
		next := matched[limit]
		return matched[:limit], &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return matched, nil, nil
}

func (f *fakeRepository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	product, ok := f.products[id]
	if !ok || product.StockQuantity < qty {
		return false, nil
	}
	product.StockQuantity -= qty
	return true, nil
}

func newTestService(t *testing.T) (Service, *fakeRepository) {
	t.Helper()
	repo := newFakeRepository()
	svc, err := NewService(ServiceParams{Repo: repo})
	require.NoError(t, err)
	return svc, repo
}

func seedProduct(t *testing.T, repo *fakeRepository, sku string, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		SKU:           sku,
		Name:          "Oud Royale",
		Brand:         "Fade Atelier",
		Concentration: enums.ConcentrationEauDeParfum,
		VolumeML:      50,
		PriceMinor:    85_000_00,
		Currency:      enums.CurrencyNGN,
		StockQuantity: 10,
		IsActive:      active,
	}
	require.NoError(t, repo.Create(context.Background(), product))
	product.IsActive = active
	return product
}

func TestCreateProduct(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.Create(context.Background(), CreateProductDTO{
		SKU:           "  fa-oud-50  ",
		Name:          "Oud Royale",
		Brand:         "Fade Atelier",
		Concentration: enums.ConcentrationParfum,
		ScentNotes:    []string{"oud", "amber"},
		VolumeML:      50,
		PriceMinor:    120_000_00,
		StockQuantity: 25,
	})
	require.NoError(t, err)
	assert.Equal(t, "FA-OUD-50", created.SKU)
	assert.Equal(t, enums.CurrencyNGN, created.Currency)
	assert.True(t, created.IsActive)
	assert.Equal(t, []string{"oud", "amber"}, created.ScentNotes)
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	svc, repo := newTestService(t)
	seedProduct(t, repo, "FA-OUD-50", false)

	// a retired product still owns its sku
	_, err := svc.Create(context.Background(), CreateProductDTO{
		SKU:           "fa-oud-50",
		Name:          "Oud Royale Reissue",
		Brand:         "Fade Atelier",
		Concentration: enums.ConcentrationParfum,
		VolumeML:      50,
		PriceMinor:    180_000,
		StockQuantity: 5,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newTestService(t)

	cases := []struct {
		name  string
		input CreateProductDTO
	}{
		{"missing sku", CreateProductDTO{Name: "x", Brand: "y", Concentration: enums.ConcentrationParfum, VolumeML: 50, PriceMinor: 100}},
		{"bad concentration", CreateProductDTO{SKU: "A", Name: "x", Brand: "y", Concentration: "syrup", VolumeML: 50, PriceMinor: 100}},
		{"zero volume", CreateProductDTO{SKU: "A", Name: "x", Brand: "y", Concentration: enums.ConcentrationParfum, VolumeML: 0, PriceMinor: 100}},
		{"negative price", CreateProductDTO{SKU: "A", Name: "x", Brand: "y", Concentration: enums.ConcentrationParfum, VolumeML: 50, PriceMinor: -1}},
		{"negative stock", CreateProductDTO{SKU: "A", Name: "x", Brand: "y", Concentration: enums.ConcentrationParfum, VolumeML: 50, PriceMinor: 100, StockQuantity: -3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.input)
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
		})
	}
}

func TestGetHidesInactiveFromStorefront(t *testing.T) {
	svc, repo := newTestService(t)
	hidden := seedProduct(t, repo, "FA-HIDDEN", false)

	_, err := svc.Get(context.Background(), hidden.ID, false)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	dto, err := svc.Get(context.Background(), hidden.ID, true)
	require.NoError(t, err)
	assert.False(t, dto.IsActive)
}

func TestListFiltersAndPaginates(t *testing.T) {
	svc, repo := newTestService(t)
	seedProduct(t, repo, "FA-1", true)
	seedProduct(t, repo, "FA-2", true)
	seedProduct(t, repo, "FA-3", false)

	page, err := svc.List(context.Background(), ListFilter{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)
	assert.Empty(t, page.NextCursor)

	page, err = svc.List(context.Background(), ListFilter{Limit: 10, IncludeHidden: true})
	require.NoError(t, err)
	assert.Len(t, page.Products, 3)

	page, err = svc.List(context.Background(), ListFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	require.NotEmpty(t, page.NextCursor)

	second, err := svc.List(context.Background(), ListFilter{Limit: 1, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Products, 1)
	assert.NotEqual(t, page.Products[0].ID, second.Products[0].ID)
}

func TestListRejectsBadInput(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.List(context.Background(), ListFilter{Cursor: "!!not-base64!!"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.List(context.Background(), ListFilter{Concentration: "syrup"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestUpdateProduct(t *testing.T) {
	svc, repo := newTestService(t)
	product := seedProduct(t, repo, "FA-UPD", true)

	name := "Oud Imperial"
	price := 95_000_00
	updated, err := svc.Update(context.Background(), product.ID, UpdateProductDTO{Name: &name, PriceMinor: &price})
	require.NoError(t, err)
	assert.Equal(t, "Oud Imperial", updated.Name)
	assert.Equal(t, 95_000_00, updated.PriceMinor)

	_, err = svc.Update(context.Background(), product.ID, UpdateProductDTO{})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Update(context.Background(), uuid.New(), UpdateProductDTO{Name: &name})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestDeactivateProduct(t *testing.T) {
	svc, repo := newTestService(t)
	product := seedProduct(t, repo, "FA-DEACT", true)

	require.NoError(t, svc.Deactivate(context.Background(), product.ID))
	assert.False(t, repo.products[product.ID].IsActive)

	err := svc.Deactivate(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
