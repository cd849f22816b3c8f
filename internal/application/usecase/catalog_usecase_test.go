package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

func newVariantUC(s *catalogStore) *VariantUseCase {
	return NewVariantUseCase(memVariants{s}, memProducts{s}, memBrands{s}, memCategories{s}, memMovements{s: s})
}

// ── Category ──────────────────────────────────────────────────────────────────

func TestCategoryUseCase_CreateNombreDuplicado(t *testing.T) {
	s := newCatalogStore()
	uc := NewCategoryUseCase(memCategories{s}, memBrands{s})

	_, err := uc.Create(context.Background(), dto.CategoryRequest{Name: "Beauty"})
	require.NoError(t, err)
	_, err = uc.Create(context.Background(), dto.CategoryRequest{Name: "  Beauty "})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCategoryUseCase_DeleteConMarcasEsConflicto(t *testing.T) {
	s := newCatalogStore()
	catID, _, _ := seedHierarchy(s)
	uc := NewCategoryUseCase(memCategories{s}, memBrands{s})

	err := uc.Delete(context.Background(), catID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	err = uc.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCategoryUseCase_ListPaginaPorDefecto(t *testing.T) {
	s := newCatalogStore()
	seedHierarchy(s)
	uc := NewCategoryUseCase(memCategories{s}, memBrands{s})

	res, err := uc.List(context.Background(), dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 20, res.Page.Limit)
	assert.Equal(t, int64(1), res.Page.Total)
	assert.Len(t, res.Items, 1)
}

// ── Brand / Product ───────────────────────────────────────────────────────────

func TestBrandUseCase_CategoriaInexistente(t *testing.T) {
	s := newCatalogStore()
	uc := NewBrandUseCase(memBrands{s}, memCategories{s}, memProducts{s})

	_, err := uc.Create(context.Background(), dto.BrandRequest{CategoryID: uuid.NewString(), Name: "Laneige"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUseCase_NombreUnicoPorMarca(t *testing.T) {
	s := newCatalogStore()
	_, brandID, _ := seedHierarchy(s)
	uc := NewProductUseCase(memProducts{s}, memBrands{s}, memVariants{s})

	_, err := uc.Create(context.Background(), dto.ProductRequest{BrandID: brandID, Name: "Green Tea Seed Serum"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	p, err := uc.Create(context.Background(), dto.ProductRequest{
		BrandID:     brandID,
		Name:        "Jeju Cherry Blossom Jelly Cream",
		LocaleNames: []dto.LocaleNameDTO{{Locale: "ja", Name: "チェリーブロッサム"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "ja", p.LocaleNames[0].Locale)
	assert.NotNil(t, p.Tags)
}

// ── Variant ───────────────────────────────────────────────────────────────────

func TestVariantUseCase_GeneraSKUConSufijoEnColision(t *testing.T) {
	s := newCatalogStore()
	_, _, productID := seedHierarchy(s)
	uc := newVariantUC(s)

	in := dto.CreateVariantRequest{
		ProductID: productID,
		Name:      "50 ml",
		Options:   []dto.VariantOptionDTO{{Name: "Volumen", Value: "50", Unit: "ml"}},
		Price:     decimal.NewFromInt(2500),
	}
	first, err := uc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "BE-INNI-GTSS-50ML", first.SKU)

	second, err := uc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "BE-INNI-GTSS-50ML-2", second.SKU)

	third, err := uc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "BE-INNI-GTSS-50ML-3", third.SKU)
}

func TestVariantUseCase_PrecioNegativoEsInvalido(t *testing.T) {
	s := newCatalogStore()
	_, _, productID := seedHierarchy(s)
	uc := newVariantUC(s)

	_, err := uc.Create(context.Background(), dto.CreateVariantRequest{
		ProductID: productID, Name: "x", Price: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVariantUseCase_ProductoInexistente(t *testing.T) {
	uc := newVariantUC(newCatalogStore())
	_, err := uc.Create(context.Background(), dto.CreateVariantRequest{ProductID: "nope", Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVariantUseCase_DeleteConMovimientosEsConflicto(t *testing.T) {
	s := newCatalogStore()
	_, _, productID := seedHierarchy(s)
	uc := newVariantUC(s)
	v, err := uc.Create(context.Background(), dto.CreateVariantRequest{ProductID: productID, Name: "x"})
	require.NoError(t, err)

	s.movements[v.ID] = 3
	assert.ErrorIs(t, uc.Delete(context.Background(), v.ID), domain.ErrConflict)

	s.movements[v.ID] = 0
	assert.NoError(t, uc.Delete(context.Background(), v.ID))
}

func TestVariantUseCase_VariantExists(t *testing.T) {
	s := newCatalogStore()
	_, _, productID := seedHierarchy(s)
	uc := newVariantUC(s)
	v, err := uc.Create(context.Background(), dto.CreateVariantRequest{ProductID: productID, Name: "x"})
	require.NoError(t, err)

	ok, err := uc.VariantExists(context.Background(), v.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = uc.VariantExists(context.Background(), "no-es-uuid")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVariantUseCase_UpdateNoCambiaSKU(t *testing.T) {
	s := newCatalogStore()
	_, _, productID := seedHierarchy(s)
	uc := newVariantUC(s)
	v, err := uc.Create(context.Background(), dto.CreateVariantRequest{ProductID: productID, Name: "x"})
	require.NoError(t, err)

	name := "Nuevo nombre"
	price := decimal.RequireFromString("19.90")
	up, err := uc.Update(context.Background(), v.ID, dto.UpdateVariantRequest{Name: &name, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, v.SKU, up.SKU)
	assert.Equal(t, "Nuevo nombre", up.Name)
	assert.True(t, price.Equal(up.Price))
}

// ── Marketplace / Listing ─────────────────────────────────────────────────────

func TestListingUseCase_ValidaPadresYEstado(t *testing.T) {
	s := newCatalogStore()
	_, _, productID := seedHierarchy(s)
	v, err := newVariantUC(s).Create(context.Background(), dto.CreateVariantRequest{ProductID: productID, Name: "x"})
	require.NoError(t, err)

	markets := NewMarketPlaceUseCase(memMarkets{s})
	m, err := markets.Create(context.Background(), dto.MarketPlaceRequest{Name: "Qoo10"})
	require.NoError(t, err)

	uc := NewListingUseCase(memListings{s}, memMarkets{s}, memVariants{s})

	l, err := uc.Create(context.Background(), dto.ListingRequest{MarketPlaceID: m.ID, VariantID: v.ID})
	require.NoError(t, err)
	assert.Equal(t, entity.ListingStatusDraft, l.Status)

	_, err = uc.Create(context.Background(), dto.ListingRequest{MarketPlaceID: m.ID, VariantID: v.ID, Status: "archived"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(context.Background(), dto.ListingRequest{MarketPlaceID: "otro", VariantID: v.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
