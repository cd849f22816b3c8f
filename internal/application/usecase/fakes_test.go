package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

// catalogStore repositorios de catálogo en memoria para tests.
type catalogStore struct {
	categories map[string]*entity.Category
	brands     map[string]*entity.Brand
	products   map[string]*entity.Product
	variants   map[string]*entity.Variant
	markets    map[string]*entity.MarketPlace
	listings   map[string]*entity.Listing
	movements  map[string]int64 // variant_id → cantidad de movimientos
}

func newCatalogStore() *catalogStore {
	return &catalogStore{
		categories: map[string]*entity.Category{},
		brands:     map[string]*entity.Brand{},
		products:   map[string]*entity.Product{},
		variants:   map[string]*entity.Variant{},
		markets:    map[string]*entity.MarketPlace{},
		listings:   map[string]*entity.Listing{},
		movements:  map[string]int64{},
	}
}

func page[T any](items []T, limit, offset int) ([]T, int64) {
	total := int64(len(items))
	if offset >= len(items) {
		return []T{}, total
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end], total
}

// ── Categorías ────────────────────────────────────────────────────────────────

type memCategories struct{ s *catalogStore }

var _ repository.CategoryRepository = memCategories{}

func (r memCategories) Create(_ context.Context, c *entity.Category) error {
	for _, other := range r.s.categories {
		if other.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.s.categories[c.ID] = &cp
	return nil
}

func (r memCategories) GetByID(_ context.Context, id string) (*entity.Category, error) {
	if c, ok := r.s.categories[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r memCategories) GetByName(_ context.Context, name string) (*entity.Category, error) {
	for _, c := range r.s.categories {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memCategories) Update(_ context.Context, c *entity.Category) error {
	cp := *c
	r.s.categories[c.ID] = &cp
	return nil
}

func (r memCategories) List(_ context.Context, limit, offset int) ([]*entity.Category, int64, error) {
	var all []*entity.Category
	for _, c := range r.s.categories {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	out, total := page(all, limit, offset)
	return out, total, nil
}

func (r memCategories) Delete(_ context.Context, id string) error {
	delete(r.s.categories, id)
	return nil
}

// ── Marcas ────────────────────────────────────────────────────────────────────

type memBrands struct{ s *catalogStore }

var _ repository.BrandRepository = memBrands{}

func (r memBrands) Create(_ context.Context, b *entity.Brand) error {
	cp := *b
	r.s.brands[b.ID] = &cp
	return nil
}

func (r memBrands) GetByID(_ context.Context, id string) (*entity.Brand, error) {
	if b, ok := r.s.brands[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (r memBrands) GetByName(_ context.Context, name string) (*entity.Brand, error) {
	for _, b := range r.s.brands {
		if b.Name == name {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memBrands) Update(_ context.Context, b *entity.Brand) error {
	cp := *b
	r.s.brands[b.ID] = &cp
	return nil
}

func (r memBrands) List(_ context.Context, categoryID string, limit, offset int) ([]*entity.Brand, int64, error) {
	var all []*entity.Brand
	for _, b := range r.s.brands {
		if categoryID == "" || b.CategoryID == categoryID {
			all = append(all, b)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	out, total := page(all, limit, offset)
	return out, total, nil
}

func (r memBrands) CountByCategory(_ context.Context, categoryID string) (int64, error) {
	var n int64
	for _, b := range r.s.brands {
		if b.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r memBrands) Delete(_ context.Context, id string) error {
	delete(r.s.brands, id)
	return nil
}

// ── Productos ─────────────────────────────────────────────────────────────────

type memProducts struct{ s *catalogStore }

var _ repository.ProductRepository = memProducts{}

func (r memProducts) Create(_ context.Context, p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	if p, ok := r.s.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r memProducts) GetByBrandAndName(_ context.Context, brandID, name string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.BrandID == brandID && p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memProducts) Update(_ context.Context, p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r memProducts) List(_ context.Context, brandID string, limit, offset int) ([]*entity.Product, int64, error) {
	var all []*entity.Product
	for _, p := range r.s.products {
		if brandID == "" || p.BrandID == brandID {
			all = append(all, p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	out, total := page(all, limit, offset)
	return out, total, nil
}

func (r memProducts) CountByBrand(_ context.Context, brandID string) (int64, error) {
	var n int64
	for _, p := range r.s.products {
		if p.BrandID == brandID {
			n++
		}
	}
	return n, nil
}

func (r memProducts) Delete(_ context.Context, id string) error {
	delete(r.s.products, id)
	return nil
}

// ── Variantes ─────────────────────────────────────────────────────────────────

type memVariants struct{ s *catalogStore }

var _ repository.VariantRepository = memVariants{}

func (r memVariants) Create(_ context.Context, v *entity.Variant) error {
	for _, other := range r.s.variants {
		if other.SKU == v.SKU {
			return domain.ErrDuplicate
		}
	}
	cp := *v
	r.s.variants[v.ID] = &cp
	return nil
}

func (r memVariants) GetByID(_ context.Context, id string) (*entity.Variant, error) {
	if v, ok := r.s.variants[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, nil
}

func (r memVariants) Exists(_ context.Context, id string) (bool, error) {
	_, ok := r.s.variants[id]
	return ok, nil
}

func (r memVariants) SKUExists(_ context.Context, sku string) (bool, error) {
	for _, v := range r.s.variants {
		if v.SKU == sku {
			return true, nil
		}
	}
	return false, nil
}

func (r memVariants) Update(_ context.Context, v *entity.Variant) error {
	cp := *v
	r.s.variants[v.ID] = &cp
	return nil
}

func (r memVariants) List(_ context.Context, productID string, limit, offset int) ([]*entity.Variant, int64, error) {
	var all []*entity.Variant
	for _, v := range r.s.variants {
		if productID == "" || v.ProductID == productID {
			all = append(all, v)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].SKU < all[j].SKU })
	out, total := page(all, limit, offset)
	return out, total, nil
}

func (r memVariants) CountByProduct(_ context.Context, productID string) (int64, error) {
	var n int64
	for _, v := range r.s.variants {
		if v.ProductID == productID {
			n++
		}
	}
	return n, nil
}

func (r memVariants) Delete(_ context.Context, id string) error {
	delete(r.s.variants, id)
	return nil
}

// memMovements solo implementa CountByVariant; el resto no se usa en el catálogo.
type memMovements struct {
	repository.InventoryMovementRepository
	s *catalogStore
}

func (r memMovements) CountByVariant(_ context.Context, variantID string) (int64, error) {
	return r.s.movements[variantID], nil
}

// ── Marketplaces y publicaciones ──────────────────────────────────────────────

type memMarkets struct{ s *catalogStore }

var _ repository.MarketPlaceRepository = memMarkets{}

func (r memMarkets) Create(_ context.Context, m *entity.MarketPlace) error {
	cp := *m
	r.s.markets[m.ID] = &cp
	return nil
}

func (r memMarkets) GetByID(_ context.Context, id string) (*entity.MarketPlace, error) {
	if m, ok := r.s.markets[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (r memMarkets) GetByName(_ context.Context, name string) (*entity.MarketPlace, error) {
	for _, m := range r.s.markets {
		if m.Name == name {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memMarkets) Update(_ context.Context, m *entity.MarketPlace) error {
	cp := *m
	r.s.markets[m.ID] = &cp
	return nil
}

func (r memMarkets) List(_ context.Context, limit, offset int) ([]*entity.MarketPlace, int64, error) {
	var all []*entity.MarketPlace
	for _, m := range r.s.markets {
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	out, total := page(all, limit, offset)
	return out, total, nil
}

func (r memMarkets) Delete(_ context.Context, id string) error {
	delete(r.s.markets, id)
	return nil
}

type memListings struct{ s *catalogStore }

var _ repository.ListingRepository = memListings{}

func (r memListings) Create(_ context.Context, l *entity.Listing) error {
	cp := *l
	r.s.listings[l.ID] = &cp
	return nil
}

func (r memListings) GetByID(_ context.Context, id string) (*entity.Listing, error) {
	if l, ok := r.s.listings[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, nil
}

func (r memListings) Update(_ context.Context, l *entity.Listing) error {
	cp := *l
	r.s.listings[l.ID] = &cp
	return nil
}

func (r memListings) List(_ context.Context, f repository.ListingFilter, limit, offset int) ([]*entity.Listing, int64, error) {
	var all []*entity.Listing
	for _, l := range r.s.listings {
		if (f.MarketPlaceID == "" || l.MarketPlaceID == f.MarketPlaceID) &&
			(f.VariantID == "" || l.VariantID == f.VariantID) &&
			(f.Status == "" || l.Status == f.Status) {
			all = append(all, l)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	out, total := page(all, limit, offset)
	return out, total, nil
}

func (r memListings) Delete(_ context.Context, id string) error {
	delete(r.s.listings, id)
	return nil
}

// seedHierarchy crea Category "Beauty" → Brand "Innisfree" → Product "Green Tea Seed Serum".
func seedHierarchy(s *catalogStore) (categoryID, brandID, productID string) {
	now := time.Now()
	s.categories["c1"] = &entity.Category{ID: "c1", Name: "Beauty", CreatedAt: now, UpdatedAt: now}
	s.brands["b1"] = &entity.Brand{ID: "b1", CategoryID: "c1", Name: "Innisfree", CreatedAt: now, UpdatedAt: now}
	s.products["p1"] = &entity.Product{ID: "p1", BrandID: "b1", Name: "Green Tea Seed Serum", CreatedAt: now, UpdatedAt: now}
	return "c1", "b1", "p1"
}
