package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/catalog"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

// maxSKUAttempts límite de sufijos probados antes de rendirse con ErrConflict.
const maxSKUAttempts = 100

// ProductUseCase casos de uso CRUD para productos. El stock vive en las variantes (libro de inventario).
type ProductUseCase struct {
	repo        repository.ProductRepository
	brandRepo   repository.BrandRepository
	variantRepo repository.VariantRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, brandRepo repository.BrandRepository, variantRepo repository.VariantRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, brandRepo: brandRepo, variantRepo: variantRepo}
}

// Create crea un producto en una marca existente. El nombre es único dentro de la marca.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.ProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "es obligatorio")
	}
	if err := uc.ensureBrand(ctx, in.BrandID); err != nil {
		return nil, err
	}
	if err := uc.ensureUniqueName(ctx, in.BrandID, name); err != nil {
		return nil, err
	}
	now := time.Now()
	p := &entity.Product{
		ID:          uuid.New().String(),
		BrandID:     in.BrandID,
		Name:        name,
		LocaleNames: toLocaleNames(in.LocaleNames),
		Description: in.Description,
		MediaURLs:   in.MediaURLs,
		Tags:        in.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// GetByID obtiene un producto.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(p), nil
}

// Update reemplaza los datos del producto.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.ProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "es obligatorio")
	}
	if in.BrandID != p.BrandID {
		if err := uc.ensureBrand(ctx, in.BrandID); err != nil {
			return nil, err
		}
	}
	if in.BrandID != p.BrandID || name != p.Name {
		if err := uc.ensureUniqueName(ctx, in.BrandID, name); err != nil {
			return nil, err
		}
	}
	p.BrandID = in.BrandID
	p.Name = name
	p.LocaleNames = toLocaleNames(in.LocaleNames)
	p.Description = in.Description
	p.MediaURLs = in.MediaURLs
	p.Tags = in.Tags
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// List lista productos, opcionalmente filtrados por marca.
func (uc *ProductUseCase) List(ctx context.Context, brandID string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repo.List(ctx, brandID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Page: dto.NewPage(page, total)}, nil
}

// Delete elimina el producto si no tiene variantes.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	n, err := uc.variantRepo.CountByProduct(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: el producto tiene %d variantes", domain.ErrConflict, n)
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *ProductUseCase) ensureBrand(ctx context.Context, brandID string) error {
	b, err := uc.brandRepo.GetByID(ctx, brandID)
	if err != nil {
		return err
	}
	if b == nil {
		return fmt.Errorf("%w: marca %s", domain.ErrNotFound, brandID)
	}
	return nil
}

func (uc *ProductUseCase) ensureUniqueName(ctx context.Context, brandID, name string) error {
	existing, err := uc.repo.GetByBrandAndName(ctx, brandID, name)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: producto %q en la marca", domain.ErrDuplicate, name)
	}
	return nil
}

// VariantUseCase casos de uso para variantes; genera el SKU a partir de la jerarquía.
// También es el VariantChecker que consume el libro de inventario.
type VariantUseCase struct {
	repo         repository.VariantRepository
	productRepo  repository.ProductRepository
	brandRepo    repository.BrandRepository
	categoryRepo repository.CategoryRepository
	movRepo      repository.InventoryMovementRepository
}

// NewVariantUseCase construye el caso de uso.
func NewVariantUseCase(
	repo repository.VariantRepository,
	productRepo repository.ProductRepository,
	brandRepo repository.BrandRepository,
	categoryRepo repository.CategoryRepository,
	movRepo repository.InventoryMovementRepository,
) *VariantUseCase {
	return &VariantUseCase{
		repo:         repo,
		productRepo:  productRepo,
		brandRepo:    brandRepo,
		categoryRepo: categoryRepo,
		movRepo:      movRepo,
	}
}

// VariantExists indica si la variante existe.
func (uc *VariantUseCase) VariantExists(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	return uc.repo.Exists(ctx, id)
}

// Create crea una variante de un producto existente con SKU CAT-BRAN-PROD-OPT...;
// si el SKU ya existe se prueba con sufijo -2, -3, ...
func (uc *VariantUseCase) Create(ctx context.Context, in dto.CreateVariantRequest) (*dto.VariantResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "es obligatorio")
	}
	if in.Price.IsNegative() {
		return nil, domain.NewValidationError("price", "no puede ser negativo")
	}
	product, brand, category, err := uc.hierarchy(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	options := toVariantOptions(in.Options)
	base := catalog.GenerateSKU(category.Name, brand.Name, product.Name, options)
	now := time.Now()
	v := &entity.Variant{
		ID:        uuid.New().String(),
		ProductID: product.ID,
		Name:      name,
		Barcode:   in.Barcode,
		Options:   options,
		MediaURLs: in.MediaURLs,
		Price:     in.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for n := 1; n <= maxSKUAttempts; n++ {
		sku := catalog.WithSuffix(base, n)
		taken, err := uc.repo.SKUExists(ctx, sku)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}
		v.SKU = sku
		err = uc.repo.Create(ctx, v)
		if err == nil {
			return toVariantResponse(v), nil
		}
		// Otra petición tomó el mismo SKU entre la comprobación y el insert.
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: no se pudo asignar un SKU libre para %s", domain.ErrConflict, base)
}

// GetByID obtiene una variante.
func (uc *VariantUseCase) GetByID(ctx context.Context, id string) (*dto.VariantResponse, error) {
	v, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	return toVariantResponse(v), nil
}

// Update modifica los campos enviados. El SKU y el producto no cambian.
func (uc *VariantUseCase) Update(ctx context.Context, id string, in dto.UpdateVariantRequest) (*dto.VariantResponse, error) {
	v, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "no puede quedar vacío")
		}
		v.Name = name
	}
	if in.Barcode != nil {
		v.Barcode = *in.Barcode
	}
	if in.Options != nil {
		v.Options = toVariantOptions(in.Options)
	}
	if in.MediaURLs != nil {
		v.MediaURLs = in.MediaURLs
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.NewValidationError("price", "no puede ser negativo")
		}
		v.Price = *in.Price
	}
	v.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	return toVariantResponse(v), nil
}

// List lista variantes, opcionalmente filtradas por producto.
func (uc *VariantUseCase) List(ctx context.Context, productID string, page dto.PageRequest) (*dto.VariantListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repo.List(ctx, productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VariantResponse, 0, len(list))
	for _, v := range list {
		items = append(items, *toVariantResponse(v))
	}
	return &dto.VariantListResponse{Items: items, Page: dto.NewPage(page, total)}, nil
}

// Delete elimina la variante si no tiene movimientos en el libro.
func (uc *VariantUseCase) Delete(ctx context.Context, id string) error {
	v, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if v == nil {
		return domain.ErrNotFound
	}
	n, err := uc.movRepo.CountByVariant(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: la variante tiene %d movimientos de inventario", domain.ErrConflict, n)
	}
	return uc.repo.Delete(ctx, id)
}

// hierarchy carga producto, marca y categoría de una variante nueva.
func (uc *VariantUseCase) hierarchy(ctx context.Context, productID string) (*entity.Product, *entity.Brand, *entity.Category, error) {
	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, nil, nil, err
	}
	if p == nil {
		return nil, nil, nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	b, err := uc.brandRepo.GetByID(ctx, p.BrandID)
	if err != nil {
		return nil, nil, nil, err
	}
	if b == nil {
		return nil, nil, nil, fmt.Errorf("%w: marca %s", domain.ErrNotFound, p.BrandID)
	}
	c, err := uc.categoryRepo.GetByID(ctx, b.CategoryID)
	if err != nil {
		return nil, nil, nil, err
	}
	if c == nil {
		return nil, nil, nil, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, b.CategoryID)
	}
	return p, b, c, nil
}

func toLocaleNames(in []dto.LocaleNameDTO) []entity.LocaleName {
	out := make([]entity.LocaleName, 0, len(in))
	for _, l := range in {
		out = append(out, entity.LocaleName{Locale: l.Locale, Name: l.Name})
	}
	return out
}

func toVariantOptions(in []dto.VariantOptionDTO) []entity.VariantOption {
	out := make([]entity.VariantOption, 0, len(in))
	for _, o := range in {
		out = append(out, entity.VariantOption{Name: o.Name, Value: o.Value, Unit: o.Unit})
	}
	return out
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	locales := make([]dto.LocaleNameDTO, 0, len(p.LocaleNames))
	for _, l := range p.LocaleNames {
		locales = append(locales, dto.LocaleNameDTO{Locale: l.Locale, Name: l.Name})
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		BrandID:     p.BrandID,
		Name:        p.Name,
		LocaleNames: locales,
		Description: p.Description,
		MediaURLs:   nonNilStrings(p.MediaURLs),
		Tags:        nonNilStrings(p.Tags),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toVariantResponse(v *entity.Variant) *dto.VariantResponse {
	opts := make([]dto.VariantOptionDTO, 0, len(v.Options))
	for _, o := range v.Options {
		opts = append(opts, dto.VariantOptionDTO{Name: o.Name, Value: o.Value, Unit: o.Unit})
	}
	return &dto.VariantResponse{
		ID:        v.ID,
		ProductID: v.ProductID,
		Name:      v.Name,
		SKU:       v.SKU,
		Barcode:   v.Barcode,
		Options:   opts,
		MediaURLs: nonNilStrings(v.MediaURLs),
		Price:     v.Price,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
