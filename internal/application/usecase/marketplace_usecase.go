package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

// MarketPlaceUseCase CRUD de marketplaces.
type MarketPlaceUseCase struct {
	repo repository.MarketPlaceRepository
}

// NewMarketPlaceUseCase construye el caso de uso.
func NewMarketPlaceUseCase(repo repository.MarketPlaceRepository) *MarketPlaceUseCase {
	return &MarketPlaceUseCase{repo: repo}
}

// Create crea un marketplace con nombre único.
func (uc *MarketPlaceUseCase) Create(ctx context.Context, in dto.MarketPlaceRequest) (*dto.MarketPlaceResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "es obligatorio")
	}
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: marketplace %q", domain.ErrDuplicate, name)
	}
	now := time.Now()
	m := &entity.MarketPlace{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return toMarketPlaceResponse(m), nil
}

// GetByID obtiene un marketplace.
func (uc *MarketPlaceUseCase) GetByID(ctx context.Context, id string) (*dto.MarketPlaceResponse, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return toMarketPlaceResponse(m), nil
}

// Update reemplaza nombre y descripción.
func (uc *MarketPlaceUseCase) Update(ctx context.Context, id string, in dto.MarketPlaceRequest) (*dto.MarketPlaceResponse, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "es obligatorio")
	}
	if name != m.Name {
		other, err := uc.repo.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, fmt.Errorf("%w: marketplace %q", domain.ErrDuplicate, name)
		}
	}
	m.Name = name
	m.Description = in.Description
	m.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return toMarketPlaceResponse(m), nil
}

// List lista marketplaces.
func (uc *MarketPlaceUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.MarketPlaceListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MarketPlaceResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMarketPlaceResponse(m))
	}
	return &dto.MarketPlaceListResponse{Items: items, Page: dto.NewPage(page, total)}, nil
}

// Delete elimina el marketplace. Si tiene publicaciones la FK lo impide (ErrConflict).
func (uc *MarketPlaceUseCase) Delete(ctx context.Context, id string) error {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}

// ListingUseCase CRUD de publicaciones de variantes en marketplaces.
type ListingUseCase struct {
	repo       repository.ListingRepository
	marketRepo repository.MarketPlaceRepository
	variants   repository.VariantRepository
}

// NewListingUseCase construye el caso de uso.
func NewListingUseCase(repo repository.ListingRepository, marketRepo repository.MarketPlaceRepository, variants repository.VariantRepository) *ListingUseCase {
	return &ListingUseCase{repo: repo, marketRepo: marketRepo, variants: variants}
}

// Create crea una publicación; marketplace y variante deben existir. Estado por defecto: draft.
func (uc *ListingUseCase) Create(ctx context.Context, in dto.ListingRequest) (*dto.ListingResponse, error) {
	status, err := listingStatus(in.Status)
	if err != nil {
		return nil, err
	}
	if err := uc.ensureParents(ctx, in.MarketPlaceID, in.VariantID); err != nil {
		return nil, err
	}
	now := time.Now()
	l := &entity.Listing{
		ID:                uuid.New().String(),
		MarketPlaceID:     in.MarketPlaceID,
		VariantID:         in.VariantID,
		MarketplaceItemID: strings.TrimSpace(in.MarketplaceItemID),
		Status:            status,
		LastSyncedAt:      in.LastSyncedAt,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return toListingResponse(l), nil
}

// GetByID obtiene una publicación.
func (uc *ListingUseCase) GetByID(ctx context.Context, id string) (*dto.ListingResponse, error) {
	l, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.ErrNotFound
	}
	return toListingResponse(l), nil
}

// Update reemplaza la publicación.
func (uc *ListingUseCase) Update(ctx context.Context, id string, in dto.ListingRequest) (*dto.ListingResponse, error) {
	l, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.ErrNotFound
	}
	status, err := listingStatus(in.Status)
	if err != nil {
		return nil, err
	}
	if in.MarketPlaceID != l.MarketPlaceID || in.VariantID != l.VariantID {
		if err := uc.ensureParents(ctx, in.MarketPlaceID, in.VariantID); err != nil {
			return nil, err
		}
	}
	l.MarketPlaceID = in.MarketPlaceID
	l.VariantID = in.VariantID
	l.MarketplaceItemID = strings.TrimSpace(in.MarketplaceItemID)
	l.Status = status
	l.LastSyncedAt = in.LastSyncedAt
	l.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	return toListingResponse(l), nil
}

// List lista publicaciones con filtros opcionales.
func (uc *ListingUseCase) List(ctx context.Context, f repository.ListingFilter, page dto.PageRequest) (*dto.ListingListResponse, error) {
	page.DefaultPage()
	if f.Status != "" {
		if _, err := listingStatus(f.Status); err != nil {
			return nil, err
		}
	}
	list, total, err := uc.repo.List(ctx, f, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ListingResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *toListingResponse(l))
	}
	return &dto.ListingListResponse{Items: items, Page: dto.NewPage(page, total)}, nil
}

// Delete elimina la publicación.
func (uc *ListingUseCase) Delete(ctx context.Context, id string) error {
	l, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if l == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *ListingUseCase) ensureParents(ctx context.Context, marketID, variantID string) error {
	m, err := uc.marketRepo.GetByID(ctx, marketID)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("%w: marketplace %s", domain.ErrNotFound, marketID)
	}
	ok, err := uc.variants.Exists(ctx, variantID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: variante %s", domain.ErrNotFound, variantID)
	}
	return nil
}

func listingStatus(s string) (string, error) {
	switch s {
	case "":
		return entity.ListingStatusDraft, nil
	case entity.ListingStatusDraft, entity.ListingStatusPublished, entity.ListingStatusError:
		return s, nil
	}
	return "", domain.NewValidationError("status", "debe ser draft, published o error")
}

func toMarketPlaceResponse(m *entity.MarketPlace) *dto.MarketPlaceResponse {
	return &dto.MarketPlaceResponse{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toListingResponse(l *entity.Listing) *dto.ListingResponse {
	return &dto.ListingResponse{
		ID:                l.ID,
		MarketPlaceID:     l.MarketPlaceID,
		VariantID:         l.VariantID,
		MarketplaceItemID: l.MarketplaceItemID,
		Status:            l.Status,
		LastSyncedAt:      l.LastSyncedAt,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}
}
