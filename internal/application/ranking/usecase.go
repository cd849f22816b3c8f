package ranking

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	domainranking "github.com/jhoicas/Catalogo-api/internal/domain/ranking"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

// UseCase casos de uso de snapshots de ranking.
type UseCase struct {
	repo          repository.RankingRepository
	scraper       Scraper
	renderer      ReportRenderer
	retentionDays int
	now           func() time.Time
}

// NewUseCase construye el caso de uso. retentionDays <= 0 usa 7 días.
func NewUseCase(repo repository.RankingRepository, scraper Scraper, renderer ReportRenderer, retentionDays int) *UseCase {
	return &UseCase{
		repo:          repo,
		scraper:       scraper,
		renderer:      renderer,
		retentionDays: retentionDays,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// List lista snapshots (sin posiciones) con filtro de categoría y orden.
func (uc *UseCase) List(ctx context.Context, in dto.SnapshotListRequest) (*dto.SnapshotListResponse, error) {
	page := in.PageRequest
	page.DefaultPage()
	if in.Category != "" && !domainranking.ValidCategory(in.Category) {
		return nil, domain.NewValidationError("category", "categoría de ranking no soportada")
	}
	f := repository.SnapshotFilter{Category: in.Category, SortBy: in.Sort, Desc: in.Order != "asc"}
	if f.SortBy == "" {
		f.SortBy = "created_at"
	}
	list, total, err := uc.repo.List(ctx, f, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SnapshotResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSnapshotResponse(s))
	}
	return &dto.SnapshotListResponse{Items: items, Page: dto.NewPage(page, total)}, nil
}

// Get devuelve el snapshot con sus posiciones.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.SnapshotResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toSnapshotResponse(s), nil
}

// Today devuelve el último snapshot del día (UTC) de la categoría; si no hay, hace scraping.
func (uc *UseCase) Today(ctx context.Context, category string) (*dto.SnapshotResponse, error) {
	if !domainranking.ValidCategory(category) {
		return nil, domain.NewValidationError("category", "categoría de ranking no soportada")
	}
	latest, err := uc.repo.LatestSince(ctx, category, domainranking.StartOfDay(uc.now()))
	if err != nil {
		return nil, err
	}
	if latest != nil {
		return toSnapshotResponse(latest), nil
	}
	return uc.Refresh(ctx, category)
}

// Refresh hace scraping de la categoría, guarda el snapshot (solo artículos con envío internacional)
// y elimina los snapshots de la categoría fuera de la ventana de retención.
func (uc *UseCase) Refresh(ctx context.Context, category string) (*dto.SnapshotResponse, error) {
	if !domainranking.ValidCategory(category) {
		return nil, domain.NewValidationError("category", "categoría de ranking no soportada")
	}
	scraped, err := uc.scraper.Scrape(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("scrape %s: %w", category, err)
	}
	now := uc.now()
	snapshot := &entity.RankingSnapshot{
		Category: category,
		TakenAt:  now,
		Items:    make([]entity.ItemSnapshot, 0, len(scraped)),
	}
	for _, it := range scraped {
		if !domainranking.IsOverseasShipping(it.Item.ShipInfo) {
			continue
		}
		it.DiscountRate = domainranking.DiscountRate(it.OriginalPrice, it.SalePrice)
		it.MegaDiscountRate = domainranking.DiscountRate(it.OriginalPrice, it.MegaPrice)
		snapshot.Items = append(snapshot.Items, it)
	}
	snapshot.ItemCount = len(snapshot.Items)
	if err := uc.repo.SaveSnapshot(ctx, snapshot); err != nil {
		return nil, err
	}
	if _, err := uc.repo.DeleteOlderThan(ctx, category, domainranking.RetentionCutoff(now, uc.retentionDays)); err != nil {
		return nil, fmt.Errorf("prune %s: %w", category, err)
	}
	return toSnapshotResponse(snapshot), nil
}

// Delete elimina un snapshot.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}

// Report genera el PDF del snapshot y el nombre de archivo sugerido.
func (uc *UseCase) Report(ctx context.Context, id string) ([]byte, string, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if s == nil {
		return nil, "", domain.ErrNotFound
	}
	doc, err := uc.renderer.RenderSnapshot(ctx, s)
	if err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("ranking_%s_%s.pdf", s.Category, s.TakenAt.Format("20060102_1504"))
	return doc, name, nil
}

func toSnapshotResponse(s *entity.RankingSnapshot) *dto.SnapshotResponse {
	out := &dto.SnapshotResponse{
		ID:        s.ID,
		Category:  s.Category,
		TakenAt:   s.TakenAt,
		ItemCount: s.ItemCount,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if len(s.Items) > 0 {
		out.Items = make([]dto.RankingItemDTO, 0, len(s.Items))
		for _, it := range s.Items {
			out.Items = append(out.Items, dto.RankingItemDTO{
				ItemID:           it.Item.ItemID,
				Rank:             it.Rank,
				Name:             it.Item.Name,
				Link:             it.Item.Link,
				BrandName:        it.Item.BrandName,
				BrandLink:        it.Item.BrandLink,
				Thumbnail:        it.Item.Thumbnail,
				ShipInfo:         it.Item.ShipInfo,
				IsOfficial:       it.Item.IsOfficial,
				Sold:             it.Sold,
				OriginalPrice:    it.OriginalPrice,
				SalePrice:        it.SalePrice,
				DiscountRate:     it.DiscountRate,
				MegaPrice:        it.MegaPrice,
				MegaDiscountRate: it.MegaDiscountRate,
				ReviewCount:      it.ReviewCount,
			})
		}
	}
	return out
}
