package inventory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

// memLedger libro en memoria: implementa los dos repositorios y TxRunner.
// Run toma una copia del estado y la restaura si fn devuelve error.
type memLedger struct {
	mu        sync.Mutex
	movements []*entity.InventoryMovement
	balances  map[string]*entity.StockBalance
	clock     time.Time
	variants  map[string]bool
}

func newMemLedger(variants ...string) *memLedger {
	l := &memLedger{
		balances: map[string]*entity.StockBalance{},
		clock:    time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		variants: map[string]bool{},
	}
	for _, v := range variants {
		l.variants[v] = true
	}
	return l
}

var (
	_ repository.InventoryMovementRepository = (*memLedger)(nil)
	_ repository.StockBalanceRepository      = (*memBalances)(nil)
	_ TxRunner                               = (*memLedger)(nil)
	_ VariantChecker                         = (*memLedger)(nil)
)

func (l *memLedger) VariantExists(_ context.Context, id string) (bool, error) {
	return l.variants[id], nil
}

func (l *memLedger) Run(_ context.Context, fn func(repository.InventoryMovementRepository, repository.StockBalanceRepository) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	movs := make([]*entity.InventoryMovement, len(l.movements))
	for i, m := range l.movements {
		cp := *m
		movs[i] = &cp
	}
	bals := map[string]*entity.StockBalance{}
	for k, b := range l.balances {
		cp := *b
		bals[k] = &cp
	}
	if err := fn(l, (*memBalances)(l)); err != nil {
		l.movements, l.balances = movs, bals
		return err
	}
	return nil
}

func (l *memLedger) Create(_ context.Context, m *entity.InventoryMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	l.clock = l.clock.Add(time.Second)
	m.CreatedAt, m.UpdatedAt = l.clock, l.clock
	cp := *m
	l.movements = append(l.movements, &cp)
	return nil
}

func (l *memLedger) find(id string) *entity.InventoryMovement {
	for _, m := range l.movements {
		if m.ID == id {
			cp := *m
			return &cp
		}
	}
	return nil
}

func (l *memLedger) GetByID(_ context.Context, id string) (*entity.InventoryMovement, error) {
	return l.find(id), nil
}

func (l *memLedger) GetForUpdate(_ context.Context, id string) (*entity.InventoryMovement, error) {
	return l.find(id), nil
}

func (l *memLedger) ListByVariant(_ context.Context, variantID string, includeVoided bool) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range l.movements {
		if m.VariantID != variantID || (m.Voided && !includeVoided) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (l *memLedger) List(_ context.Context, limit, offset int, includeVoided bool) ([]*entity.InventoryMovement, int64, error) {
	var all []*entity.InventoryMovement
	for _, m := range l.movements {
		if m.Voided && !includeVoided {
			continue
		}
		cp := *m
		all = append(all, &cp)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	total := int64(len(all))
	if offset >= len(all) {
		return []*entity.InventoryMovement{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (l *memLedger) ListLiveCorrections(_ context.Context, originalID string) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range l.movements {
		if m.Voided || m.CorrectsID == nil || *m.CorrectsID != originalID {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (l *memLedger) MarkVoided(_ context.Context, id, voidedBy, reason string, at time.Time) error {
	for _, m := range l.movements {
		if m.ID == id {
			m.Voided, m.VoidedBy, m.VoidReason, m.VoidedAt = true, voidedBy, reason, &at
		}
	}
	return nil
}

func (l *memLedger) CountByVariant(_ context.Context, variantID string) (int64, error) {
	var n int64
	for _, m := range l.movements {
		if m.VariantID == variantID {
			n++
		}
	}
	return n, nil
}

// memBalances expone los saldos de memLedger como StockBalanceRepository.
type memBalances memLedger

func (b *memBalances) Get(_ context.Context, variantID string) (*entity.StockBalance, error) {
	if s, ok := b.balances[variantID]; ok {
		cp := *s
		return &cp, nil
	}
	return &entity.StockBalance{VariantID: variantID}, nil
}

func (b *memBalances) GetForUpdate(ctx context.Context, variantID string) (*entity.StockBalance, error) {
	return b.Get(ctx, variantID)
}

func (b *memBalances) Upsert(_ context.Context, s *entity.StockBalance) error {
	cp := *s
	b.balances[s.VariantID] = &cp
	return nil
}
