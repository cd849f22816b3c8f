package ranking

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Catalogo-api/pkg/logger"
)

const refreshJobName = "ranking_refresh"

// RefresherParams configura el refresco programado.
type RefresherParams struct {
	UseCase     *UseCase
	Logger      *logger.Logger
	Categories  []string
	Interval    time.Duration
	Concurrency int
	Lock        Lock       // opcional: evita refrescos simultáneos entre instancias
	Metrics     JobMetrics // opcional
}

// Refresher refresca periódicamente las categorías configuradas.
type Refresher struct {
	uc          *UseCase
	logg        *logger.Logger
	categories  []string
	interval    time.Duration
	concurrency int
	lock        Lock
	metrics     JobMetrics
}

// NewRefresher construye el refresher. Concurrency <= 0 usa 2.
func NewRefresher(p RefresherParams) (*Refresher, error) {
	if p.UseCase == nil {
		return nil, fmt.Errorf("ranking use case required")
	}
	if p.Logger == nil {
		p.Logger = logger.Nop()
	}
	if p.Concurrency <= 0 {
		p.Concurrency = 2
	}
	return &Refresher{
		uc:          p.UseCase,
		logg:        p.Logger.Named("ranking-refresher"),
		categories:  p.Categories,
		interval:    p.Interval,
		concurrency: p.Concurrency,
		lock:        p.Lock,
		metrics:     p.Metrics,
	}, nil
}

// Run ejecuta un ciclo inmediato y luego uno por intervalo hasta que ctx se cancele.
// Con intervalo 0 no hace nada.
func (r *Refresher) Run(ctx context.Context) error {
	if r.interval <= 0 {
		r.logg.Info().Msg("refresco programado deshabilitado")
		return nil
	}
	r.cycle(ctx)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.logg.Info().Msg("refresher detenido")
			return ctx.Err()
		case <-ticker.C:
			r.cycle(ctx)
		}
	}
}

func (r *Refresher) cycle(ctx context.Context) {
	if r.lock != nil {
		locked, err := r.lock.Acquire(ctx)
		if err != nil {
			r.logg.Error().Err(err).Msg("no se pudo adquirir el lock de refresco")
			return
		}
		if !locked {
			r.logg.Info().Msg("otra instancia está refrescando; se omite el ciclo")
			return
		}
		defer func() {
			if err := r.lock.Release(ctx); err != nil {
				r.logg.Error().Err(err).Msg("no se pudo liberar el lock de refresco")
			}
		}()
	}

	start := time.Now()
	err := r.RefreshAll(ctx)
	if r.metrics != nil {
		r.metrics.ObserveDuration(refreshJobName, time.Since(start))
	}
	if err != nil {
		r.logg.Error().Err(err).Dur("duration", time.Since(start)).Msg("refresco de rankings con errores")
		if r.metrics != nil {
			r.metrics.IncFailure(refreshJobName)
		}
		return
	}
	r.logg.Info().Dur("duration", time.Since(start)).Int("categories", len(r.categories)).Msg("rankings refrescados")
	if r.metrics != nil {
		r.metrics.IncSuccess(refreshJobName)
	}
}

// RefreshAll refresca todas las categorías con concurrencia acotada. Un fallo no detiene a las demás;
// los errores se combinan.
func (r *Refresher) RefreshAll(ctx context.Context) error {
	errs := make([]error, len(r.categories))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, category := range r.categories {
		g.Go(func() error {
			snap, err := r.uc.Refresh(gctx, category)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", category, err)
				return nil
			}
			r.logg.Debug().Str("category", category).Int("items", snap.ItemCount).Msg("categoría refrescada")
			return nil
		})
	}
	_ = g.Wait()
	return multierr.Combine(errs...)
}
