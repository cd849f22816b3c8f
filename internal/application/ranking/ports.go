package ranking

import (
	"context"
	"time"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

// Scraper obtiene el ranking actual de una categoría del marketplace.
// Devuelve las posiciones en el orden de la página, sin filtrar ni calcular descuentos.
type Scraper interface {
	Scrape(ctx context.Context, category string) ([]entity.ItemSnapshot, error)
}

// ReportRenderer genera el documento descargable de un snapshot.
type ReportRenderer interface {
	RenderSnapshot(ctx context.Context, snapshot *entity.RankingSnapshot) ([]byte, error)
}

// Lock coordina el refresco programado entre instancias.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// JobMetrics métricas de ejecución del refresco programado.
type JobMetrics interface {
	ObserveDuration(job string, d time.Duration)
	IncSuccess(job string)
	IncFailure(job string)
}
