// Package monitoring envía al colector de errores los fallos de servidor y los no clasificados.
package monitoring

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/Catalogo-api/pkg/logger"
)

// Event describe un error que debe quedar registrado fuera del flujo de la petición.
type Event struct {
	Status    int
	Code      string
	Method    string
	Path      string
	RequestID string
	UserID    string
	Err       error
}

// Reporter es el colector de errores. Implementaciones deben ser seguras para uso concurrente.
type Reporter interface {
	Report(ctx context.Context, ev Event)
}

// ShouldReport decide si un error llega al colector: 5xx o errores sin clasificar.
func ShouldReport(status int, classified bool) bool {
	return status >= 500 || !classified
}

// LogReporter reporta con un evento zerolog de nivel error y un contador Prometheus.
type LogReporter struct {
	log     *logger.Logger
	counter *prometheus.CounterVec
}

// NewLogReporter construye el reporter. reg puede ser nil (sin métricas).
func NewLogReporter(log *logger.Logger, reg prometheus.Registerer) *LogReporter {
	r := &LogReporter{log: log.Named("error-monitor")}
	if reg != nil {
		r.counter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_errors_reported_total",
			Help: "Errores 5xx o no clasificados enviados al colector.",
		}, []string{"status", "code"})
		reg.MustRegister(r.counter)
	}
	return r
}

// Report implementa Reporter.
func (r *LogReporter) Report(_ context.Context, ev Event) {
	if r.counter != nil {
		r.counter.WithLabelValues(strconv.Itoa(ev.Status), ev.Code).Inc()
	}
	r.log.Error().
		Err(ev.Err).
		Int("status", ev.Status).
		Str("code", ev.Code).
		Str("method", ev.Method).
		Str("path", ev.Path).
		Str("request_id", ev.RequestID).
		Str("user_id", ev.UserID).
		Msg("error reportado")
}
