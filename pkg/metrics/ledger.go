package metrics

import "github.com/prometheus/client_golang/prometheus"

// LedgerMetrics cuenta movimientos aceptados/rechazados y descuadres detectados en conciliación.
type LedgerMetrics struct {
	movements  *prometheus.CounterVec
	rejected   *prometheus.CounterVec
	mismatches prometheus.Counter
}

// NewLedgerMetrics registra las métricas del libro de inventario.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	m := &LedgerMetrics{
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_movements_total",
			Help: "Movimientos de inventario registrados por tipo.",
		}, []string{"change_type"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_movements_rejected_total",
			Help: "Movimientos de inventario rechazados por motivo.",
		}, []string{"reason"}),
		mismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_reconcile_mismatch_total",
			Help: "Conciliaciones donde el saldo no coincide con el pliegue de movimientos.",
		}),
	}
	reg.MustRegister(m.movements, m.rejected, m.mismatches)
	return m
}

// Recorded incrementa el contador del tipo de movimiento.
func (m *LedgerMetrics) Recorded(changeType string) {
	if m == nil || m.movements == nil {
		return
	}
	m.movements.WithLabelValues(normalizeLabel(changeType)).Inc()
}

// Rejected incrementa el contador de rechazos.
func (m *LedgerMetrics) Rejected(reason string) {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

// Mismatch registra un descuadre de conciliación.
func (m *LedgerMetrics) Mismatch() {
	if m == nil || m.mismatches == nil {
		return
	}
	m.mismatches.Inc()
}
