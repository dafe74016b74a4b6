package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterMetrics records the lifecycle of register transactions.
type RegisterMetrics struct {
	logins       prometheus.Counter
	scans        prometheus.Counter
	totals       prometheus.Counter
	finalized    prometheus.Counter
	terminations *prometheus.CounterVec
}

// NewRegisterMetrics registers the transaction metrics on the provided registerer.
func NewRegisterMetrics(reg prometheus.Registerer) *RegisterMetrics {
	if reg == nil {
		return &RegisterMetrics{}
	}
	logins := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "register_logins_total",
		Help: "Successful cashier logins.",
	})
	scans := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "register_items_scanned_total",
		Help: "Items added to carts.",
	})
	totals := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "register_receipts_totaled_total",
		Help: "Receipts created and totaled.",
	})
	finalized := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "register_receipts_finalized_total",
		Help: "Receipts finalized with payment.",
	})
	terminations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "register_session_terminations_total",
		Help: "Sessions torn down, by reason.",
	}, []string{"reason"})
	reg.MustRegister(logins, scans, totals, finalized, terminations)
	return &RegisterMetrics{
		logins:       logins,
		scans:        scans,
		totals:       totals,
		finalized:    finalized,
		terminations: terminations,
	}
}

// IncLogin increments the successful login counter.
func (m *RegisterMetrics) IncLogin() {
	if m == nil || m.logins == nil {
		return
	}
	m.logins.Inc()
}

// IncScan increments the scanned item counter.
func (m *RegisterMetrics) IncScan() {
	if m == nil || m.scans == nil {
		return
	}
	m.scans.Inc()
}

// IncTotaled increments the totaled receipt counter.
func (m *RegisterMetrics) IncTotaled() {
	if m == nil || m.totals == nil {
		return
	}
	m.totals.Inc()
}

// IncFinalized increments the finalized receipt counter.
func (m *RegisterMetrics) IncFinalized() {
	if m == nil || m.finalized == nil {
		return
	}
	m.finalized.Inc()
}

// IncTermination increments the session teardown counter for the given reason.
func (m *RegisterMetrics) IncTermination(reason string) {
	if m == nil || m.terminations == nil {
		return
	}
	m.terminations.WithLabelValues(reason).Inc()
}
