package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterMetricsCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRegisterMetrics(reg)

	m.IncLogin()
	m.IncScan()
	m.IncScan()
	m.IncTotaled()
	m.IncFinalized()
	m.IncTermination("connection_lost")
	m.IncTermination("connection_lost")
	m.IncTermination("logout")

	if got := testutil.ToFloat64(m.scans); got != 2 {
		t.Fatalf("expected 2 scans, got %v", got)
	}
	if got := testutil.ToFloat64(m.finalized); got != 1 {
		t.Fatalf("expected 1 finalized, got %v", got)
	}
	if got := testutil.ToFloat64(m.terminations.WithLabelValues("connection_lost")); got != 2 {
		t.Fatalf("expected 2 connection_lost terminations, got %v", got)
	}
}

func TestRegisterMetricsNilSafe(t *testing.T) {
	var m *RegisterMetrics
	m.IncLogin()
	m.IncScan()
	m.IncTotaled()
	m.IncFinalized()
	m.IncTermination("logout")

	empty := NewRegisterMetrics(nil)
	empty.IncScan()
}
