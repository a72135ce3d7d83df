package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounterLifecycle(t *testing.T) {
	m := NewMetrics("test_service").(*Metrics)
	m.RegisterCounter("cards_stored_total", "Total number of cards stored")

	m.IncCounter("cards_stored_total")
	m.AddCounter("cards_stored_total", 2)

	if got := testutil.ToFloat64(m.counters["cards_stored_total"]); got != 3 {
		t.Errorf("counter = %v, want 3", got)
	}

	// Unregistered names are ignored rather than panicking.
	m.IncCounter("does_not_exist")
}

func TestGaugeLifecycle(t *testing.T) {
	m := NewMetrics("test_service").(*Metrics)
	m.RegisterGauge("ingest_pages", "Pages pending ingest")

	m.SetGauge("ingest_pages", 10)
	m.IncGauge("ingest_pages")
	m.DecGauge("ingest_pages")
	m.SubGauge("ingest_pages", 4)

	if got := testutil.ToFloat64(m.gauges["ingest_pages"]); got != 6 {
		t.Errorf("gauge = %v, want 6", got)
	}
}

func TestHistogramRegistered(t *testing.T) {
	m := NewMetrics("test_service").(*Metrics)
	m.RegisterHistogram("lookup_duration_seconds", "Duration of user lookups", []float64{0.1, 0.5, 1})
	m.ObserveHistogram("lookup_duration_seconds", 0.3)

	count, err := testutil.GatherAndCount(m.Registry, "lookup_duration_seconds")
	if err != nil {
		t.Fatalf("failed to gather: %v", err)
	}
	if count != 1 {
		t.Errorf("gathered %d metric families, want 1", count)
	}
}

func TestCounterVec(t *testing.T) {
	m := NewMetrics("test_service").(*Metrics)
	m.RegisterCounterVec("requests_total", "Requests by route", []string{"route"})
	m.IncCounterVec("requests_total", "/api/users/{user_id}")
	m.AddCounterVec("requests_total", 2, "/api/users/{user_id}")

	expected := strings.NewReader(`
# HELP requests_total Requests by route
# TYPE requests_total counter
requests_total{route="/api/users/{user_id}"} 3
`)
	if err := testutil.GatherAndCompare(m.Registry, expected, "requests_total"); err != nil {
		t.Errorf("unexpected metric output: %v", err)
	}
}
