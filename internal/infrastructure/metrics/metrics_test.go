package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	// Replace the global default registry to allow test inspection.
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry

	m := New()

	if m.NegotiationsCreated == nil || m.HoldsCreated == nil || m.WebhookCallbacks == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.NegotiationsCreated.Inc()
	m.NegotiationTransitions.WithLabelValues("accept").Inc()
	m.WebhookCallbacks.WithLabelValues("confirmed").Inc()
	m.HoldAmount.Observe(200)

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	if len(metricFamilies) == 0 {
		t.Fatal("expected registered metrics, got none")
	}

	for _, mf := range metricFamilies {
		if !strings.HasPrefix(mf.GetName(), "artelab_") {
			t.Fatalf("expected artelab_ prefix, got %s", mf.GetName())
		}
	}
}
