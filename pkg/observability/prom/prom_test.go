package prom

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// total sums every sample of the named family.
func total(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	var sum float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				sum += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				sum += m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				sum += float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return sum
}

func TestSearchMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	ctx := context.Background()

	m.OnSearchStart(ctx, "heavy-hex", 16, 24)
	m.OnCandidate(ctx, 4)
	m.OnTrial(ctx, 12, true)
	m.OnTrial(ctx, 15, false)
	m.OnTrial(ctx, 10, true)
	m.OnImprovement(ctx, 12)
	m.OnImprovement(ctx, 10)
	m.OnSearchComplete(ctx, 10, time.Second, nil)
	m.OnSearchComplete(ctx, -1, time.Second, errors.New("boom"))

	tests := []struct {
		name string
		want float64
	}{
		{"qswap_search_started_total", 1},
		{"qswap_search_completed_total", 2},
		{"qswap_search_candidates_total", 1},
		{"qswap_search_trials_total", 3},
		{"qswap_search_trial_swaps", 2},
		{"qswap_search_improvements_total", 2},
		{"qswap_search_best_swaps", 10},
	}
	for _, tt := range tests {
		if got := total(t, reg, tt.name); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCacheAndHTTPMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	ctx := context.Background()

	m.OnCacheHit(ctx, "solution")
	m.OnCacheMiss(ctx, "solution")
	m.OnCacheSet(ctx, "solution", 512)
	m.OnRequest(ctx, "POST", "/v1/solve")
	m.OnResponse(ctx, "POST", "/v1/solve", 200, 10*time.Millisecond)
	m.OnResponse(ctx, "GET", "/v1/runs/{id}", 404, time.Millisecond)
	m.OnRateLimited(ctx, "/v1/solve")

	if got := total(t, reg, "qswap_cache_operations_total"); got != 3 {
		t.Errorf("cache operations = %v, want 3", got)
	}
	if got := total(t, reg, "qswap_cache_written_bytes_total"); got != 512 {
		t.Errorf("cache bytes = %v, want 512", got)
	}
	if got := total(t, reg, "qswap_http_requests_total"); got != 2 {
		t.Errorf("http requests = %v, want 2", got)
	}
	if got := total(t, reg, "qswap_http_rate_limited_total"); got != 1 {
		t.Errorf("rate limited = %v, want 1", got)
	}
}

func TestNewPanicsOnDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	defer func() {
		if recover() == nil {
			t.Error("New() on the same registry twice should panic")
		}
	}()
	New(reg)
}
