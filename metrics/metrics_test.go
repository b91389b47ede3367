package metrics

import "testing"

func TestCounterAddIgnoresNegative(t *testing.T) {
	c := NewCounter("test_counter")
	c.Inc()
	c.Add(5)
	c.Add(-3)
	if got := c.Value(); got != 6 {
		t.Fatalf("expected 6, got %d", got)
	}
}

func TestGaugeSetIncDec(t *testing.T) {
	g := NewGauge("test_gauge")
	g.Set(10)
	g.Inc()
	g.Dec()
	g.Dec()
	if got := g.Value(); got != 9 {
		t.Fatalf("expected 9, got %d", got)
	}
}

func TestHistogramAggregates(t *testing.T) {
	h := NewHistogram("test_hist")
	if h.Min() != 0 || h.Max() != 0 || h.Mean() != 0 {
		t.Fatalf("expected zero values before any observation")
	}

	h.Observe(3)
	h.Observe(1)
	h.Observe(5)

	if h.Count() != 3 {
		t.Fatalf("expected count 3, got %d", h.Count())
	}
	if h.Sum() != 9 {
		t.Fatalf("expected sum 9, got %f", h.Sum())
	}
	if h.Min() != 1 {
		t.Fatalf("expected min 1, got %f", h.Min())
	}
	if h.Max() != 5 {
		t.Fatalf("expected max 5, got %f", h.Max())
	}
	if h.Mean() != 3 {
		t.Fatalf("expected mean 3, got %f", h.Mean())
	}
}

func TestTimerStopRecordsIntoHistogram(t *testing.T) {
	h := NewHistogram("test_timer_hist")
	timer := NewTimer(h)
	timer.Stop()
	if h.Count() != 1 {
		t.Fatalf("expected timer to record one observation, got %d", h.Count())
	}
}
