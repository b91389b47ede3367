package metrics

import "testing"

func TestRegistryGetOrCreateIsStable(t *testing.T) {
	r := NewRegistry()
	c1 := r.Counter("rounds_total")
	c1.Inc()
	c2 := r.Counter("rounds_total")
	if c2.Value() != 1 {
		t.Fatalf("expected the second lookup to return the same counter, got value %d", c2.Value())
	}
}

func TestRegistrySnapshotIncludesAllMetricKinds(t *testing.T) {
	r := NewRegistry()
	r.Counter("c").Add(2)
	r.Gauge("g").Set(5)
	r.Histogram("h").Observe(1)

	snap := r.Snapshot()
	if snap["c"].(int64) != 2 {
		t.Fatalf("expected counter snapshot 2, got %v", snap["c"])
	}
	if snap["g"].(int64) != 5 {
		t.Fatalf("expected gauge snapshot 5, got %v", snap["g"])
	}
	histSnap, ok := snap["h"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected histogram snapshot to be a map, got %T", snap["h"])
	}
	if histSnap["count"].(int64) != 1 {
		t.Fatalf("expected histogram count 1, got %v", histSnap["count"])
	}
}
