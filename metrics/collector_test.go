package metrics

import "testing"

func TestMetricsCollectorRecordAndGet(t *testing.T) {
	mc := NewMetricsCollector(CollectorConfig{})
	mc.Record("round_partitions", 4, map[string]string{"round": "0"})

	entry := mc.Get("round_partitions")
	if entry == nil {
		t.Fatal("expected an entry for round_partitions")
	}
	if entry.Value != 4 {
		t.Fatalf("expected value 4, got %f", entry.Value)
	}
	if entry.Tags["round"] != "0" {
		t.Fatalf("expected tag round=0, got %q", entry.Tags["round"])
	}
}

func TestMetricsCollectorHistogramDisabledByDefault(t *testing.T) {
	mc := NewMetricsCollector(CollectorConfig{})
	mc.RecordHistogram("round_latency_ms", 12.5)
	if got := mc.HistogramPercentile("round_latency_ms", 50); got != 0 {
		t.Fatalf("expected 0 when histograms disabled, got %f", got)
	}
}

func TestMetricsCollectorHistogramPercentile(t *testing.T) {
	mc := NewMetricsCollector(CollectorConfig{EnableHistograms: true})
	for _, v := range []float64{10, 20, 30, 40, 50} {
		mc.RecordHistogram("round_latency_ms", v)
	}
	if got := mc.HistogramPercentile("round_latency_ms", 0); got != 10 {
		t.Fatalf("expected p0 to be the minimum 10, got %f", got)
	}
	if got := mc.HistogramPercentile("round_latency_ms", 100); got != 50 {
		t.Fatalf("expected p100 to be the maximum 50, got %f", got)
	}
}

func TestMetricsCollectorGetByTag(t *testing.T) {
	mc := NewMetricsCollector(CollectorConfig{})
	mc.Record("m", 1, map[string]string{"round": "0"})
	mc.Record("m", 2, map[string]string{"round": "1"})

	matches := mc.GetByTag("round", "1")
	if len(matches) != 1 || matches[0].Value != 2 {
		t.Fatalf("expected exactly one match with value 2, got %+v", matches)
	}
}

func TestMetricsCollectorFlushResetsState(t *testing.T) {
	mc := NewMetricsCollector(CollectorConfig{})
	mc.Record("m", 1, nil)
	flushed := mc.Flush()
	if len(flushed) != 1 {
		t.Fatalf("expected 1 flushed entry, got %d", len(flushed))
	}
	if mc.MetricCount() != 0 {
		t.Fatalf("expected collector to be empty after flush, got %d entries", mc.MetricCount())
	}
}
