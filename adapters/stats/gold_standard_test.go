package stats

import (
	"math"
	"testing"

	"normscope/domain/cohort"
	"normscope/domain/core"
	"normscope/domain/norms"
	"normscope/internal/testkit"
)

func TestGoldStandard_SummarizeMatchesTwoPassReference(t *testing.T) {
	table, err := testkit.NewCohortGenerator(testkit.DefaultCohortConfig()).GenerateTable()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	engine, err := NewEngine(norms.DefaultBands())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	f := cohort.Filter{Age: cohort.NewRange(30, 65), IQ: cohort.NewRange(85, 130)}

	for _, key := range table.MetricKeys() {
		// Reference pass: filter and drop missing cells by hand.
		var values []float64
		for i := 0; i < table.RowCount(); i++ {
			rec := table.Record(i)
			if !f.Age.Contains(rec.Age) || !f.IQ.Contains(rec.IQ) {
				continue
			}
			if v := rec.Metric(key); !math.IsNaN(v) {
				values = append(values, v)
			}
		}
		if len(values) < 2 {
			t.Fatalf("metric %s: synthetic cohort too sparse for the test filter (%d values)", key, len(values))
		}

		s, err := engine.Summarize(table, f, key)
		if err != nil {
			t.Fatalf("metric %s: summarize: %v", key, err)
		}
		if s.Count != len(values) {
			t.Errorf("metric %s: count %d, reference %d", key, s.Count, len(values))
		}

		mean := 0.0
		for _, v := range values {
			mean += v
		}
		mean /= float64(len(values))

		if math.Abs(s.Mean-mean) > tol {
			t.Errorf("metric %s: mean %.12f, reference %.12f", key, s.Mean, mean)
		}
		if ref := sampleStd(values); math.Abs(s.StdDev-ref) > tol {
			t.Errorf("metric %s: std %.12f, reference %.12f", key, s.StdDev, ref)
		}
	}
}

func TestGoldStandard_BatteryScoresConsistent(t *testing.T) {
	table, err := testkit.NewCohortGenerator(testkit.DefaultCohortConfig()).GenerateTable()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	engine, err := NewEngine(norms.DefaultBands())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	f := cohort.Filter{Age: cohort.NewRange(18, 120), IQ: cohort.NewRange(70, 180)}
	observations := make(map[core.MetricKey]float64)
	for _, key := range table.MetricKeys() {
		observations[key] = 50
	}

	a, err := engine.Assess(table, f, observations)
	if err != nil {
		t.Fatalf("assess: %v", err)
	}

	if got := len(a.Scores) + len(a.Skipped); got != len(table.MetricKeys()) {
		t.Fatalf("expected every requested construct scored or skipped, got %d of %d", got, len(table.MetricKeys()))
	}

	bands := norms.DefaultBands()
	for _, s := range a.Scores {
		if s.Summary.Count < 2 {
			t.Errorf("metric %s: scored with count %d", s.Metric, s.Summary.Count)
		}
		want := (s.Observed - s.Summary.Mean) / s.Summary.StdDev
		if math.Abs(s.Z-want) > tol {
			t.Errorf("metric %s: z %.12f, expected %.12f from embedded summary", s.Metric, s.Z, want)
		}
		if s.Band != bands.BandFor(s.Z) {
			t.Errorf("metric %s: band %q does not match z %.4f", s.Metric, s.Band, s.Z)
		}
	}
}
