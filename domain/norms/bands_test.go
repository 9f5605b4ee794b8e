package norms

import (
	"math"
	"testing"
)

// TestDefaultBandAssignments pins the shipped Z-to-label table, boundaries
// included.
func TestDefaultBandAssignments(t *testing.T) {
	bands := DefaultBands()
	if err := bands.Validate(); err != nil {
		t.Fatalf("Default band table invalid: %v", err)
	}

	tests := []struct {
		z    float64
		want string
	}{
		{-5.0, "impaired"},
		{-2.0001, "impaired"},
		{-2.0, "impaired"},
		{-1.9999, "below average"},
		{-1.0, "below average"},
		{-0.9999, "average"},
		{0.0, "average"},
		{1.0, "average"},
		{1.0001, "above average"},
		{2.0, "above average"},
		{2.0001, "superior"},
		{2.5, "superior"},
		{math.Inf(1), "superior"},
	}

	for _, test := range tests {
		if got := bands.BandFor(test.z); got != test.want {
			t.Errorf("BandFor(%v) = %q, want %q", test.z, got, test.want)
		}
	}
}

func TestBandTableValidate(t *testing.T) {
	tests := []struct {
		name  string
		table BandTable
		ok    bool
	}{
		{"default", DefaultBands(), true},
		{"empty", BandTable{}, false},
		{"missing label", BandTable{{Label: "", Upper: math.Inf(1)}}, false},
		{"NaN bound", BandTable{{Label: "x", Upper: math.NaN()}}, false},
		{
			"descending bounds",
			BandTable{{Label: "a", Upper: 1}, {Label: "b", Upper: -1}, {Label: "c", Upper: math.Inf(1)}},
			false,
		},
		{
			"duplicate bounds",
			BandTable{{Label: "a", Upper: 0}, {Label: "b", Upper: 0}, {Label: "c", Upper: math.Inf(1)}},
			false,
		},
		{
			"bounded final band",
			BandTable{{Label: "a", Upper: 0}, {Label: "b", Upper: 2}},
			false,
		},
		{
			"two-band custom table",
			BandTable{{Label: "flagged", Upper: -2}, {Label: "unremarkable", Upper: math.Inf(1)}},
			true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.table.Validate()
			if test.ok && err != nil {
				t.Errorf("Expected valid table, got %v", err)
			}
			if !test.ok && err == nil {
				t.Error("Expected validation error, got none")
			}
		})
	}
}

func TestAssessmentLookups(t *testing.T) {
	a := Assessment{
		Scores: []Score{
			{Metric: "PL", Z: -1.2, Band: "below average"},
			{Metric: "AVG", Z: 0.3, Band: "average"},
		},
		Skipped: []SkippedMetric{
			{Metric: "AT", Reason: "standard deviation is zero"},
		},
	}

	s, ok := a.Score("PL")
	if !ok || s.Z != -1.2 {
		t.Errorf("Expected PL score with z=-1.2, got %+v (ok=%v)", s, ok)
	}
	if _, ok := a.Score("AT"); ok {
		t.Error("AT was skipped; Score should report absence")
	}

	reason, ok := a.SkipReason("AT")
	if !ok || reason != "standard deviation is zero" {
		t.Errorf("Expected AT skip reason, got %q (ok=%v)", reason, ok)
	}
	if _, ok := a.SkipReason("PL"); ok {
		t.Error("PL was scored; SkipReason should report absence")
	}
}
