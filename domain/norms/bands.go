package norms

import (
	"fmt"
	"math"
)

// Band is one row of the severity banding table: the label applied to any
// Z-score up to and including Upper.
type Band struct {
	Label string  `json:"label" yaml:"label"`
	Upper float64 `json:"upper" yaml:"upper"`
}

// BandTable maps Z-scores to severity labels. Rows are ordered by ascending
// upper bound; a score takes the label of the first row whose upper bound is
// >= z. The final row must be unbounded so every score lands somewhere.
type BandTable []Band

// DefaultBands is the banding the dashboard ships with. The -2 cutoff is the
// clinical impairment line drawn on the chart.
func DefaultBands() BandTable {
	return BandTable{
		{Label: "impaired", Upper: -2.0},
		{Label: "below average", Upper: -1.0},
		{Label: "average", Upper: 1.0},
		{Label: "above average", Upper: 2.0},
		{Label: "superior", Upper: math.Inf(1)},
	}
}

// Validate rejects tables that could leave a score unlabeled or ambiguous
func (bt BandTable) Validate() error {
	if len(bt) == 0 {
		return fmt.Errorf("band table cannot be empty")
	}
	prev := math.Inf(-1)
	for i, b := range bt {
		if b.Label == "" {
			return fmt.Errorf("band %d: label cannot be empty", i)
		}
		if math.IsNaN(b.Upper) {
			return fmt.Errorf("band %d (%s): upper bound cannot be NaN", i, b.Label)
		}
		if b.Upper <= prev {
			return fmt.Errorf("band %d (%s): upper bounds must strictly ascend", i, b.Label)
		}
		prev = b.Upper
	}
	if !math.IsInf(bt[len(bt)-1].Upper, 1) {
		return fmt.Errorf("final band (%s) must be unbounded", bt[len(bt)-1].Label)
	}
	return nil
}

// BandFor returns the label for a Z-score. The table must be valid.
func (bt BandTable) BandFor(z float64) string {
	for _, b := range bt {
		if z <= b.Upper {
			return b.Label
		}
	}
	// Unreachable on a valid table; the last band is unbounded.
	return bt[len(bt)-1].Label
}
