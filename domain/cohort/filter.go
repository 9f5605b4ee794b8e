package cohort

import (
	"fmt"
	"math"

	"normscope/domain/core"
)

// Range is a pair of inclusive numeric bounds. Recreated per query; no
// persistent identity.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// NewRange builds an inclusive range
func NewRange(min, max float64) Range {
	return Range{Min: min, Max: max}
}

// Contains reports whether v lies within the inclusive bounds. NaN is never
// contained.
func (r Range) Contains(v float64) bool {
	if math.IsNaN(v) {
		return false
	}
	return v >= r.Min && v <= r.Max
}

// Validate rejects reversed or non-numeric bounds
func (r Range) Validate() error {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) {
		return fmt.Errorf("%w: bounds must be numbers", core.ErrInvalidRange)
	}
	if r.Min > r.Max {
		return fmt.Errorf("%w: %g > %g", core.ErrInvalidRange, r.Min, r.Max)
	}
	return nil
}

// String formats the range the way the dashboard annotates it
func (r Range) String() string {
	return fmt.Sprintf("%g ~ %g", r.Min, r.Max)
}

// Filter narrows a Table by demographic ranges before statistics
type Filter struct {
	Age Range `json:"age"`
	IQ  Range `json:"iq"`
}

// Validate checks both ranges
func (f Filter) Validate() error {
	if err := f.Age.Validate(); err != nil {
		return fmt.Errorf("age range: %w", err)
	}
	if err := f.IQ.Validate(); err != nil {
		return fmt.Errorf("iq range: %w", err)
	}
	return nil
}
