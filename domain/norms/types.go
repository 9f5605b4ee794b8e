package norms

import (
	"normscope/domain/cohort"
	"normscope/domain/core"
)

// Summary is the ephemeral result of one filter-and-describe pass over a
// metric column. Recomputed on every parameter change; never cached across
// interactions.
type Summary struct {
	Metric core.MetricKey `json:"metric"`
	Filter cohort.Filter  `json:"filter"`

	// Count is the number of records inside both filter ranges that carry a
	// non-missing value for the metric. Mean and StdDev are computed over
	// exactly those records; StdDev is the sample estimator (n-1).
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`

	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`

	ComputedAt core.Timestamp `json:"computed_at"`
}

// Score places one observed value against a Summary's distribution.
type Score struct {
	Metric   core.MetricKey `json:"metric"`
	Observed float64        `json:"observed"`
	Z        float64        `json:"z"`
	// Percentile is the standard-normal CDF equivalent of Z, in percent.
	Percentile float64 `json:"percentile"`
	Band       string  `json:"band"`
	Summary    Summary `json:"summary"`
}

// SkippedMetric records why one construct in a battery could not be scored.
type SkippedMetric struct {
	Metric core.MetricKey `json:"metric"`
	Reason string         `json:"reason"`
}

// Assessment is one full scoring pass: every requested construct scored
// against the same filtered cohort, plus the constructs that had to be
// skipped and why.
type Assessment struct {
	ID          core.AssessmentID `json:"id"`
	DatasetID   core.DatasetID    `json:"dataset_id"`
	Source      string            `json:"source"`
	Fingerprint core.DatasetHash  `json:"fingerprint"`

	Filter cohort.Filter `json:"filter"`
	// CohortSize is the number of records inside the filter ranges before
	// any per-metric missing-value drops.
	CohortSize int `json:"cohort_size"`

	Scores  []Score         `json:"scores"`
	Skipped []SkippedMetric `json:"skipped,omitempty"`

	CreatedAt core.Timestamp `json:"created_at"`
}

// Score returns the score for a metric, if that construct was scored.
func (a *Assessment) Score(key core.MetricKey) (Score, bool) {
	for _, s := range a.Scores {
		if s.Metric == key {
			return s, true
		}
	}
	return Score{}, false
}

// SkipReason returns the skip reason for a metric, if it was skipped.
func (a *Assessment) SkipReason(key core.MetricKey) (string, bool) {
	for _, s := range a.Skipped {
		if s.Metric == key {
			return s.Reason, true
		}
	}
	return "", false
}
