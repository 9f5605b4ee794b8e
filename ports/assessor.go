package ports

import (
	"normscope/domain/cohort"
	"normscope/domain/core"
	"normscope/domain/norms"
)

// Assessor is the statistics surface the dashboard and CLI consume. Every
// operation is a pure, synchronous function of its inputs: the table is never
// mutated and nothing is cached between calls.
type Assessor interface {
	// Summarize narrows the table to the filter's inclusive ranges and
	// describes the metric column over the remaining records. Fails with a
	// validation error when the filter is malformed, the metric is unknown,
	// or fewer than 2 matching records carry the metric.
	Summarize(tbl *cohort.Table, f cohort.Filter, metric core.MetricKey) (norms.Summary, error)

	// Score places one observed value against a previously computed summary.
	// Fails with a validation error when the observed value is not a finite
	// number or the summary's standard deviation is zero; both are checked
	// before any division.
	Score(observed float64, summary norms.Summary) (norms.Score, error)

	// Assess runs Summarize+Score for every requested construct against one
	// filtered cohort. Constructs that cannot be scored are reported as
	// skipped with their reason; the others score normally.
	Assess(tbl *cohort.Table, f cohort.Filter, observations map[core.MetricKey]float64) (*norms.Assessment, error)

	// BuildChart shapes the bar-chart payload for an assessment.
	BuildChart(a *norms.Assessment) norms.ChartPayload

	// Bands exposes the severity band table scores are labeled with, so
	// rendering surfaces can print a matching legend.
	Bands() norms.BandTable
}
