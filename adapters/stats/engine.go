package stats

import (
	"math"

	"github.com/montanaflynn/stats"

	"normscope/domain/cohort"
	"normscope/domain/core"
	"normscope/domain/norms"
	"normscope/internal"
	"normscope/internal/errors"
)

// Engine computes cohort statistics and Z-scores. Every method is a pure,
// synchronous function of its inputs: the table is read-only and nothing is
// cached between calls. It implements ports.Assessor.
type Engine struct {
	bands norms.BandTable
	log   *internal.Logger
}

// NewEngine builds an Engine with the given severity band table
func NewEngine(bands norms.BandTable) (*Engine, error) {
	if err := bands.Validate(); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return &Engine{
		bands: bands,
		log:   internal.DefaultLogger.Named("stats"),
	}, nil
}

// Bands returns the engine's band table
func (e *Engine) Bands() norms.BandTable {
	return append(norms.BandTable(nil), e.bands...)
}

// Summarize narrows the table to the filter's inclusive age and IQ ranges,
// drops records missing the metric, and describes what remains. Count is the
// exact number of surviving records; StdDev is the sample estimator (n-1).
//
// Fails with VALIDATION_ERROR when a range is reversed, the metric column
// does not exist, or fewer than 2 records survive.
func (e *Engine) Summarize(tbl *cohort.Table, f cohort.Filter, metric core.MetricKey) (norms.Summary, error) {
	if tbl == nil {
		return norms.Summary{}, errors.InternalError("no dataset loaded")
	}
	if err := f.Validate(); err != nil {
		return norms.Summary{}, errors.WithCode(errors.CodeValidationError, err)
	}
	if !tbl.HasMetric(metric) {
		return norms.Summary{}, errors.ValidationErrorf("metric column %q not found", metric)
	}

	view := tbl.Select(f)
	column, _ := view.MetricColumn(metric)
	values := dropMissing(column)

	if len(values) < 2 {
		e.log.Debug("summarize %s: %d valid records for age %s, iq %s",
			metric, len(values), f.Age, f.IQ)
		return norms.Summary{}, errors.ValidationErrorf(
			"insufficient data for the selected range: fewer than 2 matching records (got %d)", len(values))
	}

	mean, _ := stats.Mean(values)
	stdDev, _ := stats.StandardDeviationSample(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)
	median, _ := stats.Median(values)
	q25, _ := stats.Percentile(values, 25)
	q75, _ := stats.Percentile(values, 75)

	return norms.Summary{
		Metric:     metric,
		Filter:     f,
		Count:      len(values),
		Mean:       mean,
		StdDev:     stdDev,
		Min:        min,
		Max:        max,
		Median:     median,
		Q25:        q25,
		Q75:        q75,
		ComputedAt: core.Now(),
	}, nil
}

// dropMissing strips NaN cells from a metric column
func dropMissing(column []float64) []float64 {
	values := make([]float64, 0, len(column))
	for _, v := range column {
		if math.IsNaN(v) {
			continue
		}
		values = append(values, v)
	}
	return values
}
