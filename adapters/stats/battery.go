package stats

import (
	"sort"

	"normscope/domain/cohort"
	"normscope/domain/core"
	"normscope/domain/norms"
	"normscope/internal/errors"
)

// Assess scores every requested construct against one filtered cohort in
// table column order. A construct that cannot be scored (too few records,
// zero standard deviation, bad observed value, unknown column) is reported
// as skipped with its reason while the other constructs score normally. The
// filter itself must be valid; a malformed filter fails the whole pass.
func (e *Engine) Assess(tbl *cohort.Table, f cohort.Filter, observations map[core.MetricKey]float64) (*norms.Assessment, error) {
	if tbl == nil {
		return nil, errors.InternalError("no dataset loaded")
	}
	if err := f.Validate(); err != nil {
		return nil, errors.WithCode(errors.CodeValidationError, err)
	}
	if len(observations) == 0 {
		return nil, errors.ValidationError("no observed values supplied")
	}

	a := &norms.Assessment{
		ID:          core.NewAssessmentID(),
		DatasetID:   tbl.ID,
		Source:      tbl.Source,
		Fingerprint: tbl.Fingerprint,
		Filter:      f,
		CohortSize:  tbl.Select(f).RowCount(),
		CreatedAt:   core.Now(),
	}

	for _, key := range tbl.MetricKeys() {
		observed, requested := observations[key]
		if !requested {
			continue
		}

		summary, err := e.Summarize(tbl, f, key)
		if err != nil {
			if skip, reason := asSkip(err); skip {
				a.Skipped = append(a.Skipped, norms.SkippedMetric{Metric: key, Reason: reason})
				continue
			}
			return nil, err
		}

		score, err := e.Score(observed, summary)
		if err != nil {
			if skip, reason := asSkip(err); skip {
				a.Skipped = append(a.Skipped, norms.SkippedMetric{Metric: key, Reason: reason})
				continue
			}
			return nil, err
		}

		a.Scores = append(a.Scores, score)
	}

	// Observed values naming columns the table does not have.
	unknown := make([]core.MetricKey, 0)
	for key := range observations {
		if !tbl.HasMetric(key) {
			unknown = append(unknown, key)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
	for _, key := range unknown {
		a.Skipped = append(a.Skipped, norms.SkippedMetric{Metric: key, Reason: "metric column not found"})
	}

	e.log.Info("assessment %s: %d scored, %d skipped over cohort of %d",
		a.ID, len(a.Scores), len(a.Skipped), a.CohortSize)

	return a, nil
}

// asSkip reports whether an error is a per-construct validation problem and
// extracts its message
func asSkip(err error) (bool, string) {
	if errors.IsValidationError(err) {
		return true, err.Error()
	}
	return false, ""
}
