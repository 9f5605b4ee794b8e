package ui

import (
	"context"

	"normscope/domain/cohort"
	"normscope/domain/core"
	"normscope/domain/norms"
)

// lastResult remembers the most recent assessment so /report can render it
// without re-posting parameters. Access only while holding the semaphore.
type lastResult struct {
	assessment *norms.Assessment
}

// recompute runs one full pass (filter, statistics, scores, chart inputs)
// under the capacity-1 semaphore. Requests queue behind it; nothing is
// cached across passes except the finished assessment for /report.
func (a *App) recompute(ctx context.Context, f cohort.Filter, obs map[core.MetricKey]float64) (*norms.Assessment, error) {
	if err := a.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer a.sem.Release(1)

	assessment, err := a.assessor.Assess(a.table, f, obs)
	if err != nil {
		return nil, err
	}
	a.last.assessment = assessment
	return assessment, nil
}

func (a *App) summarize(ctx context.Context, f cohort.Filter, metric core.MetricKey) (norms.Summary, error) {
	if err := a.sem.Acquire(ctx, 1); err != nil {
		return norms.Summary{}, err
	}
	defer a.sem.Release(1)
	return a.assessor.Summarize(a.table, f, metric)
}

func (a *App) scoreOne(ctx context.Context, f cohort.Filter, metric core.MetricKey, observed float64) (norms.Score, error) {
	if err := a.sem.Acquire(ctx, 1); err != nil {
		return norms.Score{}, err
	}
	defer a.sem.Release(1)

	summary, err := a.assessor.Summarize(a.table, f, metric)
	if err != nil {
		return norms.Score{}, err
	}
	return a.assessor.Score(observed, summary)
}

func (a *App) lastAssessment(ctx context.Context) (*norms.Assessment, error) {
	if err := a.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer a.sem.Release(1)
	return a.last.assessment, nil
}
