package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"normscope/domain/norms"
	"normscope/internal/errors"
)

// Chart styling and layout
const (
	barFill    = "#CC3333"
	barOutline = "#000000"
	barWidth   = 0.6

	cutoffColor = "#0099FF"
	zeroColor   = "#000000"
	guideColor  = "#888888"

	// The y-axis always covers at least this window, in z units.
	chartYMin = -5.0
	chartYMax = 1.0
)

// impairmentCutoff is the dashed clinical line on the chart, in z units.
const impairmentCutoff = -2.0

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// Score places one observed value against a previously computed summary:
// z = (observed - mean) / std. The observed value must be a finite number
// and the summary's standard deviation strictly positive; both are checked
// before the division so no NaN or infinity can reach the result.
func (e *Engine) Score(observed float64, summary norms.Summary) (norms.Score, error) {
	if math.IsNaN(observed) || math.IsInf(observed, 0) {
		return norms.Score{}, errors.ValidationError("observed value is not a finite number")
	}
	if !(summary.StdDev > 0) {
		return norms.Score{}, errors.ValidationError("standard deviation is zero")
	}

	z := (observed - summary.Mean) / summary.StdDev
	return norms.Score{
		Metric:     summary.Metric,
		Observed:   observed,
		Z:          z,
		Percentile: stdNormal.CDF(z) * 100,
		Band:       e.bands.BandFor(z),
		Summary:    summary,
	}, nil
}

// BuildChart shapes the bar-chart payload for an assessment: one bar per
// scored construct, the solid zero line, the dashed impairment cutoff, dotted
// guides at the remaining whole standard deviations, and the cohort
// annotations.
func (e *Engine) BuildChart(a *norms.Assessment) norms.ChartPayload {
	payload := norms.ChartPayload{
		YMin:     chartYMin,
		YMax:     chartYMax,
		TickStep: 1,
		RefLines: []norms.RefLine{
			{Z: impairmentCutoff, Style: norms.LineDashed, Color: cutoffColor, Width: 2, Label: "impairment cutoff"},
			{Z: -1, Style: norms.LineDotted, Color: guideColor, Width: 1},
			{Z: 0, Style: norms.LineSolid, Color: zeroColor, Width: 0.5},
			{Z: 1, Style: norms.LineDotted, Color: guideColor, Width: 1},
			{Z: 2, Style: norms.LineDotted, Color: guideColor, Width: 1},
		},
	}

	for _, s := range a.Scores {
		payload.Bars = append(payload.Bars, norms.Bar{
			Label:   s.Metric.String(),
			Z:       s.Z,
			Band:    s.Band,
			Fill:    barFill,
			Outline: barOutline,
			Width:   barWidth,
		})
		if s.Z-1 < payload.YMin {
			payload.YMin = math.Floor(s.Z - 1)
		}
		if s.Z+1 > payload.YMax {
			payload.YMax = math.Ceil(s.Z + 1)
		}
	}

	payload.Annotations = []string{
		fmt.Sprintf("N = %d", a.CohortSize),
		fmt.Sprintf("Age range: %s", a.Filter.Age),
		fmt.Sprintf("IQ range: %s", a.Filter.IQ),
	}

	return payload
}
