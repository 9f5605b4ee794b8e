package ui

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"normscope/adapters/stats"
	"normscope/domain/cohort"
	"normscope/domain/core"
	"normscope/domain/norms"
)

const tol = 1e-9

// newTestApp builds the dashboard over a 3-record table whose PL column has
// mean 100 and sample std 15 under the default filter, so observed 115 must
// z-score to exactly 1.0. AT is constant (zero spread) and AVG is {10,20,30}.
func newTestApp(t *testing.T) *App {
	t.Helper()

	records := []cohort.Record{
		{ID: "p01", Age: 25, IQ: 100, Metrics: map[core.MetricKey]float64{"PL": 85, "AT": 30, "AVG": 10}},
		{ID: "p02", Age: 40, IQ: 110, Metrics: map[core.MetricKey]float64{"PL": 100, "AT": 30, "AVG": 20}},
		{ID: "p03", Age: 70, IQ: 95, Metrics: map[core.MetricKey]float64{"PL": 115, "AT": 30, "AVG": 30}},
	}
	table, err := cohort.NewTable("battery.xlsx", core.NewDatasetHash([]byte("ui-fixture")),
		[]core.MetricKey{"PL", "AT", "AVG"}, records)
	require.NoError(t, err)

	engine, err := stats.NewEngine(norms.DefaultBands())
	require.NoError(t, err)

	app, err := NewApp(Config{
		Filter: cohort.Filter{
			Age: cohort.NewRange(18, 120),
			IQ:  cohort.NewRange(70, 180),
		},
	}, table, engine)
	require.NoError(t, err)
	return app
}

func get(t *testing.T, app *App, target string, htmx bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, req)
	return rec
}

func postForm(t *testing.T, app *App, target string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, req)
	return rec
}

func TestIndexRendersDefaultAssessment(t *testing.T) {
	app := newTestApp(t)
	rec := get(t, app, "/", false)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, `name="age_min" value="18"`)
	assert.Contains(t, body, `name="iq_max" value="180"`)
	// stock observed values pre-fill the form
	assert.Contains(t, body, `name="obs_PL" value="50"`)
	assert.Contains(t, body, `name="obs_AVG" value="46.9"`)
	// PL default 50 against mean 100 / std 15 scores deep in the impaired band
	assert.Contains(t, body, "impaired")
	// the constant AT column cannot be scored
	assert.Contains(t, body, "AT: standard deviation is zero")
	// chart renders with the cohort annotations
	assert.Contains(t, body, "svg")
	assert.Contains(t, body, "N = 3")
	assert.Contains(t, body, "Age range: 18 ~ 120")
	assert.Contains(t, body, "IQ range: 70 ~ 180")
}

func TestAssessHTMXFragment(t *testing.T) {
	app := newTestApp(t)
	rec := postForm(t, app, "/assess", url.Values{
		"age_min": {"18"}, "age_max": {"120"},
		"iq_min": {"70"}, "iq_max": {"180"},
		"obs_PL": {"115"},
	}, true)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	// fragment, not a full page
	assert.NotContains(t, body, "<!DOCTYPE html>")
	// observed 115 against mean 100 / std 15 is exactly z = 1.00
	assert.Contains(t, body, "<td>1.00</td>")
	assert.Contains(t, body, "<td>average</td>")
	// only the observed construct is scored
	assert.Contains(t, body, "<td>PL</td>")
	assert.NotContains(t, body, "<td>AVG</td>")
}

func TestAssessFullPageFallback(t *testing.T) {
	app := newTestApp(t)
	rec := postForm(t, app, "/assess", url.Values{"obs_PL": {"70"}}, false)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<!DOCTYPE html>")
	// observed 70 is exactly z = -2.00, on the impaired boundary
	assert.Contains(t, body, "<td>-2.00</td>")
	assert.Contains(t, body, "<td>impaired</td>")
	// posted values survive into the re-rendered form
	assert.Contains(t, body, `name="obs_PL" value="70"`)
}

func TestAssessValidationWarnings(t *testing.T) {
	app := newTestApp(t)

	t.Run("reversed range", func(t *testing.T) {
		rec := postForm(t, app, "/assess", url.Values{
			"age_min": {"50"}, "age_max": {"20"},
		}, true)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), `class="warning"`)
		assert.Contains(t, rec.Body.String(), "age range")
	})

	t.Run("non-numeric bound", func(t *testing.T) {
		rec := postForm(t, app, "/assess", url.Values{"age_min": {"abc"}}, true)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "age_min is not a number")
	})

	t.Run("non-numeric observation", func(t *testing.T) {
		rec := postForm(t, app, "/assess", url.Values{"obs_PL": {"high"}}, true)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "observed value for PL is not a number")
	})

	t.Run("full page keeps 422", func(t *testing.T) {
		rec := postForm(t, app, "/assess", url.Values{"age_min": {"abc"}}, false)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "<!DOCTYPE html>")
	})
}

func TestAPISummary(t *testing.T) {
	app := newTestApp(t)

	rec := get(t, app, "/api/summary?metric=PL", false)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary norms.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 3, summary.Count)
	assert.InDelta(t, 100.0, summary.Mean, tol)
	assert.InDelta(t, 15.0, summary.StdDev, tol)
	assert.Equal(t, core.MetricKey("PL"), summary.Metric)
}

func TestAPISummaryErrors(t *testing.T) {
	app := newTestApp(t)

	t.Run("insufficient data", func(t *testing.T) {
		rec := get(t, app, "/api/summary?metric=PL&age_min=20&age_max=30", false)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "fewer than 2 matching records")
		assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("unknown metric", func(t *testing.T) {
		rec := get(t, app, "/api/summary?metric=BOGUS", false)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "not found")
	})

	t.Run("missing metric", func(t *testing.T) {
		rec := get(t, app, "/api/summary", false)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "metric parameter is required")
	})
}

func TestAPIScore(t *testing.T) {
	app := newTestApp(t)

	rec := get(t, app, "/api/score?metric=PL&observed=115", false)
	require.Equal(t, http.StatusOK, rec.Code)

	var score norms.Score
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &score))
	assert.InDelta(t, 1.0, score.Z, tol)
	assert.Equal(t, "average", score.Band)

	rec = get(t, app, "/api/score?metric=PL&observed=70", false)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &score))
	assert.InDelta(t, -2.0, score.Z, tol)
	assert.Equal(t, "impaired", score.Band)
}

func TestAPIScoreZeroStdDev(t *testing.T) {
	app := newTestApp(t)

	rec := get(t, app, "/api/score?metric=AT&observed=30", false)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "standard deviation is zero")
}

func TestAPIAssessment(t *testing.T) {
	app := newTestApp(t)

	rec := get(t, app, "/api/assessment?obs_PL=115", false)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Assessment norms.Assessment   `json:"assessment"`
		Chart      norms.ChartPayload `json:"chart"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Len(t, resp.Assessment.Scores, 1)
	assert.InDelta(t, 1.0, resp.Assessment.Scores[0].Z, tol)
	assert.Equal(t, 3, resp.Assessment.CohortSize)
	assert.Empty(t, resp.Assessment.Skipped)

	require.Len(t, resp.Chart.RefLines, 5)
	zs := make([]float64, 0, 5)
	for _, l := range resp.Chart.RefLines {
		zs = append(zs, l.Z)
	}
	assert.ElementsMatch(t, []float64{-2, -1, 0, 1, 2}, zs)
}

func TestAPIAssessmentDefaults(t *testing.T) {
	app := newTestApp(t)

	rec := get(t, app, "/api/assessment", false)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Assessment norms.Assessment `json:"assessment"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// stock observations cover PL, AT, AVG; the constant AT column is skipped
	assert.Len(t, resp.Assessment.Scores, 2)
	reason, ok := resp.Assessment.SkipReason(core.MetricKey("AT"))
	require.True(t, ok)
	assert.Equal(t, "standard deviation is zero", reason)
}

func TestAssessIdenticalInputsIdenticalNumbers(t *testing.T) {
	app := newTestApp(t)

	decode := func(rec *httptest.ResponseRecorder) norms.Assessment {
		var resp struct {
			Assessment norms.Assessment `json:"assessment"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp.Assessment
	}

	first := decode(get(t, app, "/api/assessment?obs_PL=115&obs_AVG=25", false))
	second := decode(get(t, app, "/api/assessment?obs_PL=115&obs_AVG=25", false))

	require.Equal(t, len(first.Scores), len(second.Scores))
	for i := range first.Scores {
		assert.Equal(t, first.Scores[i].Metric, second.Scores[i].Metric)
		if math.Abs(first.Scores[i].Z-second.Scores[i].Z) > tol {
			t.Errorf("z for %s drifted between identical requests", first.Scores[i].Metric)
		}
		assert.InDelta(t, first.Scores[i].Percentile, second.Scores[i].Percentile, tol)
	}
}

func TestReportDownload(t *testing.T) {
	app := newTestApp(t)

	rec := get(t, app, "/report.md?obs_PL=115", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	body := rec.Body.String()
	assert.Contains(t, body, "# Normative Assessment Report")
	assert.Contains(t, body, "| PL |")
	assert.Contains(t, body, "## Band Legend")
}

func TestReportHTMLReusesLastAssessment(t *testing.T) {
	app := newTestApp(t)

	// compute once, then request the report with no parameters
	postForm(t, app, "/assess", url.Values{"obs_PL": {"115"}}, true)

	rec := get(t, app, "/report", false)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<h1")
	assert.Contains(t, body, "<table>")
	assert.Contains(t, body, "PL")
}

func TestReportWithoutPriorAssessment(t *testing.T) {
	app := newTestApp(t)

	// no interaction yet: the report computes the defaults itself
	rec := get(t, app, "/report", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Normative Assessment Report")
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)

	rec := get(t, app, "/healthz", false)
	require.Equal(t, http.StatusOK, rec.Code)

	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "battery.xlsx", health["source"])
	assert.Equal(t, float64(3), health["records"])
}
