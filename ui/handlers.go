package ui

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"normscope/domain/cohort"
	"normscope/domain/core"
	"normscope/domain/norms"
	"normscope/internal/report"
)

// pageView feeds index.html.
type pageView struct {
	Title   string
	Source  string
	Records int
	Filter  cohort.Filter
	Metrics []metricField
	Results *resultsView
}

// metricField is one observed-value input on the form. Observed is the
// pre-filled string value; blank means the construct is not assessed.
type metricField struct {
	Key      string
	Observed string
}

// resultsView feeds fragments/results.html.
type resultsView struct {
	Assessment *norms.Assessment
	Chart      chartView
	HasChart   bool
	Warning    string
}

// handleIndex renders the dashboard with an assessment of the default
// filter and the battery's stock observed values.
func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	obs := defaultObservations(a.table.MetricKeys())

	assessment, err := a.recompute(r.Context(), a.defaults, obs)
	results := a.buildResults(assessment, err)

	a.renderTemplate(w, "index.html", a.buildPage(a.defaults, obs, results))
}

// handleAssess recomputes the assessment from posted parameters. HTMX
// requests get the results fragment; everything else gets the full page.
// Validation failures answer 422 with a warning banner so the client keeps
// its previous results.
func (a *App) handleAssess(w http.ResponseWriter, r *http.Request) {
	filter, err := a.parseFilter(r)
	if err != nil {
		a.renderWarning(w, r, err)
		return
	}
	obs, err := a.parseObservations(r)
	if err != nil {
		a.renderWarning(w, r, err)
		return
	}
	if len(obs) == 0 {
		obs = defaultObservations(a.table.MetricKeys())
	}

	assessment, err := a.recompute(r.Context(), filter, obs)
	if err != nil {
		a.renderWarning(w, r, err)
		return
	}

	results := a.buildResults(assessment, nil)
	if isHTMX(r) {
		a.renderTemplate(w, "results.html", results)
		return
	}
	a.renderTemplate(w, "index.html", a.buildPage(filter, obs, results))
}

// handleReport renders the interpretation report as HTML. With no query
// parameters it reuses the last computed assessment.
func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	assessment, err := a.reportAssessment(r)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	md := report.Markdown(assessment, a.assessor.Bands())
	a.renderTemplate(w, "report.html", map[string]interface{}{
		"Title": "Assessment Report",
		"Body":  template.HTML(report.HTML(md)),
	})
}

// handleReportDownload serves the same report as a markdown attachment.
func (a *App) handleReportDownload(w http.ResponseWriter, r *http.Request) {
	assessment, err := a.reportAssessment(r)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	md := report.Markdown(assessment, a.assessor.Bands())
	filename := fmt.Sprintf("assessment_%s.md", assessment.ID.String())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(md))
}

func (a *App) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"source":      a.table.Source,
		"fingerprint": a.table.Fingerprint.Short(),
		"records":     a.table.RowCount(),
	})
}

// reportAssessment picks the assessment a report route should describe:
// the last computed one when the request carries no parameters, otherwise
// a fresh recompute from the supplied parameters.
func (a *App) reportAssessment(r *http.Request) (*norms.Assessment, error) {
	if r.URL.RawQuery == "" {
		last, err := a.lastAssessment(r.Context())
		if err != nil {
			return nil, err
		}
		if last != nil {
			return last, nil
		}
	}

	filter, err := a.parseFilter(r)
	if err != nil {
		return nil, err
	}
	obs, err := a.parseObservations(r)
	if err != nil {
		return nil, err
	}
	if len(obs) == 0 {
		obs = defaultObservations(a.table.MetricKeys())
	}
	return a.recompute(r.Context(), filter, obs)
}

func (a *App) buildResults(assessment *norms.Assessment, err error) *resultsView {
	rv := &resultsView{Assessment: assessment}
	if err != nil {
		rv.Warning = err.Error()
		return rv
	}
	if assessment != nil && len(assessment.Scores) > 0 {
		rv.Chart = buildChartView(a.assessor.BuildChart(assessment))
		rv.HasChart = true
	}
	return rv
}

func (a *App) buildPage(filter cohort.Filter, obs map[core.MetricKey]float64, results *resultsView) pageView {
	metrics := make([]metricField, 0, len(a.table.MetricKeys()))
	for _, key := range a.table.MetricKeys() {
		field := metricField{Key: key.String()}
		if v, ok := obs[key]; ok {
			field.Observed = strconv.FormatFloat(v, 'g', -1, 64)
		}
		metrics = append(metrics, field)
	}
	return pageView{
		Title:   "normscope",
		Source:  a.table.Source,
		Records: a.table.RowCount(),
		Filter:  filter,
		Metrics: metrics,
		Results: results,
	}
}

// renderWarning answers a failed recompute: 422 for validation problems,
// as a bare banner fragment for HTMX and a full page otherwise.
func (a *App) renderWarning(w http.ResponseWriter, r *http.Request, err error) {
	a.log.Warn("assess: %v", err)
	status := statusFor(err)
	if isHTMX(r) {
		a.renderTemplateStatus(w, status, "warning.html", err.Error())
		return
	}
	results := &resultsView{Warning: err.Error()}
	obs := defaultObservations(a.table.MetricKeys())
	page := a.buildPage(a.defaults, obs, results)
	a.renderTemplateStatus(w, status, "index.html", page)
}
