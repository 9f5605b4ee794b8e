package ui

import "net/http"

// handleAPISummary returns the cohort statistics for one metric as JSON.
// Query: metric, age_min, age_max, iq_min, iq_max (blank = default).
func (a *App) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	filter, err := a.parseFilter(r)
	if err != nil {
		writeJSONError(w, err)
		return
	}
	metric, err := parseMetricParam(r)
	if err != nil {
		writeJSONError(w, err)
		return
	}

	summary, err := a.summarize(r.Context(), filter, metric)
	if err != nil {
		writeJSONError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleAPIScore z-scores one observed value. Query: summary params plus
// observed.
func (a *App) handleAPIScore(w http.ResponseWriter, r *http.Request) {
	filter, err := a.parseFilter(r)
	if err != nil {
		writeJSONError(w, err)
		return
	}
	metric, err := parseMetricParam(r)
	if err != nil {
		writeJSONError(w, err)
		return
	}
	observed, err := parseObservedParam(r)
	if err != nil {
		writeJSONError(w, err)
		return
	}

	score, err := a.scoreOne(r.Context(), filter, metric, observed)
	if err != nil {
		writeJSONError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, score)
}

// handleAPIAssessment runs the full battery and returns the assessment with
// its chart payload. Observations come from obs_<METRIC> params, falling
// back to the battery defaults.
func (a *App) handleAPIAssessment(w http.ResponseWriter, r *http.Request) {
	filter, err := a.parseFilter(r)
	if err != nil {
		writeJSONError(w, err)
		return
	}
	obs, err := a.parseObservations(r)
	if err != nil {
		writeJSONError(w, err)
		return
	}
	if len(obs) == 0 {
		obs = defaultObservations(a.table.MetricKeys())
	}

	assessment, err := a.recompute(r.Context(), filter, obs)
	if err != nil {
		writeJSONError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"assessment": assessment,
		"chart":      a.assessor.BuildChart(assessment),
	})
}
