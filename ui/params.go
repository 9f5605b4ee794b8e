package ui

import (
	"encoding/json"
	"net/http"
	"strconv"

	"normscope/domain/cohort"
	"normscope/domain/core"
	"normscope/internal/errors"
)

// parseFilter reads age_min/age_max/iq_min/iq_max from the request, falling
// back to the dashboard defaults for fields left blank.
func (a *App) parseFilter(r *http.Request) (cohort.Filter, error) {
	f := a.defaults

	fields := []struct {
		name   string
		target *float64
	}{
		{"age_min", &f.Age.Min},
		{"age_max", &f.Age.Max},
		{"iq_min", &f.IQ.Min},
		{"iq_max", &f.IQ.Max},
	}
	for _, field := range fields {
		raw := r.FormValue(field.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return cohort.Filter{}, errors.ValidationErrorf("%s is not a number: %q", field.name, raw)
		}
		*field.target = v
	}

	if err := f.Validate(); err != nil {
		return cohort.Filter{}, errors.ValidationError(err.Error())
	}
	return f, nil
}

// parseObservations reads obs_<METRIC> fields for every metric column the
// table carries. Blank fields mean the construct is not being assessed.
func (a *App) parseObservations(r *http.Request) (map[core.MetricKey]float64, error) {
	obs := make(map[core.MetricKey]float64)
	for _, key := range a.table.MetricKeys() {
		raw := r.FormValue("obs_" + key.String())
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.ValidationErrorf("observed value for %s is not a number: %q", key.String(), raw)
		}
		obs[key] = v
	}
	return obs, nil
}

func parseMetricParam(r *http.Request) (core.MetricKey, error) {
	key, err := core.ParseMetricKey(r.FormValue("metric"))
	if err != nil {
		return "", errors.ValidationError("metric parameter is required")
	}
	return key, nil
}

func parseObservedParam(r *http.Request) (float64, error) {
	raw := r.FormValue("observed")
	if raw == "" {
		return 0, errors.ValidationError("observed parameter is required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.ValidationErrorf("observed is not a number: %q", raw)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]interface{}{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}

func statusFor(err error) int {
	switch {
	case errors.IsValidationError(err):
		return http.StatusUnprocessableEntity
	case errors.IsCode(err, errors.CodeNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
