package excel

import (
	"math"
	"strconv"
	"strings"
)

// parseCell coerces one spreadsheet cell to a finite float64. The second
// return is false for anything that should be treated as missing: empty
// cells, non-numeric text, and non-finite parses (NaN, Inf).
func parseCell(raw string) (float64, bool) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		// Tolerate thousands separators: "1,234.5"
		retry := strings.ReplaceAll(cleaned, ",", "")
		v, err = strconv.ParseFloat(retry, 64)
		if err != nil {
			return 0, false
		}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
