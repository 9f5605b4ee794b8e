package ui

import "normscope/domain/core"

// batteryDefaults are the JEF battery's stock observed values. They seed the
// dashboard form and any assessment request that arrives without
// observations.
var batteryDefaults = map[core.MetricKey]float64{
	"PL":   50,
	"PR":   100,
	"ST":   50,
	"CT":   25,
	"AT":   0,
	"EBPM": 25,
	"ABPM": 75,
	"TBPM": 50,
	"AVG":  46.9,
}

// defaultObservations returns the stock observed values for the metric
// columns actually present in the table.
func defaultObservations(keys []core.MetricKey) map[core.MetricKey]float64 {
	obs := make(map[core.MetricKey]float64)
	for _, k := range keys {
		if v, ok := batteryDefaults[k]; ok {
			obs[k] = v
		}
	}
	return obs
}
