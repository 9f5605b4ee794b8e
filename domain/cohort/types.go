package cohort

import (
	"fmt"
	"math"

	"normscope/domain/core"
)

// Record is one row of the source table: a participant identifier, the two
// demographic fields every statistic filters on, and the metric scores.
// Missing metric values are NaN.
type Record struct {
	ID      string
	Age     float64
	IQ      float64
	Metrics map[core.MetricKey]float64
}

// Metric returns the record's value for a metric key, NaN when absent.
func (r Record) Metric(key core.MetricKey) float64 {
	v, ok := r.Metrics[key]
	if !ok {
		return math.NaN()
	}
	return v
}

// Table is the canonical data object for all statistical computation.
// It is immutable after construction: filtering produces a new derived Table,
// and accessors return copies. Age and IQ are always present and finite for
// every row; metric cells may be NaN (missing).
type Table struct {
	ID          core.DatasetID
	Source      string
	Fingerprint core.DatasetHash
	LoadedAt    core.Timestamp

	metricKeys []core.MetricKey
	recordIDs  []string
	ages       []float64
	iqs        []float64
	data       [][]float64 // rows=records, cols=metricKeys, NaN=missing
}

// NewTable builds an immutable Table from loader output. Records with a
// missing or non-finite age or IQ are rejected: the loader must have dropped
// them already.
func NewTable(source string, fingerprint core.DatasetHash, metricKeys []core.MetricKey, records []Record) (*Table, error) {
	if len(metricKeys) == 0 {
		return nil, fmt.Errorf("table needs at least one metric column")
	}
	seen := make(map[core.MetricKey]bool, len(metricKeys))
	for _, key := range metricKeys {
		if key == "" {
			return nil, fmt.Errorf("metric key cannot be empty")
		}
		if seen[key] {
			return nil, fmt.Errorf("duplicate metric column %q", key)
		}
		seen[key] = true
	}

	t := &Table{
		ID:          core.NewDatasetID(),
		Source:      source,
		Fingerprint: fingerprint,
		LoadedAt:    core.Now(),
		metricKeys:  append([]core.MetricKey(nil), metricKeys...),
		recordIDs:   make([]string, 0, len(records)),
		ages:        make([]float64, 0, len(records)),
		iqs:         make([]float64, 0, len(records)),
		data:        make([][]float64, 0, len(records)),
	}

	for i, rec := range records {
		if !isFinite(rec.Age) || !isFinite(rec.IQ) {
			return nil, fmt.Errorf("record %d (%s): age and IQ must be finite numbers", i, rec.ID)
		}
		id := rec.ID
		if id == "" {
			id = fmt.Sprintf("row-%d", i+1)
		}
		row := make([]float64, len(t.metricKeys))
		for c, key := range t.metricKeys {
			row[c] = rec.Metric(key)
		}
		t.recordIDs = append(t.recordIDs, id)
		t.ages = append(t.ages, rec.Age)
		t.iqs = append(t.iqs, rec.IQ)
		t.data = append(t.data, row)
	}

	return t, nil
}

// RowCount returns the number of records
func (t *Table) RowCount() int {
	return len(t.data)
}

// MetricKeys returns the metric columns in source order
func (t *Table) MetricKeys() []core.MetricKey {
	return append([]core.MetricKey(nil), t.metricKeys...)
}

// HasMetric reports whether a metric column exists
func (t *Table) HasMetric(key core.MetricKey) bool {
	_, ok := t.columnIndex(key)
	return ok
}

// MetricColumn returns a copy of one metric column (NaN for missing cells)
func (t *Table) MetricColumn(key core.MetricKey) ([]float64, bool) {
	col, ok := t.columnIndex(key)
	if !ok {
		return nil, false
	}
	out := make([]float64, len(t.data))
	for i, row := range t.data {
		out[i] = row[col]
	}
	return out, true
}

// Record returns a copy of row i
func (t *Table) Record(i int) Record {
	metrics := make(map[core.MetricKey]float64, len(t.metricKeys))
	for c, key := range t.metricKeys {
		metrics[key] = t.data[i][c]
	}
	return Record{
		ID:      t.recordIDs[i],
		Age:     t.ages[i],
		IQ:      t.iqs[i],
		Metrics: metrics,
	}
}

// Select returns a new derived Table containing the records whose age and IQ
// both lie within the filter's inclusive bounds. The receiver is untouched.
func (t *Table) Select(f Filter) *Table {
	derived := &Table{
		ID:          t.ID,
		Source:      t.Source,
		Fingerprint: t.Fingerprint,
		LoadedAt:    t.LoadedAt,
		metricKeys:  append([]core.MetricKey(nil), t.metricKeys...),
	}
	for i := range t.data {
		if !f.Age.Contains(t.ages[i]) || !f.IQ.Contains(t.iqs[i]) {
			continue
		}
		derived.recordIDs = append(derived.recordIDs, t.recordIDs[i])
		derived.ages = append(derived.ages, t.ages[i])
		derived.iqs = append(derived.iqs, t.iqs[i])
		derived.data = append(derived.data, append([]float64(nil), t.data[i]...))
	}
	return derived
}

// AgeBounds returns the min and max age across all records, or (0, 0) when empty.
func (t *Table) AgeBounds() (float64, float64) {
	return bounds(t.ages)
}

// IQBounds returns the min and max IQ across all records, or (0, 0) when empty.
func (t *Table) IQBounds() (float64, float64) {
	return bounds(t.iqs)
}

// Validate ensures the table is internally consistent
func (t *Table) Validate() error {
	rowCount := len(t.data)
	if len(t.recordIDs) != rowCount || len(t.ages) != rowCount || len(t.iqs) != rowCount {
		return fmt.Errorf("table row bookkeeping out of sync")
	}
	colCount := len(t.metricKeys)
	for i, row := range t.data {
		if len(row) != colCount {
			return fmt.Errorf("row %d has %d columns, expected %d", i, len(row), colCount)
		}
	}
	for i := range t.ages {
		if !isFinite(t.ages[i]) || !isFinite(t.iqs[i]) {
			return fmt.Errorf("row %d has non-finite age or IQ", i)
		}
	}
	return nil
}

func (t *Table) columnIndex(key core.MetricKey) (int, bool) {
	for i, k := range t.metricKeys {
		if k == key {
			return i, true
		}
	}
	return -1, false
}

func bounds(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
