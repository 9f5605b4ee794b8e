package excel

import (
	"context"

	"normscope/domain/cohort"
	"normscope/domain/core"
	"normscope/internal"
	"normscope/internal/errors"
)

// Loader turns a spreadsheet into an immutable cohort.Table: it locates the
// schema's required columns, drops rows whose age or IQ is missing or
// non-numeric, and coerces every other column to a numeric metric with NaN
// for unparseable cells. It implements ports.TableLoader.
type Loader struct {
	sheet  string
	schema cohort.Schema
	log    *internal.Logger
}

// NewLoader builds a Loader for a sheet name and column schema
func NewLoader(sheet string, schema cohort.Schema) *Loader {
	return &Loader{
		sheet:  sheet,
		schema: schema,
		log:    internal.DefaultLogger.Named("loader"),
	}
}

// Load reads the file at path into a Table. Runs once at startup; the
// returned Table is shared read-only by every later computation.
func (l *Loader) Load(ctx context.Context, path string) (*cohort.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := l.schema.Validate(); err != nil {
		return nil, errors.WithCode(errors.CodeLoadError, err)
	}

	raw, fingerprint, err := NewDataReader(path, l.sheet).ReadData()
	if err != nil {
		return nil, err
	}

	if err := l.requireColumns(raw); err != nil {
		return nil, err
	}

	metricKeys := l.metricKeys(raw.Headers)
	if len(metricKeys) == 0 {
		return nil, errors.LoadError("no metric columns found beyond the schema's reserved columns")
	}

	records, dropped := l.buildRecords(raw, metricKeys)
	if len(records) == 0 {
		return nil, errors.LoadErrorf("no usable rows: all %d rows lack a numeric %s or %s",
			dropped, l.schema.AgeColumn, l.schema.IQColumn)
	}

	table, err := cohort.NewTable(path, fingerprint, metricKeys, records)
	if err != nil {
		return nil, errors.WithCode(errors.CodeLoadError, err)
	}

	if dropped > 0 {
		l.log.Warn("dropped %d of %d rows missing %s or %s",
			dropped, len(raw.Rows), l.schema.AgeColumn, l.schema.IQColumn)
	}
	l.log.Info("loaded %s: %d records, %d metrics, fingerprint %s",
		path, table.RowCount(), len(metricKeys), table.Fingerprint.Short())

	return table, nil
}

func (l *Loader) requireColumns(raw *RawTable) error {
	present := make(map[string]bool, len(raw.Headers))
	for _, h := range raw.Headers {
		present[h] = true
	}
	for _, required := range []string{l.schema.AgeColumn, l.schema.IQColumn} {
		if !present[required] {
			return errors.LoadErrorf("required column %q missing from header", required)
		}
	}
	return nil
}

// metricKeys returns every non-reserved, non-empty header in source order
func (l *Loader) metricKeys(headers []string) []core.MetricKey {
	keys := make([]core.MetricKey, 0, len(headers))
	for _, h := range headers {
		if h == "" || l.schema.IsReserved(h) {
			continue
		}
		keys = append(keys, core.MetricKey(h))
	}
	return keys
}

func (l *Loader) buildRecords(raw *RawTable, metricKeys []core.MetricKey) ([]cohort.Record, int) {
	records := make([]cohort.Record, 0, len(raw.Rows))
	dropped := 0

	for _, row := range raw.Rows {
		age, ageOK := parseCell(row[l.schema.AgeColumn])
		iq, iqOK := parseCell(row[l.schema.IQColumn])
		if !ageOK || !iqOK {
			dropped++
			continue
		}

		metrics := make(map[core.MetricKey]float64, len(metricKeys))
		for _, key := range metricKeys {
			if v, ok := parseCell(row[key.String()]); ok {
				metrics[key] = v
			}
		}

		records = append(records, cohort.Record{
			ID:      row[l.schema.IDColumn],
			Age:     age,
			IQ:      iq,
			Metrics: metrics,
		})
	}

	return records, dropped
}
