package cohort

import "fmt"

// Schema names the columns the loader must interpret specially. Every header
// not named here is treated as a numeric metric column.
type Schema struct {
	AgeColumn string `json:"age_column"`
	IQColumn  string `json:"iq_column"`
	// IDColumn supplies record identifiers when present in the header;
	// rows fall back to ordinals otherwise.
	IDColumn string `json:"id_column"`
	// DropColumns are bookkeeping fields excluded from the metric set.
	DropColumns []string `json:"drop_columns"`
}

// DefaultSchema matches the assessment battery export this system ships with.
func DefaultSchema() Schema {
	return Schema{
		AgeColumn:   "age",
		IQColumn:    "est_IQ",
		IDColumn:    "participant",
		DropColumns: []string{"experimenter", "study"},
	}
}

// Validate rejects schemas that cannot identify the required fields
func (s Schema) Validate() error {
	if s.AgeColumn == "" {
		return fmt.Errorf("schema: age column name cannot be empty")
	}
	if s.IQColumn == "" {
		return fmt.Errorf("schema: iq column name cannot be empty")
	}
	if s.AgeColumn == s.IQColumn {
		return fmt.Errorf("schema: age and iq columns must differ")
	}
	return nil
}

// IsReserved reports whether a header is consumed by the schema rather than
// treated as a metric.
func (s Schema) IsReserved(header string) bool {
	if header == s.AgeColumn || header == s.IQColumn || (s.IDColumn != "" && header == s.IDColumn) {
		return true
	}
	for _, drop := range s.DropColumns {
		if header == drop {
			return true
		}
	}
	return false
}
