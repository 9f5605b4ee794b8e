package excel

// RawRow is one spreadsheet row keyed by trimmed header name
type RawRow map[string]string

// RawTable is the untyped spreadsheet contents: the header row plus every
// data row as strings, before any coercion
type RawTable struct {
	Headers []string
	Rows    []RawRow
}
