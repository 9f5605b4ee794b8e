package ports

import (
	"context"

	"normscope/domain/cohort"
)

// TableLoader reads a spreadsheet into an immutable cohort table. It runs
// once at startup; every later computation shares the table it returns.
//
// Implementations fail with an errors.CodeLoadError AppError when the file is
// missing or unreadable, has no header row, or lacks the schema's required
// age/IQ columns. Rows missing age or IQ are dropped; non-numeric metric
// cells become missing values rather than errors.
type TableLoader interface {
	Load(ctx context.Context, path string) (*cohort.Table, error)
}
