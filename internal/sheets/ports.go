package sheets

import (
	"context"

	"autospese/internal/core"
)

// RowReader is the outbound port of the exporter: it pulls the raw,
// loosely-typed spreadsheet rows that a snapshot regeneration starts
// from. Implementations do not interpret the rows; normalization is the
// engine's job.
type RowReader interface {
	ReadRows(ctx context.Context) ([]core.RawRecord, error)
}
