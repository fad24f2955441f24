package supabase

import (
	"context"
	"log/slog"

	"github.com/VigyanShaala-Tech/graphy-assignment-scraper/lib/tabular"
)

// BatchResult records the outcome of one insert batch. The slice of
// results covers every row of the table exactly once, in order,
// whether or not its batch succeeded.
type BatchResult struct {
	Start int
	Count int
	Err   error
}

// UploadTable pushes a table into the named sink table in consecutive
// batches of batchSize rows. A failed batch is logged and skipped, the
// remaining batches are still attempted; partial uploads are a normal
// outcome, not an error. Duplicate column names collapse to their
// first occurrence before anything is sent.
func (c *Client) UploadTable(ctx context.Context, table string, t *tabular.Table, batchSize int) []BatchResult {
	if batchSize <= 0 {
		batchSize = 50
	}
	collapsed := t.CollapseDuplicateColumns()
	records := collapsed.Records()

	var results []BatchResult
	for start := 0; start < len(records); start += batchSize {
		end := min(start+batchSize, len(records))
		err := c.Insert(ctx, table, records[start:end])
		results = append(results, BatchResult{
			Start: start,
			Count: end - start,
			Err:   err,
		})
		if err != nil {
			slog.ErrorContext(
				ctx, "insert batch failed",
				"table", table,
				"start", start,
				"count", end-start,
				"err", err,
			)
			continue
		}
		slog.InfoContext(
			ctx, "inserted batch",
			"table", table,
			"start", start,
			"count", end-start,
		)
	}
	return results
}
