package ledger

import (
	"context"
	"fmt"
)

type Sink interface {
	Append(ctx context.Context, rng string, rows [][]interface{}) error
}

// Writer appends rows to the log tab in one batch. Whatever atomicity the sink gives is all there is.
type Writer struct {
	sink Sink
	rng  string
}

func NewWriter(sink Sink, sheet string) *Writer {
	return &Writer{sink: sink, rng: sheet + "!A:F"}
}

func (w *Writer) Append(ctx context.Context, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	values := make([][]interface{}, len(rows))
	for i, r := range rows {
		values[i] = r.Values()
	}
	if err := w.sink.Append(ctx, w.rng, values); err != nil {
		return fmt.Errorf("append %d ledger rows: %w", len(rows), err)
	}
	return nil
}
