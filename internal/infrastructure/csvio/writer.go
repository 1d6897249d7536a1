package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Writer emits header-first CSV with a fixed column order
type Writer struct {
	headers []string
	w       *csv.Writer
	started bool
}

// NewWriter creates a Writer that will emit the given header row before
// the first record.
func NewWriter(w io.Writer, headers []string) *Writer {
	return &Writer{
		headers: headers,
		w:       csv.NewWriter(w),
	}
}

// WriteRecord writes one record, emitting the header row first if this
// is the first write. Records shorter than the header are padded with
// empty fields.
func (w *Writer) WriteRecord(fields []string) error {
	if !w.started {
		if err := w.w.Write(w.headers); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		w.started = true
	}
	if len(fields) < len(w.headers) {
		padded := make([]string, len(w.headers))
		copy(padded, fields)
		fields = padded
	}
	return w.w.Write(fields)
}

// Flush writes any buffered data and reports the first write error
func (w *Writer) Flush() error {
	if !w.started {
		if err := w.w.Write(w.headers); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		w.started = true
	}
	w.w.Flush()
	return w.w.Error()
}
