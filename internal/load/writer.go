package load

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/cleanr/internal/table"
)

// ErrWriteFailure reports that the output file could not be persisted.
// The file may be partially written; callers must treat it as failed
// output.
var ErrWriteFailure = errors.New("failed to write output")

// WriteOptions controls output rendering.
type WriteOptions struct {
	// Encoding names the output charset; empty means UTF-8.
	Encoding string
	// FloatPrecision fixes float columns to this many decimal places
	// when non-negative.
	FloatPrecision int
}

// WriteTable writes the table as delimited text. Missing cells render as
// empty fields and parent directories are created as needed.
func WriteTable(path string, t *table.Table, opts WriteOptions) error {
	cs := charset{"utf-8", nil}
	if opts.Encoding != "" {
		var err error
		cs, err = lookupCharset(opts.Encoding)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrWriteFailure, err)
		}
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteFailure, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}

	var out io.Writer = f
	if cs.codec != nil {
		out = cs.codec.NewEncoder().Writer(f)
	}

	if opts.FloatPrecision >= 0 {
		for _, c := range t.Columns() {
			if fc, ok := c.(*table.FloatColumn); ok {
				fc.SetPrecision(opts.FloatPrecision)
			}
		}
	}

	w := csv.NewWriter(out)
	if err := w.Write(t.Names()); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}

	rows := t.NumRows()
	record := make([]string, t.NumCols())
	for i := 0; i < rows; i++ {
		for j, c := range t.Columns() {
			record[j] = c.String(i)
		}
		if err := w.Write(record); err != nil {
			_ = f.Close()
			return fmt.Errorf("%w: %v", ErrWriteFailure, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	return nil
}
