// Package load resolves delimited text files into in-memory tables and
// writes cleaned tables back out. Reading tries a fixed priority list of
// encodings until one yields a non-empty table.
package load

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/leapstack-labs/cleanr/internal/table"
)

var (
	// ErrNotFound reports a missing input path.
	ErrNotFound = errors.New("input file not found")
	// ErrUnreadableFile reports that no candidate encoding produced a
	// non-empty table.
	ErrUnreadableFile = errors.New("unreadable file")

	errNoRows = errors.New("no data rows")
)

// Options controls how a file is resolved into a table.
type Options struct {
	// Encoding forces a single candidate encoding when non-empty.
	Encoding string
	// Quick keeps every cell as raw text, skipping type inference.
	Quick bool
	// ChunkSize batches the parse into fixed-size row groups when
	// positive. It bounds peak resident rows, not the result.
	ChunkSize int
}

// Result is a successfully loaded table plus load metadata.
type Result struct {
	Table    *table.Table
	Encoding string
	Rows     int
	Columns  int
}

// Loader reads delimited files with encoding fallback.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader. A nil logger discards output.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Loader{logger: logger}
}

// Read resolves the file at path into a table. Candidates are tried in
// fixed priority order (or only the forced encoding); the first one that
// decodes and parses to a non-empty table wins. Rows with the wrong field
// count are skipped, not fatal.
func (l *Loader) Read(path string, opts Options) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableFile, path, err)
	}

	candidates := fallbackCharsets
	if opts.Encoding != "" {
		cs, err := lookupCharset(opts.Encoding)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
		}
		candidates = []charset{cs}
	}

	var lastErr error
	for _, cs := range candidates {
		l.logger.Debug("trying encoding", "encoding", cs.name)

		decoded, err := decodeBytes(cs, data)
		if err != nil {
			lastErr = err
			continue
		}

		t, skipped, err := parseTable(decoded, opts)
		if err != nil {
			lastErr = fmt.Errorf("parse as %s: %w", cs.name, err)
			continue
		}

		l.logger.Debug("file loaded",
			"encoding", cs.name,
			"rows", t.NumRows(),
			"columns", t.NumCols(),
			"skipped_rows", skipped)

		return &Result{
			Table:    t,
			Encoding: cs.name,
			Rows:     t.NumRows(),
			Columns:  t.NumCols(),
		}, nil
	}

	return nil, fmt.Errorf("%w: %s: last error: %v", ErrUnreadableFile, path, lastErr)
}

// parseTable parses decoded text as comma-delimited rows. It returns the
// number of malformed rows skipped alongside the table.
func parseTable(data string, opts Options) (*table.Table, int, error) {
	r := csv.NewReader(strings.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, 0, errNoRows
		}
		return nil, 0, err
	}
	header = mangleDuplicates(header)

	records, skipped, err := readRecords(r, len(header), opts.ChunkSize)
	if err != nil {
		return nil, skipped, err
	}
	if len(records) == 0 {
		return nil, skipped, errNoRows
	}

	cols := make([]table.Column, len(header))
	for j, name := range header {
		raw := make([]string, len(records))
		for i, rec := range records {
			raw[i] = rec[j]
		}
		cols[j] = buildColumn(name, raw, opts.Quick)
	}

	t, err := table.New(cols...)
	if err != nil {
		return nil, skipped, err
	}
	return t, skipped, nil
}

// readRecords consumes all data rows, skipping rows whose field count
// differs from the header. When chunkSize is positive, rows are gathered
// in fixed-size batches and concatenated in file order.
func readRecords(r *csv.Reader, fields, chunkSize int) ([][]string, int, error) {
	var records [][]string
	var batch [][]string
	skipped := 0

	flush := func() {
		if len(batch) > 0 {
			records = append(records, batch...)
			batch = nil
		}
	}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, skipped, err
		}
		if len(rec) != fields {
			skipped++
			continue
		}
		batch = append(batch, rec)
		if chunkSize > 0 && len(batch) >= chunkSize {
			flush()
		}
	}
	flush()

	return records, skipped, nil
}

// buildColumn types a raw column. Empty fields are missing cells. Unless
// quick is set, a column whose present cells all parse as integers becomes
// an integer column, then all-float, otherwise text.
func buildColumn(name string, raw []string, quick bool) table.Column {
	valid := make([]bool, len(raw))
	present := 0
	for i, v := range raw {
		if v != "" {
			valid[i] = true
			present++
		}
	}

	if quick || present == 0 {
		return table.NewTextColumn(name, raw, valid)
	}

	ints := make([]int64, len(raw))
	isInt := true
	for i, v := range raw {
		if !valid[i] {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			isInt = false
			break
		}
		ints[i] = n
	}
	if isInt {
		return table.NewIntColumn(name, ints, valid)
	}

	floats := make([]float64, len(raw))
	isFloat := true
	for i, v := range raw {
		if !valid[i] {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			isFloat = false
			break
		}
		floats[i] = f
	}
	if isFloat {
		return table.NewFloatColumn(name, floats, valid)
	}

	return table.NewTextColumn(name, raw, valid)
}

// mangleDuplicates makes repeated header names unique by suffixing .1, .2
// and so on, so the table invariant holds before normalization runs.
func mangleDuplicates(header []string) []string {
	out := make([]string, len(header))
	taken := make(map[string]bool, len(header))
	for i, name := range header {
		candidate := name
		for n := 1; taken[candidate]; n++ {
			candidate = fmt.Sprintf("%s.%d", name, n)
		}
		taken[candidate] = true
		out[i] = candidate
	}
	return out
}
