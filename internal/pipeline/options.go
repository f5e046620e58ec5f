package pipeline

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/cleanr/internal/transform"
)

// ErrInvalidOptions reports mutually exclusive options set together.
var ErrInvalidOptions = errors.New("invalid option combination")

// Options is the full configuration surface of one cleaning run. It is
// assembled by the CLI layer and consumed read-only by the pipeline.
type Options struct {
	// InputPath is the delimited text file to clean.
	InputPath string
	// OutputPath is where the cleaned table is written.
	OutputPath string

	// Encoding forces a single input encoding instead of the fallback
	// list. Empty enables auto-detection.
	Encoding string
	// OutputEncoding names the output charset; empty means UTF-8.
	OutputEncoding string
	// Quick skips type inference on load and type narrowing at the end.
	Quick bool
	// ChunkSize batches the parse into fixed-size row groups when
	// positive.
	ChunkSize int

	// Normalize rewrites headers to canonical snake_case identifiers.
	Normalize bool
	// Trim strips surrounding whitespace from text cells.
	Trim bool
	// Dedup removes exact-duplicate rows.
	Dedup bool

	// FillValue, when non-nil, replaces every missing cell with the
	// literal. Mutually exclusive with DropMissing.
	FillValue *string
	// DropMissing removes rows containing at least one missing cell.
	DropMissing bool

	// Keep retains only the named columns, in this order. Mutually
	// exclusive with Drop.
	Keep []string
	// Drop removes the named columns where present.
	Drop []string

	// Splits are applied in order after column selection.
	Splits []transform.SplitRequest
	// Adds creates columns as copies of existing ones, in order.
	Adds []transform.ColumnCopy
	// Renames maps old column names to new ones, all-or-nothing.
	Renames map[string]string

	// FloatPrecision fixes float output to this many decimal places
	// when non-negative.
	FloatPrecision int
}

// Validate rejects option combinations the pipeline cannot honor.
func (o *Options) Validate() error {
	if o.FillValue != nil && o.DropMissing {
		return fmt.Errorf("%w: fill and drop-na are mutually exclusive", ErrInvalidOptions)
	}
	if len(o.Keep) > 0 && len(o.Drop) > 0 {
		return fmt.Errorf("%w: keep and drop are mutually exclusive", ErrInvalidOptions)
	}
	return nil
}
