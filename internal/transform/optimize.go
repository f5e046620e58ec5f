package transform

import (
	"math"

	"github.com/leapstack-labs/cleanr/internal/table"
)

// minRowsForOptimize is the row count below which the narrowing scan is
// not worth its cost.
const minRowsForOptimize = 1000

// categoricalRatio is the distinct-to-rows threshold under which a text
// column is dictionary-encoded.
const categoricalRatio = 0.5

// OptimizeResult reports the memory effect of a type-narrowing pass.
type OptimizeResult struct {
	// BeforeBytes and AfterBytes are the estimated table footprints
	// around the pass.
	BeforeBytes int64
	AfterBytes  int64
	// SavedMB is the non-negative footprint reduction in megabytes,
	// rounded to two decimals.
	SavedMB float64
	// Skipped is true when the pass did not run (quick mode or too few
	// rows).
	Skipped bool
}

// OptimizeTypes narrows column representations without changing any
// logical value: low-cardinality text becomes categorical, integer columns
// shrink to the smallest width covering their observed range (unsigned
// preferred when the minimum is non-negative), and float columns drop to
// float32 only when every value survives the round trip exactly. Columns
// that cannot be narrowed safely are left unchanged.
func OptimizeTypes(t *table.Table, quick bool) OptimizeResult {
	if quick || t.NumRows() < minRowsForOptimize {
		return OptimizeResult{Skipped: true}
	}

	before := t.EstimatedBytes()
	rows := t.NumRows()

	for i, c := range t.Columns() {
		switch col := c.(type) {
		case *table.TextColumn:
			if distinctRatio(col, rows) < categoricalRatio {
				t.ReplaceAt(i, table.Categorize(col))
			}
		case *table.IntColumn:
			if w, ok := narrowestIntWidth(col); ok {
				col.SetWidth(w)
			}
		case *table.FloatColumn:
			if float32Lossless(col) {
				col.SetWidth(table.Float32)
			}
		}
	}

	after := t.EstimatedBytes()
	saved := float64(before-after) / 1e6
	if saved < 0 {
		saved = 0
	}
	return OptimizeResult{
		BeforeBytes: before,
		AfterBytes:  after,
		SavedMB:     math.Round(saved*100) / 100,
	}
}

func distinctRatio(c *table.TextColumn, rows int) float64 {
	if rows == 0 {
		return 1
	}
	distinct := make(map[string]struct{})
	valid := c.Valid()
	for i, v := range c.Values() {
		if valid[i] {
			distinct[v] = struct{}{}
		}
	}
	return float64(len(distinct)) / float64(rows)
}

// narrowestIntWidth picks the smallest width that represents the observed
// minimum and maximum. Returns false for columns with no present values.
func narrowestIntWidth(c *table.IntColumn) (table.IntWidth, bool) {
	valid := c.Valid()
	values := c.Values()

	first := true
	var minVal, maxVal int64
	for i, v := range values {
		if !valid[i] {
			continue
		}
		if first {
			minVal, maxVal = v, v
			first = false
			continue
		}
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if first {
		return 0, false
	}

	if minVal >= 0 {
		switch {
		case maxVal <= math.MaxUint8:
			return table.Uint8, true
		case maxVal <= math.MaxUint16:
			return table.Uint16, true
		case maxVal <= math.MaxUint32:
			return table.Uint32, true
		default:
			return table.Uint64, true
		}
	}

	switch {
	case minVal >= math.MinInt8 && maxVal <= math.MaxInt8:
		return table.Int8, true
	case minVal >= math.MinInt16 && maxVal <= math.MaxInt16:
		return table.Int16, true
	case minVal >= math.MinInt32 && maxVal <= math.MaxInt32:
		return table.Int32, true
	default:
		return table.Int64, true
	}
}

// float32Lossless reports whether every present value round-trips through
// float32 without loss.
func float32Lossless(c *table.FloatColumn) bool {
	valid := c.Valid()
	for i, v := range c.Values() {
		if !valid[i] {
			continue
		}
		if float64(float32(v)) != v {
			return false
		}
	}
	return true
}
