package transform

import (
	"strings"

	"github.com/leapstack-labs/cleanr/internal/table"
)

// Deduplicate removes rows whose cells all equal an earlier row's cells,
// missing markers included. The first occurrence survives and relative
// order is preserved. Returns the number of rows removed.
func Deduplicate(t *table.Table) int {
	rows := t.NumRows()
	if rows == 0 {
		return 0
	}

	seen := make(map[string]bool, rows)
	keep := make([]bool, rows)
	removed := 0
	var b strings.Builder

	for i := 0; i < rows; i++ {
		b.Reset()
		for _, c := range t.Columns() {
			if c.Missing(i) {
				b.WriteByte(0x01)
			} else {
				b.WriteString(c.String(i))
			}
			b.WriteByte(0x00)
		}
		key := b.String()
		if seen[key] {
			removed++
			continue
		}
		seen[key] = true
		keep[i] = true
	}

	if removed > 0 {
		t.SelectRows(keep)
	}
	return removed
}

// DropMissing removes every row with at least one missing cell and returns
// the number of rows removed.
func DropMissing(t *table.Table) int {
	rows := t.NumRows()
	keep := make([]bool, rows)
	removed := 0

	for i := 0; i < rows; i++ {
		keep[i] = true
		for _, c := range t.Columns() {
			if c.Missing(i) {
				keep[i] = false
				removed++
				break
			}
		}
	}

	if removed > 0 {
		t.SelectRows(keep)
	}
	return removed
}

// FillMissing replaces every missing cell with the given literal text,
// leaving the row count unchanged. Typed columns containing missing cells
// are upcast to text to hold the literal.
func FillMissing(t *table.Table, value string) {
	for i, c := range t.Columns() {
		t.ReplaceAt(i, c.Fill(value))
	}
}
