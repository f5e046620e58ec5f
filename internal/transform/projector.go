package transform

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/leapstack-labs/cleanr/internal/table"
)

// ErrColumnNotFound is returned when a split, add, or rename references a
// column that is not in the table.
var ErrColumnNotFound = errors.New("column not found")

// SplitRequest describes one column-split operation.
type SplitRequest struct {
	// Column is the source column to split.
	Column string
	// Into names the destination columns, in order.
	Into []string
	// Delimiter separates the parts within each cell.
	Delimiter string
}

// ColumnCopy describes one derived column: a positional copy of Source
// stored under Name.
type ColumnCopy struct {
	Name   string
	Source string
}

// SelectColumns applies keep or drop projection. Keep retains only the
// named columns in the caller's order; names absent from the table are
// returned as warnings and skipped. Drop removes named columns where
// present. The caller guarantees keep and drop are not both set.
func SelectColumns(t *table.Table, keep, drop []string) []string {
	if len(keep) > 0 {
		var available, missing []string
		for _, name := range keep {
			if t.Has(name) {
				available = append(available, name)
			} else {
				missing = append(missing, name)
			}
		}
		// Available names exist by construction, Project cannot fail.
		_ = t.Project(available)

		var warnings []string
		if len(missing) > 0 {
			warnings = append(warnings, fmt.Sprintf("columns not found and skipped: %s", strings.Join(missing, ", ")))
		}
		return warnings
	}

	if len(drop) > 0 {
		t.Drop(drop)
	}
	return nil
}

// SplitColumn splits each cell of the source column on the delimiter into
// at most len(req.Into) parts; occurrences of the delimiter beyond that
// remain in the last part. Destination positions with no corresponding
// part receive a missing cell, as do rows whose source cell is missing.
func SplitColumn(t *table.Table, req SplitRequest) error {
	src, ok := t.Column(req.Column)
	if !ok {
		return fmt.Errorf("%w: %q (split)", ErrColumnNotFound, req.Column)
	}

	n := len(req.Into)
	rows := t.NumRows()

	values := make([][]string, n)
	valid := make([][]bool, n)
	for j := 0; j < n; j++ {
		values[j] = make([]string, rows)
		valid[j] = make([]bool, rows)
	}

	for i := 0; i < rows; i++ {
		if src.Missing(i) {
			continue
		}
		parts := strings.SplitN(src.String(i), req.Delimiter, n)
		for j, part := range parts {
			values[j][i] = part
			valid[j][i] = true
		}
	}

	for j, name := range req.Into {
		col := table.NewTextColumn(name, values[j], valid[j])
		if t.Has(name) {
			// Overwrite an existing column of the same name in place.
			for i, existing := range t.Columns() {
				if existing.Name() == name {
					t.ReplaceAt(i, col)
					break
				}
			}
			continue
		}
		if err := t.Append(col); err != nil {
			return err
		}
	}
	return nil
}

// AddColumns appends each requested copy in order. A later copy may read a
// column created by an earlier one in the same batch.
func AddColumns(t *table.Table, copies []ColumnCopy) error {
	for _, cp := range copies {
		src, ok := t.Column(cp.Source)
		if !ok {
			return fmt.Errorf("%w: source %q (cannot create %q)", ErrColumnNotFound, cp.Source, cp.Name)
		}
		col := src.Clone(cp.Name)
		if t.Has(cp.Name) {
			for i, existing := range t.Columns() {
				if existing.Name() == cp.Name {
					t.ReplaceAt(i, col)
					break
				}
			}
			continue
		}
		if err := t.Append(col); err != nil {
			return err
		}
	}
	return nil
}

// RenameColumns applies an old-to-new name mapping all-or-nothing: if any
// old name is absent the table is left untouched and the error names every
// missing column.
func RenameColumns(t *table.Table, renames map[string]string) error {
	var missing []string
	for oldName := range renames {
		if !t.Has(oldName) {
			missing = append(missing, oldName)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: %s (rename)", ErrColumnNotFound, strings.Join(missing, ", "))
	}

	// Apply simultaneously so chains like a->b, b->c cannot collide
	// mid-flight regardless of map order.
	names := t.Names()
	for i, name := range names {
		if newName, ok := renames[name]; ok {
			names[i] = newName
		}
	}
	return t.SetNames(names)
}
