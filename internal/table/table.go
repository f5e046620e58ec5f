// Package table provides the in-memory columnar table that the cleaning
// pipeline threads through its stages. A Table is an ordered sequence of
// named columns of equal length; column names are unique at all times.
package table

import (
	"fmt"
)

// Table is an ordered collection of uniformly sized columns.
type Table struct {
	cols  []Column
	index map[string]int
}

// New builds a table from the given columns. It fails if column lengths
// differ or a name repeats.
func New(cols ...Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(cols))}
	for _, c := range cols {
		if err := t.Append(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// NumRows returns the shared row count. An empty table has zero rows.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.cols) }

// Columns returns the backing column slice in positional order.
func (t *Table) Columns() []Column { return t.cols }

// Names returns the column names in positional order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name()
	}
	return names
}

// Column looks a column up by name.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// Has reports whether a column with the given name exists.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Append adds a column at the rightmost position.
func (t *Table) Append(c Column) error {
	if len(t.cols) > 0 && c.Len() != t.NumRows() {
		return fmt.Errorf("column %q has %d rows, table has %d", c.Name(), c.Len(), t.NumRows())
	}
	if _, ok := t.index[c.Name()]; ok {
		return fmt.Errorf("duplicate column name %q", c.Name())
	}
	t.index[c.Name()] = len(t.cols)
	t.cols = append(t.cols, c)
	return nil
}

// SetNames renames every column positionally. Names must be unique and
// match the column count.
func (t *Table) SetNames(names []string) error {
	if len(names) != len(t.cols) {
		return fmt.Errorf("got %d names for %d columns", len(names), len(t.cols))
	}
	index := make(map[string]int, len(names))
	for i, name := range names {
		if _, ok := index[name]; ok {
			return fmt.Errorf("duplicate column name %q", name)
		}
		index[name] = i
	}
	for i, name := range names {
		t.cols[i].SetName(name)
	}
	t.index = index
	return nil
}

// Rename changes a single column's name. The caller must ensure the old
// name exists and the new name is unused.
func (t *Table) Rename(oldName, newName string) error {
	i, ok := t.index[oldName]
	if !ok {
		return fmt.Errorf("column %q not found", oldName)
	}
	if _, ok := t.index[newName]; ok && newName != oldName {
		return fmt.Errorf("column %q already exists", newName)
	}
	delete(t.index, oldName)
	t.cols[i].SetName(newName)
	t.index[newName] = i
	return nil
}

// Project keeps only the named columns, in the given order. Every name
// must exist.
func (t *Table) Project(names []string) error {
	cols := make([]Column, 0, len(names))
	index := make(map[string]int, len(names))
	for _, name := range names {
		i, ok := t.index[name]
		if !ok {
			return fmt.Errorf("column %q not found", name)
		}
		if _, dup := index[name]; dup {
			continue
		}
		index[name] = len(cols)
		cols = append(cols, t.cols[i])
	}
	t.cols = cols
	t.index = index
	return nil
}

// Drop removes the named columns where present; absent names are ignored.
func (t *Table) Drop(names []string) {
	drop := make(map[string]bool, len(names))
	for _, name := range names {
		drop[name] = true
	}
	cols := t.cols[:0]
	index := make(map[string]int)
	for _, c := range t.cols {
		if drop[c.Name()] {
			continue
		}
		index[c.Name()] = len(cols)
		cols = append(cols, c)
	}
	t.cols = cols
	t.index = index
}

// ReplaceAt swaps the column at position i, keeping its name slot.
func (t *Table) ReplaceAt(i int, c Column) {
	delete(t.index, t.cols[i].Name())
	t.cols[i] = c
	t.index[c.Name()] = i
}

// SelectRows filters every column to the rows where keep[i] is true.
func (t *Table) SelectRows(keep []bool) {
	for i, c := range t.cols {
		t.cols[i] = c.Select(keep)
	}
}

// EstimatedBytes estimates the table's total in-memory footprint.
func (t *Table) EstimatedBytes() int64 {
	var total int64
	for _, c := range t.cols {
		total += c.EstimatedBytes()
	}
	return total
}
