// Package transform implements the column- and row-level cleaning stages
// applied between load and save: header normalization, duplicate and
// missing-value handling, column projection, and type narrowing.
package transform

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/leapstack-labs/cleanr/internal/table"
)

// NormalizeColumns rewrites every column name to a lowercase identifier of
// alphanumerics and underscores, unique within the table. Empty or "nan"
// headers become column_<position> (1-based). Collisions are resolved in
// positional order by suffixing _1, _2 and so on; running the pass twice
// yields the same names as running it once.
func NormalizeColumns(t *table.Table) {
	seen := make(map[string]bool, t.NumCols())
	names := make([]string, t.NumCols())

	for i, raw := range t.Names() {
		name := normalizeName(raw, i+1)

		base, count := name, 1
		for seen[name] {
			name = fmt.Sprintf("%s_%d", base, count)
			count++
		}
		seen[name] = true
		names[i] = name
	}

	// Names are unique by construction, SetNames cannot fail here.
	_ = t.SetNames(names)
}

func normalizeName(raw string, position int) string {
	name := strings.TrimSpace(raw)
	if name == "" || strings.EqualFold(name, "nan") {
		return fmt.Sprintf("column_%d", position)
	}

	name = strings.ToLower(name)
	replacer := strings.NewReplacer(" ", "_", "-", "_", ".", "_")
	name = replacer.Replace(name)

	var b strings.Builder
	for _, r := range name {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return fmt.Sprintf("column_%d", position)
	}
	return b.String()
}

// TrimWhitespace strips surrounding whitespace from every present cell of
// every text column. Other column kinds are left untouched.
func TrimWhitespace(t *table.Table) {
	for _, c := range t.Columns() {
		tc, ok := c.(*table.TextColumn)
		if !ok {
			continue
		}
		values := tc.Values()
		valid := tc.Valid()
		for i := range values {
			if valid[i] {
				values[i] = strings.TrimSpace(values[i])
			}
		}
	}
}
