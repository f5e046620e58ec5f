package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/cleanr/internal/table"
)

func textTable(t *testing.T, names []string, rows [][]string) *table.Table {
	t.Helper()
	cols := make([]table.Column, len(names))
	for j, name := range names {
		values := make([]string, len(rows))
		valid := make([]bool, len(rows))
		for i, row := range rows {
			values[i] = row[j]
			valid[i] = row[j] != ""
		}
		cols[j] = table.NewTextColumn(name, values, valid)
	}
	tbl, err := table.New(cols...)
	require.NoError(t, err)
	return tbl
}

func TestNormalizeColumns(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "lowercase and separators",
			in:   []string{"First Name", "Last-Name", "order.id"},
			want: []string{"first_name", "last_name", "order_id"},
		},
		{
			name: "specials stripped",
			in:   []string{"Price ($)", "Qty!"},
			want: []string{"price_", "qty"},
		},
		{
			name: "empty and nan headers",
			in:   []string{"", "NaN", "ok"},
			want: []string{"column_1", "column_2", "ok"},
		},
		{
			name: "collisions suffixed positionally",
			in:   []string{"Name", "name", "NAME"},
			want: []string{"name", "name_1", "name_2"},
		},
		{
			name: "all-special header falls back to position",
			in:   []string{"###", "a"},
			want: []string{"column_1", "a"},
		},
		{
			name: "unicode letters kept",
			in:   []string{"Ciudad México"},
			want: []string{"ciudad_méxico"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := make([]string, len(tt.in))
			for i := range row {
				row[i] = "x"
			}
			tbl := textTable(t, tt.in, [][]string{row})
			NormalizeColumns(tbl)
			assert.Equal(t, tt.want, tbl.Names())
		})
	}
}

func TestNormalizeColumns_Idempotent(t *testing.T) {
	tbl := textTable(t, []string{"First Name", "first name", ""}, [][]string{{"a", "b", "c"}})
	NormalizeColumns(tbl)
	once := append([]string(nil), tbl.Names()...)
	NormalizeColumns(tbl)
	assert.Equal(t, once, tbl.Names())
}

func TestTrimWhitespace(t *testing.T) {
	tbl, err := table.New(
		table.NewTextColumn("s", []string{"  hello ", "\tworld\n", "ok"}, nil),
		table.NewIntColumn("n", []int64{1, 2, 3}, nil),
	)
	require.NoError(t, err)

	TrimWhitespace(tbl)

	col, _ := tbl.Column("s")
	assert.Equal(t, "hello", col.String(0))
	assert.Equal(t, "world", col.String(1))
	assert.Equal(t, "ok", col.String(2))
}

func TestTrimWhitespace_SkipsMissing(t *testing.T) {
	tbl, err := table.New(
		table.NewTextColumn("s", []string{" a ", ""}, []bool{true, false}),
	)
	require.NoError(t, err)

	TrimWhitespace(tbl)

	col, _ := tbl.Column("s")
	assert.Equal(t, "a", col.String(0))
	assert.True(t, col.Missing(1))
}
