package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/cleanr/internal/table"
)

func TestSelectColumns_Keep(t *testing.T) {
	tbl := textTable(t, []string{"a", "b", "c"}, [][]string{{"1", "2", "3"}})

	warnings := SelectColumns(tbl, []string{"c", "a", "ghost"}, nil)

	assert.Equal(t, []string{"c", "a"}, tbl.Names())
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "ghost")
}

func TestSelectColumns_KeepAllRoundTrip(t *testing.T) {
	tbl := textTable(t, []string{"a", "b", "c"}, [][]string{{"1", "2", "3"}})

	warnings := SelectColumns(tbl, tbl.Names(), nil)

	assert.Empty(t, warnings)
	assert.Equal(t, []string{"a", "b", "c"}, tbl.Names())
	for _, name := range tbl.Names() {
		col, ok := tbl.Column(name)
		require.True(t, ok)
		assert.Equal(t, 1, col.Len())
	}
}

func TestSelectColumns_Drop(t *testing.T) {
	tbl := textTable(t, []string{"a", "b"}, [][]string{{"1", "2"}})

	warnings := SelectColumns(tbl, nil, []string{"b", "ghost"})

	assert.Equal(t, []string{"a"}, tbl.Names())
	assert.Empty(t, warnings)
}

func TestSplitColumn(t *testing.T) {
	tbl, err := table.New(
		table.NewTextColumn("full", []string{"a,b,c", "x", ""}, []bool{true, true, false}),
	)
	require.NoError(t, err)

	err = SplitColumn(tbl, SplitRequest{
		Column:    "full",
		Into:      []string{"first", "rest"},
		Delimiter: ",",
	})
	require.NoError(t, err)

	first, _ := tbl.Column("first")
	rest, _ := tbl.Column("rest")

	// Extra delimiters stay in the last part.
	assert.Equal(t, "a", first.String(0))
	assert.Equal(t, "b,c", rest.String(0))

	// Too few parts pad with missing.
	assert.Equal(t, "x", first.String(1))
	assert.True(t, rest.Missing(1))

	// A missing source makes every part missing.
	assert.True(t, first.Missing(2))
	assert.True(t, rest.Missing(2))
}

func TestSplitColumn_SourceMissing(t *testing.T) {
	tbl := textTable(t, []string{"a"}, [][]string{{"x"}})

	err := SplitColumn(tbl, SplitRequest{Column: "ghost", Into: []string{"p"}, Delimiter: ","})
	require.ErrorIs(t, err, ErrColumnNotFound)
}

func TestSplitColumn_OverwritesExisting(t *testing.T) {
	tbl := textTable(t, []string{"full", "first"}, [][]string{{"a-b", "old"}})

	err := SplitColumn(tbl, SplitRequest{Column: "full", Into: []string{"first", "second"}, Delimiter: "-"})
	require.NoError(t, err)

	assert.Equal(t, []string{"full", "first", "second"}, tbl.Names())
	first, _ := tbl.Column("first")
	assert.Equal(t, "a", first.String(0))
}

func TestAddColumns(t *testing.T) {
	tbl := textTable(t, []string{"a"}, [][]string{{"x"}})

	err := AddColumns(tbl, []ColumnCopy{
		{Name: "b", Source: "a"},
		{Name: "c", Source: "b"}, // chains onto the copy made above
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, tbl.Names())
	c, _ := tbl.Column("c")
	assert.Equal(t, "x", c.String(0))
}

func TestAddColumns_SourceMissing(t *testing.T) {
	tbl := textTable(t, []string{"a"}, [][]string{{"x"}})

	err := AddColumns(tbl, []ColumnCopy{{Name: "b", Source: "ghost"}})
	require.ErrorIs(t, err, ErrColumnNotFound)
	assert.Contains(t, err.Error(), "ghost")
}

func TestRenameColumns(t *testing.T) {
	tbl := textTable(t, []string{"a", "b"}, [][]string{{"1", "2"}})

	err := RenameColumns(tbl, map[string]string{"a": "b", "b": "c"})
	require.NoError(t, err)

	// Chained renames apply simultaneously.
	assert.Equal(t, []string{"b", "c"}, tbl.Names())
	b, _ := tbl.Column("b")
	assert.Equal(t, "1", b.String(0))
}

func TestRenameColumns_AllOrNothing(t *testing.T) {
	tbl := textTable(t, []string{"a"}, [][]string{{"1"}})

	err := RenameColumns(tbl, map[string]string{"a": "x", "ghost": "y", "gone": "z"})
	require.ErrorIs(t, err, ErrColumnNotFound)
	assert.Contains(t, err.Error(), "ghost")
	assert.Contains(t, err.Error(), "gone")
	assert.Equal(t, []string{"a"}, tbl.Names())
}
