package load

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/cleanr/internal/table"
)

func TestWriteTable_RoundTrip(t *testing.T) {
	tbl, err := table.New(
		table.NewTextColumn("name", []string{"alice", "bob"}, nil),
		table.NewIntColumn("age", []int64{30, 25}, nil),
	)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteTable(path, tbl, WriteOptions{FloatPrecision: -1}))

	res, err := NewLoader(nil).Read(path, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age"}, res.Table.Names())
	assert.Equal(t, 2, res.Rows)
	age, _ := res.Table.Column("age")
	assert.Equal(t, "25", age.String(1))
}

func TestWriteTable_MissingCellsEmpty(t *testing.T) {
	tbl, err := table.New(
		table.NewTextColumn("a", []string{"x", ""}, []bool{true, false}),
	)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteTable(path, tbl, WriteOptions{FloatPrecision: -1}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\nx\n\n", string(data))
}

func TestWriteTable_FloatPrecision(t *testing.T) {
	tbl, err := table.New(
		table.NewFloatColumn("f", []float64{1.5, 2}, nil),
	)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteTable(path, tbl, WriteOptions{FloatPrecision: 2}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "f\n1.50\n2.00\n", string(data))
}

func TestWriteTable_CreatesParentDirs(t *testing.T) {
	tbl, err := table.New(table.NewTextColumn("a", []string{"x"}, nil))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "deep", "out.csv")
	require.NoError(t, WriteTable(path, tbl, WriteOptions{FloatPrecision: -1}))

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestWriteTable_OutputEncoding(t *testing.T) {
	tbl, err := table.New(table.NewTextColumn("drink", []string{"café"}, nil))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteTable(path, tbl, WriteOptions{Encoding: "latin-1", FloatPrecision: -1}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("drink\ncaf\xe9\n"), data)
}

func TestWriteTable_UnknownEncoding(t *testing.T) {
	tbl, err := table.New(table.NewTextColumn("a", []string{"x"}, nil))
	require.NoError(t, err)

	err = WriteTable(filepath.Join(t.TempDir(), "out.csv"), tbl, WriteOptions{Encoding: "ebcdic", FloatPrecision: -1})
	require.ErrorIs(t, err, ErrWriteFailure)
}
