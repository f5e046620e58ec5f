package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/cleanr/internal/load"
	"github.com/leapstack-labs/cleanr/internal/transform"
)

func writeInput(t *testing.T, data string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(in, []byte(data), 0644))
	return in, filepath.Join(dir, "out.csv")
}

func runPipeline(t *testing.T, opts Options) *Stats {
	t.Helper()
	stats, err := New(Config{Options: opts}).Run(context.Background())
	require.NoError(t, err)
	require.True(t, stats.Success)
	return stats
}

func TestPipeline_Run(t *testing.T) {
	in, out := writeInput(t, "First Name,Age\n alice ,30\n alice ,30\nbob,25\n")

	stats := runPipeline(t, Options{
		InputPath:      in,
		OutputPath:     out,
		Normalize:      true,
		Trim:           true,
		Dedup:          true,
		FloatPrecision: -1,
	})

	assert.NotEmpty(t, stats.RunID)
	assert.Equal(t, 3, stats.RowsLoaded)
	assert.Equal(t, 2, stats.OriginalColumns)
	assert.Equal(t, "utf-8", stats.Encoding)
	assert.Equal(t, 1, stats.DuplicatesRemoved)
	assert.Equal(t, 1, stats.RowsRemoved)
	assert.Equal(t, 2, stats.FinalRows)
	assert.Equal(t, 2, stats.FinalColumns)
	assert.Equal(t, out, stats.OutputPath)
	assert.GreaterOrEqual(t, stats.ElapsedSeconds, 0.0)

	res, err := load.NewLoader(nil).Read(out, load.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"first_name", "age"}, res.Table.Names())
	name, _ := res.Table.Column("first_name")
	assert.Equal(t, "alice", name.String(0))
}

func TestPipeline_Run_DropMissing(t *testing.T) {
	in, out := writeInput(t, "a,b\n1,x\n,y\n2,z\n")

	stats := runPipeline(t, Options{
		InputPath:      in,
		OutputPath:     out,
		DropMissing:    true,
		FloatPrecision: -1,
	})

	assert.Equal(t, 1, stats.MissingRowsDropped)
	assert.Equal(t, 1, stats.RowsRemoved)
	assert.Equal(t, 2, stats.FinalRows)
}

func TestPipeline_Run_Fill(t *testing.T) {
	in, out := writeInput(t, "a,b\n1,x\n,y\n")
	fill := "N/A"

	stats := runPipeline(t, Options{
		InputPath:      in,
		OutputPath:     out,
		FillValue:      &fill,
		FloatPrecision: -1,
	})

	assert.Equal(t, 2, stats.FinalRows)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "N/A,y")
}

func TestPipeline_Run_ColumnOps(t *testing.T) {
	in, out := writeInput(t, "full,extra\na-b,1\nc-d,2\n")

	stats := runPipeline(t, Options{
		InputPath:  in,
		OutputPath: out,
		Drop:       []string{"extra"},
		Splits: []transform.SplitRequest{
			{Column: "full", Into: []string{"left", "right"}, Delimiter: "-"},
		},
		Adds:           []transform.ColumnCopy{{Name: "left_copy", Source: "left"}},
		Renames:        map[string]string{"full": "original"},
		FloatPrecision: -1,
	})

	assert.Equal(t, 4, stats.FinalColumns)

	res, err := load.NewLoader(nil).Read(out, load.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"original", "left", "right", "left_copy"}, res.Table.Names())
	left, _ := res.Table.Column("left")
	assert.Equal(t, "c", left.String(1))
}

func TestPipeline_Run_KeepWarnings(t *testing.T) {
	in, out := writeInput(t, "a,b\n1,2\n")

	stats := runPipeline(t, Options{
		InputPath:      in,
		OutputPath:     out,
		Keep:           []string{"a", "ghost"},
		FloatPrecision: -1,
	})

	assert.Equal(t, 1, stats.FinalColumns)
	require.Len(t, stats.Warnings, 1)
	assert.Contains(t, stats.Warnings[0], "ghost")
}

func TestPipeline_Run_Failures(t *testing.T) {
	fill := "x"
	in, out := writeInput(t, "a,b\n1,2\n")

	tests := []struct {
		name    string
		opts    Options
		wantErr error
	}{
		{
			name:    "input missing",
			opts:    Options{InputPath: filepath.Join(t.TempDir(), "nope.csv"), OutputPath: out, FloatPrecision: -1},
			wantErr: load.ErrNotFound,
		},
		{
			name:    "fill and drop-na",
			opts:    Options{InputPath: in, OutputPath: out, FillValue: &fill, DropMissing: true, FloatPrecision: -1},
			wantErr: ErrInvalidOptions,
		},
		{
			name:    "keep and drop",
			opts:    Options{InputPath: in, OutputPath: out, Keep: []string{"a"}, Drop: []string{"b"}, FloatPrecision: -1},
			wantErr: ErrInvalidOptions,
		},
		{
			name: "rename missing column",
			opts: Options{
				InputPath:      in,
				OutputPath:     out,
				Renames:        map[string]string{"ghost": "x"},
				FloatPrecision: -1,
			},
			wantErr: transform.ErrColumnNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats, err := New(Config{Options: tt.opts}).Run(context.Background())
			require.ErrorIs(t, err, tt.wantErr)
			require.NotNil(t, stats)
			assert.False(t, stats.Success)
			assert.Equal(t, err.Error(), stats.Error)
		})
	}
}

func TestPipeline_Run_NoOutputOnAbort(t *testing.T) {
	in, out := writeInput(t, "a,b\n1,2\n")

	_, err := New(Config{Options: Options{
		InputPath:      in,
		OutputPath:     out,
		Renames:        map[string]string{"ghost": "x"},
		FloatPrecision: -1,
	}}).Run(context.Background())
	require.Error(t, err)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPipeline_Run_CanceledContext(t *testing.T) {
	in, out := writeInput(t, "a\n1\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := New(Config{Options: Options{InputPath: in, OutputPath: out, FloatPrecision: -1}}).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, stats.Success)
}

func TestOptions_Validate(t *testing.T) {
	fill := "x"

	assert.NoError(t, (&Options{}).Validate())
	assert.ErrorIs(t, (&Options{FillValue: &fill, DropMissing: true}).Validate(), ErrInvalidOptions)
	assert.ErrorIs(t, (&Options{Keep: []string{"a"}, Drop: []string{"b"}}).Validate(), ErrInvalidOptions)
}
