// Package pipeline orchestrates the cleaning stages in a fixed order:
// load, normalize, trim, deduplicate, missing handling, column selection,
// splits, derived columns, renames, type optimization, save. Stages run
// one after another over a single mutable table; any failure aborts the
// run with the accumulated stats retained.
package pipeline

import (
	"context"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/cleanr/internal/load"
	"github.com/leapstack-labs/cleanr/internal/table"
	"github.com/leapstack-labs/cleanr/internal/transform"
)

// slowStageThreshold is the duration above which a stage is reported at
// info level instead of debug.
const slowStageThreshold = 100 * time.Millisecond

// Pipeline runs one cleaning pass over one input file.
type Pipeline struct {
	logger *slog.Logger
	opts   Options
}

// Config holds pipeline construction parameters.
type Config struct {
	// Options is the full run configuration.
	Options Options
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// New creates a pipeline.
func New(cfg Config) *Pipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline{logger: logger, opts: cfg.Options}
}

// Run executes the pipeline and always returns the stats record, even on
// failure. The returned error, if any, equals the error recorded in the
// stats.
func (p *Pipeline) Run(ctx context.Context) (*Stats, error) {
	stats := &Stats{RunID: uuid.NewString()}
	start := time.Now()

	p.logger.Info("starting run",
		"run_id", stats.RunID,
		"input", p.opts.InputPath,
		"output", p.opts.OutputPath)

	err := p.run(ctx, stats)

	stats.ElapsedSeconds = math.Round(time.Since(start).Seconds()*1000) / 1000
	if err != nil {
		stats.Success = false
		stats.Error = err.Error()
		p.logger.Error("run failed", "run_id", stats.RunID, "error", err)
		return stats, err
	}

	stats.Success = true
	p.logger.Info("run completed",
		"run_id", stats.RunID,
		"rows", stats.FinalRows,
		"columns", stats.FinalColumns,
		"elapsed_s", stats.ElapsedSeconds)
	return stats, nil
}

func (p *Pipeline) run(ctx context.Context, stats *Stats) error {
	if err := p.opts.Validate(); err != nil {
		return err
	}

	var t *table.Table
	err := p.stage(ctx, "load", func() error {
		loader := load.NewLoader(p.logger)
		result, err := loader.Read(p.opts.InputPath, load.Options{
			Encoding:  p.opts.Encoding,
			Quick:     p.opts.Quick,
			ChunkSize: p.opts.ChunkSize,
		})
		if err != nil {
			return err
		}
		t = result.Table
		stats.RowsLoaded = result.Rows
		stats.OriginalColumns = result.Columns
		stats.Encoding = result.Encoding
		return nil
	})
	if err != nil {
		return err
	}

	if p.opts.Normalize {
		err = p.stage(ctx, "normalize", func() error {
			transform.NormalizeColumns(t)
			return nil
		})
		if err != nil {
			return err
		}
	}

	if p.opts.Trim {
		err = p.stage(ctx, "trim", func() error {
			transform.TrimWhitespace(t)
			return nil
		})
		if err != nil {
			return err
		}
	}

	if p.opts.Dedup {
		err = p.stage(ctx, "dedup", func() error {
			removed := transform.Deduplicate(t)
			stats.DuplicatesRemoved = removed
			stats.RowsRemoved += removed
			if removed > 0 {
				p.logger.Debug("duplicates removed", "rows", removed)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	err = p.stage(ctx, "missing", func() error {
		switch {
		case p.opts.DropMissing:
			removed := transform.DropMissing(t)
			stats.MissingRowsDropped = removed
			stats.RowsRemoved += removed
			if removed > 0 {
				p.logger.Debug("rows with missing values dropped", "rows", removed)
			}
		case p.opts.FillValue != nil:
			transform.FillMissing(t, *p.opts.FillValue)
			p.logger.Debug("missing values filled", "value", *p.opts.FillValue)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if len(p.opts.Keep) > 0 || len(p.opts.Drop) > 0 {
		err = p.stage(ctx, "select", func() error {
			warnings := transform.SelectColumns(t, p.opts.Keep, p.opts.Drop)
			for _, w := range warnings {
				stats.Warnings = append(stats.Warnings, w)
				p.logger.Warn(w)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	for _, req := range p.opts.Splits {
		err = p.stage(ctx, "split", func() error {
			return transform.SplitColumn(t, req)
		})
		if err != nil {
			return err
		}
	}

	if len(p.opts.Adds) > 0 {
		err = p.stage(ctx, "add", func() error {
			return transform.AddColumns(t, p.opts.Adds)
		})
		if err != nil {
			return err
		}
	}

	if len(p.opts.Renames) > 0 {
		err = p.stage(ctx, "rename", func() error {
			return transform.RenameColumns(t, p.opts.Renames)
		})
		if err != nil {
			return err
		}
	}

	err = p.stage(ctx, "optimize", func() error {
		result := transform.OptimizeTypes(t, p.opts.Quick)
		if !result.Skipped {
			stats.MemorySavedMB = result.SavedMB
			p.logger.Debug("types optimized",
				"before_bytes", result.BeforeBytes,
				"after_bytes", result.AfterBytes,
				"saved_mb", result.SavedMB)
		}
		return nil
	})
	if err != nil {
		return err
	}

	err = p.stage(ctx, "save", func() error {
		return load.WriteTable(p.opts.OutputPath, t, load.WriteOptions{
			Encoding:       p.opts.OutputEncoding,
			FloatPrecision: p.opts.FloatPrecision,
		})
	})
	if err != nil {
		return err
	}

	stats.FinalRows = t.NumRows()
	stats.FinalColumns = t.NumCols()
	stats.OutputPath = p.opts.OutputPath
	return nil
}

// stage runs one pipeline step with timing instrumentation. A canceled
// context aborts before the step starts; there is no cancellation
// mid-stage.
func (p *Pipeline) stage(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	if err != nil {
		p.logger.Error("stage failed", "stage", name, "duration_ms", elapsed.Milliseconds(), "error", err)
		return err
	}
	if elapsed > slowStageThreshold {
		p.logger.Info("stage complete", "stage", name, "duration_ms", elapsed.Milliseconds())
	} else {
		p.logger.Debug("stage complete", "stage", name, "duration_ms", elapsed.Milliseconds())
	}
	return nil
}
