package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/cleanr/internal/cli/config"
	"github.com/leapstack-labs/cleanr/internal/cli/output"
	"github.com/leapstack-labs/cleanr/internal/pipeline"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NewCleanCommand creates the clean command.
func NewCleanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean INPUT [OUTPUT]",
		Short: "Clean a delimited text file",
		Long: `Load a delimited text file, apply the configured transforms, and write
the cleaned table.

The input encoding is auto-detected unless --encoding forces one. When no
OUTPUT is given, the result is written next to the input as
<name>_clean<ext>.`,
		Example: `  # Trim, deduplicate, and normalize headers
  cleanr clean data.csv --trim --dedup --normalize

  # Drop rows with missing values, keep two columns
  cleanr clean data.csv cleaned.csv --drop-na --keep id,name

  # Split a column and rename another
  cleanr clean data.csv --split "full_name:first|last: " --rename old=new

  # Force an encoding and skip type optimization
  cleanr clean legacy.csv --encoding cp1252 --quick`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runClean,
	}

	cmd.Flags().BoolP("trim", "t", false, "Trim whitespace from text cells")
	cmd.Flags().BoolP("dedup", "d", false, "Remove duplicate rows")
	cmd.Flags().BoolP("normalize", "n", false, "Normalize column names to snake_case")
	cmd.Flags().StringP("fill", "f", "", "Fill missing values with VALUE")
	cmd.Flags().Bool("drop-na", false, "Drop rows that contain any missing value")
	cmd.Flags().StringSlice("keep", nil, "Comma-separated list of columns to keep")
	cmd.Flags().StringSlice("drop", nil, "Comma-separated list of columns to drop")
	cmd.Flags().Bool("quick", false, "Skip type optimization (faster for large files)")
	cmd.Flags().Int("chunk", config.DefaultChunkSize, "Read file in chunks of N rows")
	cmd.Flags().String("encoding", "", "Force a specific input encoding (e.g. utf-8, latin1)")
	cmd.Flags().String("output-encoding", "", "Output encoding (default: utf-8)")
	cmd.Flags().StringArray("split", nil, "Split a column: COLUMN:NEW1|NEW2:DELIM (repeatable)")
	cmd.Flags().StringArray("add", nil, "Add column as a copy: NEW=OLD (repeatable)")
	cmd.Flags().StringArray("rename", nil, "Rename column: OLD=NEW (repeatable)")
	cmd.Flags().Int("float-precision", -1, "Fixed decimal places for float output")

	return cmd
}

func runClean(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	if err := cfg.Validate(); err != nil {
		return err
	}

	inputPath := args[0]
	outputPath := defaultOutputPath(inputPath)
	if len(args) > 1 {
		outputPath = args[1]
	}

	opts, warnings, err := cfg.PipelineOptions(inputPath, outputPath)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		r.Warning(w)
	}

	logger := newLogger(cfg)
	if cfg.Verbose {
		if configFile := config.GetConfigFileUsed(); configFile != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Using config file: %s\n", configFile)
		}
	}

	p := pipeline.New(pipeline.Config{Options: opts, Logger: logger})
	stats, runErr := p.Run(cmd.Context())

	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(stats); err != nil {
			return err
		}
		return runErr
	}

	renderStats(r, cfg, stats)
	return runErr
}

// newLogger builds the run logger from the quiet/verbose settings. Quiet
// wins over verbose.
func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.Quiet {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// renderStats writes the human-readable summary.
func renderStats(r *output.Renderer, cfg *config.Config, stats *pipeline.Stats) {
	if !stats.Success {
		r.Error(stats.Error)
		return
	}

	p := message.NewPrinter(language.English)
	if !cfg.Quiet {
		rows := [][2]string{
			{"Rows processed", p.Sprintf("%d", stats.RowsLoaded)},
			{"Rows removed", p.Sprintf("%d", stats.RowsRemoved)},
			{"Final shape", p.Sprintf("%d rows x %d cols", stats.FinalRows, stats.FinalColumns)},
			{"Encoding", stats.Encoding},
			{"Elapsed", fmt.Sprintf("%.2fs", stats.ElapsedSeconds)},
		}
		if stats.MemorySavedMB > 0 {
			rows = append(rows, [2]string{"Memory saved", fmt.Sprintf("%.2f MB", stats.MemorySavedMB)})
		}
		r.Table("", rows)
	}

	r.Success(p.Sprintf("Done. %s | %d rows x %d cols | %.2fs",
		stats.OutputPath, stats.FinalRows, stats.FinalColumns, stats.ElapsedSeconds))
}

// defaultOutputPath derives <name>_clean<ext> next to the input.
func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_clean" + ext
}
