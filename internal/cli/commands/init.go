package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/cleanr/internal/cli/config"
	"github.com/leapstack-labs/cleanr/internal/cli/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// profile is the starter cleanr.yaml written by init. Field order matches
// the flag surface of the clean command.
type profile struct {
	Normalize      bool     `yaml:"normalize"`
	Trim           bool     `yaml:"trim"`
	Dedup          bool     `yaml:"dedup"`
	DropNA         bool     `yaml:"drop_na"`
	Quick          bool     `yaml:"quick"`
	ChunkSize      int      `yaml:"chunk_size"`
	Keep           []string `yaml:"keep,omitempty"`
	Drop           []string `yaml:"drop,omitempty"`
	FloatPrecision int      `yaml:"float_precision"`
	OutputEncoding string   `yaml:"output_encoding"`
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a starter cleanr.yaml profile",
		Long: `Write a starter cleanr.yaml profile with the default cleaning options.

The profile is picked up automatically by 'cleanr clean' when run from the
same directory; flags still override profile values.`,
		Example: `  # Initialize in the current directory
  cleanr init

  # Initialize in another directory
  cleanr init ./projects/sales

  # Overwrite an existing profile
  cleanr init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			outputFormat, _ := cmd.Flags().GetString("output")
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(outputFormat))
			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing profile")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, "cleanr.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("cleanr.yaml already exists. Use --force to overwrite")
	}

	data, err := yaml.Marshal(profile{
		Normalize:      true,
		Trim:           true,
		Dedup:          true,
		ChunkSize:      config.DefaultChunkSize,
		FloatPrecision: -1,
		OutputEncoding: "utf-8",
	})
	if err != nil {
		return fmt.Errorf("failed to render profile: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	r.StatusLine("cleanr.yaml", "created", "")
	r.Println("")
	r.Success("cleanr profile initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Adjust the options in cleanr.yaml")
	r.Println("  2. Run 'cleanr clean <file.csv>' to clean a file")

	return nil
}
