// Package config provides configuration management for the cleanr CLI.
// Values are layered from defaults, an optional cleanr.yaml profile file,
// CLEANR_-prefixed environment variables, and command-line flags, in
// increasing priority.
package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/cleanr/internal/pipeline"
	"github.com/leapstack-labs/cleanr/internal/transform"
)

// Default configuration values.
const (
	DefaultChunkSize = 100000
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=json
)

// Config holds all CLI configuration options for a cleaning run.
type Config struct {
	Encoding       string   `koanf:"encoding"`
	OutputEncoding string   `koanf:"output_encoding"`
	Quick          bool     `koanf:"quick"`
	ChunkSize      int      `koanf:"chunk_size"`
	Normalize      bool     `koanf:"normalize"`
	Trim           bool     `koanf:"trim"`
	Dedup          bool     `koanf:"dedup"`
	Fill           string   `koanf:"fill"`
	DropNA         bool     `koanf:"drop_na"`
	Keep           []string `koanf:"keep"`
	Drop           []string `koanf:"drop"`
	Split          []string `koanf:"split"`
	Add            []string `koanf:"add"`
	Rename         []string `koanf:"rename"`
	FloatPrecision int      `koanf:"float_precision"`
	Verbose        bool     `koanf:"verbose"`
	Quiet          bool     `koanf:"quiet"`
	OutputFormat   string   `koanf:"output"`

	// FillSet distinguishes an explicitly configured fill value (which
	// may be the empty string) from no fill at all.
	FillSet bool `koanf:"-"`
}

// Validate rejects mutually exclusive option combinations early, before
// any file is touched.
func (c *Config) Validate() error {
	if c.FillSet && c.DropNA {
		return fmt.Errorf("%w: fill and drop-na are mutually exclusive", pipeline.ErrInvalidOptions)
	}
	if len(c.Keep) > 0 && len(c.Drop) > 0 {
		return fmt.Errorf("%w: keep and drop are mutually exclusive", pipeline.ErrInvalidOptions)
	}
	return nil
}

// PipelineOptions converts the configuration into pipeline options for the
// given input and output paths. Malformed add/rename pairs are skipped and
// reported as warnings; malformed split requests are errors since their
// shape cannot be guessed.
func (c *Config) PipelineOptions(inputPath, outputPath string) (pipeline.Options, []string, error) {
	var warnings []string

	opts := pipeline.Options{
		InputPath:      inputPath,
		OutputPath:     outputPath,
		Encoding:       c.Encoding,
		OutputEncoding: c.OutputEncoding,
		Quick:          c.Quick,
		ChunkSize:      c.ChunkSize,
		Normalize:      c.Normalize,
		Trim:           c.Trim,
		Dedup:          c.Dedup,
		DropMissing:    c.DropNA,
		Keep:           cleanList(c.Keep),
		Drop:           cleanList(c.Drop),
		FloatPrecision: c.FloatPrecision,
	}

	if c.FillSet {
		fill := c.Fill
		opts.FillValue = &fill
	}

	for _, spec := range c.Split {
		req, err := parseSplitSpec(spec)
		if err != nil {
			return pipeline.Options{}, warnings, err
		}
		opts.Splits = append(opts.Splits, req)
	}

	for _, pair := range c.Add {
		newName, source, ok := parsePair(pair)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("ignoring malformed add argument %q (expected NEW=OLD)", pair))
			continue
		}
		opts.Adds = append(opts.Adds, transform.ColumnCopy{Name: newName, Source: source})
	}

	for _, pair := range c.Rename {
		oldName, newName, ok := parsePair(pair)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("ignoring malformed rename argument %q (expected OLD=NEW)", pair))
			continue
		}
		if opts.Renames == nil {
			opts.Renames = make(map[string]string)
		}
		opts.Renames[oldName] = newName
	}

	return opts, warnings, nil
}

// parseSplitSpec parses COLUMN:NEW1|NEW2:DELIM. The delimiter is the
// remainder after the second colon, so it may itself contain colons.
func parseSplitSpec(spec string) (transform.SplitRequest, error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
		return transform.SplitRequest{}, fmt.Errorf("invalid split %q (expected COLUMN:NEW1|NEW2:DELIM)", spec)
	}
	into := cleanList(strings.Split(parts[1], "|"))
	if len(into) == 0 {
		return transform.SplitRequest{}, fmt.Errorf("invalid split %q: no destination columns", spec)
	}
	return transform.SplitRequest{Column: parts[0], Into: into, Delimiter: parts[2]}, nil
}

// parsePair splits a KEY=VALUE argument.
func parsePair(pair string) (string, string, bool) {
	k, v, found := strings.Cut(pair, "=")
	k, v = strings.TrimSpace(k), strings.TrimSpace(v)
	if !found || k == "" || v == "" {
		return "", "", false
	}
	return k, v, true
}

// cleanList trims entries and drops empties.
func cleanList(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
