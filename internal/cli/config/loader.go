package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// configFileUsed tracks the profile file loaded by the last LoadConfig
// call, for verbose reporting.
var configFileUsed string

// findConfigFile finds the profile file to use.
// Priority: explicit path > cleanr.yaml > cleanr.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"cleanr.yaml", "cleanr.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// LoadConfig loads configuration from the profile file, environment
// variables, and flags.
// Precedence (highest to lowest): flags > env vars > profile file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"chunk_size":      DefaultChunkSize,
		"float_precision": -1,
		"output":          DefaultOutput,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Load the profile file, if any
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables (CLEANR_ prefix)
	// Transform: CLEANR_CHUNK_SIZE -> chunk_size
	if err := k.Load(env.Provider("CLEANR_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "CLEANR_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			// Transform kebab-case to snake_case for config keys
			key := strings.ReplaceAll(f.Name, "-", "_")

			// The CLI uses --chunk for brevity, the config key is
			// chunk_size for clarity.
			if key == "chunk" {
				return "chunk_size", posflag.FlagVal(flags, f)
			}

			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// A fill value may legitimately be the empty string, so presence is
	// tracked separately from the value.
	cfg.FillSet = k.Exists("fill")

	return &cfg, nil
}

// GetConfigFileUsed returns the path to the profile file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}
