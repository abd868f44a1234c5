// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the config file when --config is absent.
const EnvironmentVariable = "KNOBS_CONFIG"

// LogFormat selects the slog handler.
type LogFormat string

const (
	// FormatAuto picks text on a terminal and JSON otherwise.
	FormatAuto LogFormat = "auto"
	FormatText LogFormat = "text"
	FormatJSON LogFormat = "json"
)

// Config is the knobs configuration file.
type Config struct {
	// SysfsRoot is where sysfs is mounted. Tests and containers point
	// this elsewhere.
	// Default: /sys
	SysfsRoot string `yaml:"sysfs_root" json:"sysfs_root"`

	Log LogConfig `yaml:"log" json:"log"`

	// DryRun logs hardware writes instead of performing them.
	DryRun bool `yaml:"dry_run" json:"dry_run"`

	NVML NVMLConfig `yaml:"nvml" json:"nvml"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	// Level is one of trace, debug, info, warn, error. Empty defers to
	// KNOBS_LOG, then warn.
	Level string `yaml:"level" json:"level"`

	// Format is auto, text, or json.
	// Default: auto
	Format LogFormat `yaml:"format" json:"format"`
}

// NVMLConfig configures NVIDIA support.
type NVMLConfig struct {
	// Enabled loads libnvidia-ml on first use. Disabling it makes every
	// --nvml write fail without touching the library.
	// Default: true
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// Default returns the configuration used when no file is given, and
// the base that a file is merged onto.
func Default() *Config {
	return &Config{
		SysfsRoot: "/sys",
		Log: LogConfig{
			Format: FormatAuto,
		},
		NVML: NVMLConfig{
			Enabled: true,
		},
	}
}

// Load loads configuration from the KNOBS_CONFIG environment variable.
// Unlike an explicit --config, the variable is optional: when it is
// unset, Load returns [Default].
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path. Files ending
// in .json or .jsonc are JSONC (comments and trailing commas allowed);
// anything else is YAML. Unknown fields are errors in both.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	// Expand ${HOME} and similar variables for portability.
	cfg.SysfsRoot = expandVars(cfg.SysfsRoot)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// loadFile merges one file into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		decoder.DisallowUnknownFields()
		return decoder.Decode(c)
	default:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		// An empty file leaves the defaults in place.
		if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	}
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		if len(parts) >= 3 {
			return parts[2]
		}
		return ""
	})
}

// LogLevels lists the accepted log.level and KNOBS_LOG values.
var LogLevels = []string{"trace", "debug", "info", "warn", "error"}

// IsLogLevel reports whether name is one of [LogLevels], ignoring case
// and surrounding space.
func IsLogLevel(name string) bool {
	return slices.Contains(LogLevels, strings.ToLower(strings.TrimSpace(name)))
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.SysfsRoot == "" {
		errs = append(errs, fmt.Errorf("sysfs_root is required"))
	}

	if c.Log.Level != "" && !IsLogLevel(c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be one of: %v", LogLevels))
	}

	formats := []LogFormat{FormatAuto, FormatText, FormatJSON}
	if !slices.Contains(formats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be one of: %v", formats))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
