// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.SysfsRoot != "/sys" {
		t.Errorf("expected sysfs_root=/sys, got %s", cfg.SysfsRoot)
	}
	if cfg.Log.Format != FormatAuto {
		t.Errorf("expected log.format=auto, got %s", cfg.Log.Format)
	}
	if !cfg.NVML.Enabled {
		t.Error("expected nvml.enabled=true")
	}
	if cfg.DryRun {
		t.Error("expected dry_run=false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_WithoutKnobsConfig(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.SysfsRoot != "/sys" {
		t.Errorf("expected default sysfs_root, got %s", cfg.SysfsRoot)
	}
}

func TestLoad_WithKnobsConfig(t *testing.T) {
	path := writeConfig(t, "knobs.yaml", `
sysfs_root: /test/sys
log:
  level: debug
  format: json
dry_run: true
nvml:
  enabled: false
`)
	t.Setenv(EnvironmentVariable, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.SysfsRoot != "/test/sys" {
		t.Errorf("expected sysfs_root=/test/sys, got %s", cfg.SysfsRoot)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != FormatJSON {
		t.Errorf("expected log debug/json, got %s/%s", cfg.Log.Level, cfg.Log.Format)
	}
	if !cfg.DryRun {
		t.Error("expected dry_run=true")
	}
	if cfg.NVML.Enabled {
		t.Error("expected nvml.enabled=false")
	}
}

func TestLoadFile_PartialKeepsDefaults(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "knobs.yaml", "dry_run: true\n"))
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if cfg.SysfsRoot != "/sys" || !cfg.NVML.Enabled || cfg.Log.Format != FormatAuto {
		t.Errorf("partial file dropped defaults: %+v", cfg)
	}
}

func TestLoadFile_Empty(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "knobs.yaml", ""))
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if cfg.SysfsRoot != "/sys" {
		t.Errorf("expected default sysfs_root, got %s", cfg.SysfsRoot)
	}
}

func TestLoadFile_JSONC(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "knobs.jsonc", `{
	// Point at a container's sysfs mount.
	"sysfs_root": "/host/sys",
	"log": {"level": "info",},
	/* NVML stays on. */
}`))
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if cfg.SysfsRoot != "/host/sys" {
		t.Errorf("expected sysfs_root=/host/sys, got %s", cfg.SysfsRoot)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected log.level=info, got %s", cfg.Log.Level)
	}
	if !cfg.NVML.Enabled {
		t.Error("expected nvml.enabled to keep its default")
	}
}

func TestLoadFile_UnknownFields(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml top level", "knobs.yaml", "sysfs: /sys\n"},
		{"yaml nested", "knobs.yml", "log:\n  levle: debug\n"},
		{"json", "knobs.json", `{"nvml": {"enable": true}}`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, test.file, test.content))
			if err == nil {
				t.Fatal("expected unknown field to be rejected")
			}
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "absent.yaml") {
		t.Errorf("error should name the file: %v", err)
	}
}

func TestExpandVariables(t *testing.T) {
	t.Setenv("KNOBS_TEST_ROOT", "/chroot")

	tests := []struct {
		input string
		want  string
	}{
		{"${KNOBS_TEST_ROOT}/sys", "/chroot/sys"},
		{"${KNOBS_TEST_UNSET:-/fallback}/sys", "/fallback/sys"},
		{"${KNOBS_TEST_ROOT:-/fallback}/sys", "/chroot/sys"},
		{"/sys", "/sys"},
	}
	for _, test := range tests {
		if got := expandVars(test.input); got != test.want {
			t.Errorf("expandVars(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty sysfs root", func(c *Config) { c.SysfsRoot = "" }, "sysfs_root is required"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level must be one of"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format must be one of"},
		{"trace level", func(c *Config) { c.Log.Level = "trace" }, ""},
		{"level ignores case", func(c *Config) { c.Log.Level = "INFO" }, ""},
		{"warning is not a level", func(c *Config) { c.Log.Level = "warning" }, "log.level must be one of"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			test.mutate(cfg)
			err := cfg.Validate()
			if test.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, test.wantErr)
			}
		})
	}
}
