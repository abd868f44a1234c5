// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/knobs/cmd/knobs/cli"
	"github.com/bureau-foundation/knobs/lib/clock"
	"github.com/bureau-foundation/knobs/lib/config"
	"github.com/bureau-foundation/knobs/lib/group"
	"github.com/bureau-foundation/knobs/lib/hardware"
	"github.com/bureau-foundation/knobs/lib/hwinfo/nvidia"
	"github.com/bureau-foundation/knobs/lib/resolve"
	"github.com/bureau-foundation/knobs/lib/version"
)

// app holds the process environment so tests can run the command
// in-process against a synthetic sysfs tree.
type app struct {
	stdout io.Writer
	stderr io.Writer
	clock  clock.Clock

	// nvml is the NVML library used when nvml.enabled is set. nil
	// means the process-wide library.
	nvml nvidia.Library
}

// run executes one invocation and returns the exit status.
func (a *app) run(argv []string) int {
	program := "knobs"
	if len(argv) > 0 {
		program = argv[0]
	}

	globals, rest, err := cli.ExtractGlobals(argv)
	if err != nil {
		return a.fail(cli.ExitCode(err), err)
	}
	if globals.Version {
		fmt.Fprintln(a.stdout, version.Line())
		return cli.ExitSuccess
	}
	// A bare invocation has nothing to apply.
	if globals.Help || len(rest) <= 1 {
		return a.help(program)
	}

	cfg, err := loadConfig(globals.ConfigPath)
	if err != nil {
		return a.fail(cli.ExitUsage, err)
	}
	dryRun := cfg.DryRun || globals.DryRun

	logger, err := a.logger(cfg, dryRun)
	if err != nil {
		return a.fail(cli.ExitUsage, err)
	}

	var library nvidia.Library
	if cfg.NVML.Enabled {
		library = a.nvml
		if library == nil {
			library = nvidia.System{}
		}
	}
	system := hardware.NewSystem(cfg.SysfsRoot, library)
	defer func() {
		if err := system.Close(); err != nil {
			logger.Warn("closing nvml", "error", err)
		}
	}()

	inventory := resolve.NewInventory(system)
	list, err := group.ParseList(context.Background(), inventory, rest)
	if errors.Is(err, group.ErrHelp) {
		return a.help(program)
	}
	if err != nil {
		return a.fail(cli.ExitCode(err), err)
	}
	logger.Debug("parsed argument groups", "groups", len(list), "dry_run", dryRun)

	var target group.Hardware = system
	if dryRun {
		target = hardware.NewDryRun(system, logger)
	}
	if err := group.NewEngine(target, a.clock, logger).Apply(list); err != nil {
		return a.fail(cli.ExitCode(err), err)
	}
	return cli.ExitSuccess
}

// loadConfig prefers --config over KNOBS_CONFIG.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// logger builds the process logger. The config file's level wins over
// KNOBS_LOG. A dry run logs at info at least, since the skipped writes
// are its output.
func (a *app) logger(cfg *config.Config, dryRun bool) (*slog.Logger, error) {
	name := cfg.Log.Level
	if name == "" {
		name = os.Getenv(cli.LogEnvironmentVariable)
	}
	level, err := cli.ParseLevel(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cli.LogEnvironmentVariable, err)
	}
	if dryRun && level > slog.LevelInfo {
		level = slog.LevelInfo
	}
	return cli.NewLogger(a.stderr, level, cfg.Log.Format), nil
}

func (a *app) help(program string) int {
	if err := cli.PrintHelp(a.stdout, program); err != nil {
		return cli.ExitSystem
	}
	return cli.ExitSuccess
}

func (a *app) fail(code int, err error) int {
	cli.PrintError(a.stderr, err)
	return code
}
