// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"

	"github.com/bureau-foundation/knobs/lib/group"
)

// Globals are the flags that apply to the whole invocation rather than
// one group.
type Globals struct {
	// ConfigPath is the --config value, or "".
	ConfigPath string

	DryRun  bool
	Version bool
	Help    bool
}

// ExtractGlobals removes global flags from argv and returns them with
// the remaining arguments. argv[0] and every group separator are kept
// in place. The scan is token based: "--config" consumes the following
// token, and "--config=PATH" is also accepted.
func ExtractGlobals(argv []string) (Globals, []string, error) {
	var globals Globals
	if len(argv) == 0 {
		return globals, nil, nil
	}

	rest := []string{argv[0]}
	args := argv[1:]
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--dry-run":
			globals.DryRun = true
		case arg == "--version":
			globals.Version = true
		case arg == "-h" || arg == "--help":
			globals.Help = true
		case arg == "--config":
			if i+1 >= len(args) || args[i+1] == group.Separator {
				return Globals{}, nil, &group.UsageError{Message: "flag needs an argument: --config"}
			}
			i++
			if err := globals.setConfig(args[i]); err != nil {
				return Globals{}, nil, err
			}
		case strings.HasPrefix(arg, "--config="):
			if err := globals.setConfig(strings.TrimPrefix(arg, "--config=")); err != nil {
				return Globals{}, nil, err
			}
		default:
			rest = append(rest, arg)
		}
	}
	return globals, rest, nil
}

func (g *Globals) setConfig(path string) error {
	if path == "" {
		return &group.UsageError{Message: "--config needs a non-empty path"}
	}
	if g.ConfigPath != "" && g.ConfigPath != path {
		return &group.UsageError{Message: "--config given more than once"}
	}
	g.ConfigPath = path
	return nil
}
