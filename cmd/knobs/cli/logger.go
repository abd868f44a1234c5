// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/bureau-foundation/knobs/lib/config"
)

// LogEnvironmentVariable sets the level when the config file does not.
const LogEnvironmentVariable = "KNOBS_LOG"

// DefaultLogLevel keeps a normal run quiet: only discarded restore
// failures and errors are logged.
const DefaultLogLevel = slog.LevelWarn

// ParseLevel maps one of [config.LogLevels] to a slog level. "trace"
// is an alias for debug.
func ParseLevel(name string) (slog.Level, error) {
	if name != "" && !config.IsLogLevel(name) {
		return 0, fmt.Errorf("unknown log level %q (want one of %v)", name, config.LogLevels)
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return DefaultLogLevel, nil
	case "trace", "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return DefaultLogLevel, nil
}

// NewLogger creates the process logger writing to w. With
// [config.FormatAuto], w gets slog.TextHandler for human-readable
// output when it is a terminal and slog.JSONHandler otherwise.
func NewLogger(w io.Writer, level slog.Leveler, format config.LogFormat) *slog.Logger {
	var handler slog.Handler
	options := &slog.HandlerOptions{Level: level}
	text := format == config.FormatText
	if format == config.FormatAuto {
		text = isTerminal(w)
	}
	if text {
		handler = slog.NewTextHandler(w, options)
	} else {
		handler = slog.NewJSONHandler(w, options)
	}
	return slog.New(handler)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
