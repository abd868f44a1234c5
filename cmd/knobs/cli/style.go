// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// PrintError writes "error: <message>" to w. The prefix is bold red
// when w is a color terminal. NO_COLOR, CLICOLOR and CLICOLOR_FORCE
// are honored.
func PrintError(w io.Writer, err error) {
	printError(w, err, termenv.NewOutput(w).EnvColorProfile())
}

func printError(w io.Writer, err error, profile termenv.Profile) {
	prefix := "error:"
	if profile != termenv.Ascii {
		// lipgloss re-detects the profile from the environment unless
		// it is set explicitly.
		renderer := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
		renderer.SetColorProfile(profile)
		prefix = renderer.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true).
			Render(prefix)
	}
	fmt.Fprintf(w, "%s %v\n", prefix, err)
}
