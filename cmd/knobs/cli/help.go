// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/bureau-foundation/knobs/lib/group"
)

var globalFlags = []group.FlagSpec{
	{Name: "config", Value: "PATH", Usage: "Load configuration from PATH (default $KNOBS_CONFIG)"},
	{Name: "dry-run", Usage: "Resolve and log every write without performing it"},
	{Name: "version", Usage: "Print the version and exit"},
	{Name: "help", Shorthand: "h", Usage: "Print this help and exit"},
}

var valueNotes = [][2]string{
	{"IDS", "comma separated X, X..Y, X.., ..Y or .. (all); X-Y is accepted for X..Y"},
	{"CARDS", "ids as above, or BUS:ID such as pci:0000:00:02.0"},
	{"HERTZ", "bare number is MHz; suffixes h/hz, k/khz, m/mhz, g/ghz, t/thz"},
	{"WATTS", "bare number is watts; suffixes u/uw, m/mw, w, k/kw"},
	{"SECS", "bare number is microseconds; suffixes ns, us, ms, s"},
	{"BOOL", "0, 1, true or false"},
}

// PrintHelp writes usage for program to w.
func PrintHelp(w io.Writer, program string) error {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Usage: %s [GLOBAL FLAGS] GROUP [-- GROUP]...\n\n", program)
	builder.WriteString("Each group selects cpus, drm cards or a rapl zone and sets knobs on them.\n")
	builder.WriteString("Groups are applied in order. The first failure stops the run and earlier\n")
	builder.WriteString("groups are not rolled back.\n\n")

	table := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', 0)
	fmt.Fprintln(table, "Group flags:")
	for _, entry := range group.Schema() {
		writeFlagRow(table, entry)
	}
	fmt.Fprintln(table)
	fmt.Fprintln(table, "Global flags:")
	for _, entry := range globalFlags {
		writeFlagRow(table, entry)
	}
	if err := table.Flush(); err != nil {
		return err
	}

	builder.WriteString("\nValues:\n")
	notes := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', 0)
	for _, note := range valueNotes {
		fmt.Fprintf(notes, "  %s\t%s\n", note[0], note[1])
	}
	if err := notes.Flush(); err != nil {
		return err
	}

	_, err := io.WriteString(w, builder.String())
	return err
}

func writeFlagRow(table io.Writer, entry group.FlagSpec) {
	name := "    --" + entry.Name
	if entry.Shorthand != "" {
		name = "-" + entry.Shorthand + ", --" + entry.Name
	}
	if !entry.IsSwitch() {
		name += " " + entry.Value
	}
	usage := entry.Usage
	if len(entry.Requires) > 0 {
		usage += " (requires --" + strings.Join(entry.Requires, ", --") + ")"
	}
	fmt.Fprintf(table, "  %s\t%s\n", name, usage)
}
