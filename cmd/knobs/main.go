// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/bureau-foundation/knobs/lib/clock"
)

func main() {
	app := &app{
		stdout: os.Stdout,
		stderr: os.Stderr,
		clock:  clock.Real(),
	}
	os.Exit(app.run(os.Args))
}
