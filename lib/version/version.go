// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports the knobs build.
//
// [Version] and [GitCommit] may be injected at build time:
//
//	go build -ldflags "-X github.com/bureau-foundation/knobs/lib/version.Version=0.3.0"
//
// When GitCommit is not injected, the VCS revision recorded by the Go
// toolchain is used instead.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

// These variables are set via -ldflags at build time.
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// Version is the semantic version. This is set manually for releases.
	Version = "0.1.0-dev"
)

var commitOnce = sync.OnceValue(func() string {
	if GitCommit != "unknown" {
		return GitCommit
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return GitCommit
	}
	var revision string
	dirty := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if revision == "" {
		return GitCommit
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	if dirty {
		revision += "-dirty"
	}
	return revision
})

// Line returns the --version output: "knobs <version>".
func Line() string {
	return "knobs " + Version
}

// Full returns detailed version information including the commit and
// Go version.
func Full() string {
	return fmt.Sprintf("%s (%s)\n  Go: %s\n  Platform: %s/%s",
		Line(), Commit(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Commit returns the git commit SHA.
func Commit() string {
	return commitOnce()
}
