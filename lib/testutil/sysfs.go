// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"strings"
)

// T is the subset of testing.TB the helpers need.
type T interface {
	Helper()
	Fatalf(format string, args ...any)
}

// WriteFile creates a file at path within root, creating parent
// directories as needed.
//
//	testutil.WriteFile(t, root, "devices/system/cpu/online", "0-3\n")
func WriteFile(t T, root, path, content string) {
	t.Helper()
	fullPath := filepath.Join(root, path)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(fullPath), err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", fullPath, err)
	}
}

// Symlink creates a symlink at path within root pointing at target.
// Only the basename of target matters to most sysfs readers, so
// target need not exist.
func Symlink(t T, root, path, target string) {
	t.Helper()
	fullPath := filepath.Join(root, path)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(fullPath), err)
	}
	if err := os.Symlink(target, fullPath); err != nil {
		t.Fatalf("symlink %s -> %s: %v", fullPath, target, err)
	}
}

// ReadFile returns the trimmed content of path within root.
func ReadFile(t T, root, path string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, path))
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return strings.TrimSpace(string(data))
}
