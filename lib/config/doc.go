// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the optional knobs configuration file.
//
// The file is named by either the KNOBS_CONFIG environment variable
// (via [Load]) or the --config flag (via [LoadFile]). There is no
// ~/.config discovery and no automatic file search; with neither set,
// knobs runs on [Default].
//
// YAML (gopkg.in/yaml.v3) and JSONC (github.com/tidwall/jsonc, for
// .json and .jsonc files) are both accepted. Unknown fields are
// rejected so that a misspelled key fails loudly instead of being
// silently ignored.
//
// ${VAR} and ${VAR:-default} are expanded in sysfs_root. No
// environment variable overrides a config value; KNOBS_LOG is only
// consulted when log.level is empty.
//
// This package depends on no other knobs packages.
package config
