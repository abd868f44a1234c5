// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package resolve

import (
	"errors"
	"fmt"
)

var (
	// ErrRangeOutOfBounds means a CPU range includes ids the system
	// does not have.
	ErrRangeOutOfBounds = errors.New("range includes ids not found on the system")

	// ErrSystemQuery means the inventory could not be read.
	ErrSystemQuery = errors.New("unable to read system inventory")

	// ErrCardNotFound means no DRM card matches the identifier.
	ErrCardNotFound = errors.New("drm card not found on the system")

	// ErrZoneNotFound means a RAPL package or subzone does not exist.
	ErrZoneNotFound = errors.New("zone not found")

	// ErrConstraintNotFound means a RAPL constraint does not exist in
	// its zone.
	ErrConstraintNotFound = errors.New("constraint not found")
)

// DriverMismatchError reports a DRM card bound to a different driver
// than the one the flag targets.
type DriverMismatchError struct {
	// Card is the index of the card that matched the identifier.
	Card   uint64
	Wanted string
	Found  string
}

func (e *DriverMismatchError) Error() string {
	return fmt.Sprintf("card %d: expected driver %q but system reports %q", e.Card, e.Wanted, e.Found)
}

// Error is a resolution failure for one raw identifier.
type Error struct {
	// Kind is the class of identifier: "cpu range", "drm card",
	// "rapl zone" or "rapl constraint".
	Kind string

	// Value is the identifier as the user wrote it, or the canonical
	// form of the zone for RAPL failures.
	Value string

	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Value, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func systemQueryError(kind, value string, err error) *Error {
	return &Error{Kind: kind, Value: value, Err: fmt.Errorf("%w: %v", ErrSystemQuery, err)}
}

var errNoCPUs = errors.New("no cpus found")
