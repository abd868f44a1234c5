// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for the fixed
// settle delays knobs takes between hardware writes.
//
// Production code accepts a Clock instead of calling time.Now or
// time.Sleep directly. Real() provides the standard library behavior.
// Fake() provides a clock whose Sleep returns immediately, advances
// the fake time, and records the requested duration, so tests can
// assert on the exact delays taken without waiting for them.
//
// # Wiring Pattern
//
//	type Engine struct {
//	    clock clock.Clock
//	    // ...
//	}
//
// In production:
//
//	e := &Engine{clock: clock.Real()}
//
// In tests:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	e := &Engine{clock: c}
//	// ... run ...
//	if got := c.Sleeps(); ...
package clock
