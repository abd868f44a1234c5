// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"fmt"
	"math"
	"time"
)

var durationUnits = map[string]time.Duration{
	"":   time.Microsecond,
	"n":  time.Nanosecond,
	"ns": time.Nanosecond,
	"u":  time.Microsecond,
	"us": time.Microsecond,
	"m":  time.Millisecond,
	"ms": time.Millisecond,
	"s":  time.Second,
}

// ParseDuration parses a time window. A bare number is microseconds.
func ParseDuration(s string) (time.Duration, error) {
	number, unit := splitUnit(s)
	factor, ok := durationUnits[unit]
	if !ok {
		return 0, parseError("duration", s, fmt.Errorf("%w %q", ErrUnknownUnit, unit))
	}
	ns, err := scale("duration", s, number, uint64(factor))
	if err != nil {
		return 0, err
	}
	if ns > math.MaxInt64 {
		return 0, parseError("duration", s, ErrOutOfRange)
	}
	return time.Duration(ns), nil
}
