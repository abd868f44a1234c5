// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseBool accepts 0, 1, false and true, case-insensitively.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true":
		return true, nil
	case "0", "false":
		return false, nil
	}
	return false, parseError("boolean", s, fmt.Errorf("%w: expected one of 0, 1, false, true", ErrSyntax))
}

// ParseUint parses a base-10 unsigned 64-bit integer.
func ParseUint(s string) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		if numError, ok := err.(*strconv.NumError); ok && numError.Err == strconv.ErrRange {
			return 0, parseError("integer", s, ErrOutOfRange)
		}
		return 0, parseError("integer", s, ErrSyntax)
	}
	return v, nil
}

// ParseUints parses a comma-separated list of unsigned integers. Empty
// elements are rejected.
func ParseUints(s string) ([]uint64, error) {
	parts := strings.Split(s, ",")
	values := make([]uint64, 0, len(parts))
	for _, part := range parts {
		v, err := ParseUint(part)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// MaxEPB is the largest energy/performance bias hint accepted by
// intel_pstate.
const MaxEPB = 15

// ParseEPB parses an energy/performance bias value in 0..=15.
func ParseEPB(s string) (uint64, error) {
	v, err := ParseUint(s)
	if err != nil {
		return 0, err
	}
	if v > MaxEPB {
		return 0, parseError("energy/performance bias", s,
			fmt.Errorf("%w: must be between 0 and %d", ErrOutOfRange, MaxEPB))
	}
	return v, nil
}

// splitUnit splits a quantity such as "1.5ghz" into its numeric part
// and lowercase unit suffix.
func splitUnit(s string) (number, unit string) {
	s = strings.TrimSpace(s)
	index := strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})
	if index < 0 {
		return s, ""
	}
	return s[:index], strings.ToLower(strings.TrimSpace(s[index:]))
}

// scale converts number (possibly fractional) multiplied by factor to
// an integer count of the base unit, rounding to nearest.
func scale(kind, input, number string, factor uint64) (uint64, error) {
	if number == "" {
		return 0, parseError(kind, input, ErrSyntax)
	}
	if !strings.Contains(number, ".") {
		n, err := strconv.ParseUint(number, 10, 64)
		if err != nil {
			return 0, parseError(kind, input, ErrSyntax)
		}
		if factor != 0 && n > ^uint64(0)/factor {
			return 0, parseError(kind, input, ErrOutOfRange)
		}
		return n * factor, nil
	}
	f, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, parseError(kind, input, ErrSyntax)
	}
	product := f*float64(factor) + 0.5
	if product >= float64(^uint64(0)) {
		return 0, parseError(kind, input, ErrOutOfRange)
	}
	return uint64(product), nil
}
