// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"fmt"
	"strings"
)

// RangeKind discriminates the forms a [Range] can take.
type RangeKind int

const (
	// Inclusive is "X" or "X..Y": both bounds given.
	Inclusive RangeKind = iota

	// From is "X..": open above.
	From

	// ToInclusive is "..Y": open below.
	ToInclusive

	// Unbounded is "..": open on both sides.
	Unbounded
)

// Range is an integer range whose open ends are anchored later, by the
// resolver that knows the live bounds. Start is meaningful for
// Inclusive and From; End for Inclusive and ToInclusive. For Inclusive,
// Start <= End always holds.
type Range struct {
	Kind  RangeKind
	Start uint64
	End   uint64
}

func (r Range) String() string {
	switch r.Kind {
	case From:
		return fmt.Sprintf("%d..", r.Start)
	case ToInclusive:
		return fmt.Sprintf("..%d", r.End)
	case Unbounded:
		return ".."
	}
	if r.Start == r.End {
		return fmt.Sprintf("%d", r.Start)
	}
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

// ParseRange parses one of X, X..Y, X.., ..Y or "..". The cpulist form
// X-Y is accepted as a synonym for X..Y. Reversed bounds are swapped.
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	separator := ".."
	if !strings.Contains(s, separator) && strings.Contains(s, "-") {
		separator = "-"
	}
	parts := strings.Split(s, separator)
	switch len(parts) {
	case 1:
		v, err := ParseUint(parts[0])
		if err != nil {
			return Range{}, rangeError(s)
		}
		return Range{Kind: Inclusive, Start: v, End: v}, nil
	case 2:
		start, end := parts[0], parts[1]
		switch {
		case start == "" && end == "":
			if separator != ".." {
				return Range{}, rangeError(s)
			}
			return Range{Kind: Unbounded}, nil
		case start == "":
			v, err := ParseUint(end)
			if err != nil || separator != ".." {
				return Range{}, rangeError(s)
			}
			return Range{Kind: ToInclusive, End: v}, nil
		case end == "":
			v, err := ParseUint(start)
			if err != nil || separator != ".." {
				return Range{}, rangeError(s)
			}
			return Range{Kind: From, Start: v}, nil
		}
		a, err := ParseUint(start)
		if err != nil {
			return Range{}, rangeError(s)
		}
		b, err := ParseUint(end)
		if err != nil {
			return Range{}, rangeError(s)
		}
		if a > b {
			a, b = b, a
		}
		return Range{Kind: Inclusive, Start: a, End: b}, nil
	}
	return Range{}, rangeError(s)
}

// ParseRanges parses a comma-separated list of ranges.
func ParseRanges(s string) ([]Range, error) {
	parts := strings.Split(s, ",")
	ranges := make([]Range, 0, len(parts))
	for _, part := range parts {
		r, err := ParseRange(part)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

func rangeError(s string) *ParseError {
	return parseError("range", s, fmt.Errorf("%w: expected X, X..Y, X.., ..Y or ..", ErrSyntax))
}
