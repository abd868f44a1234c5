// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Power is a power value in microwatts, the unit powercap uses.
type Power uint64

const (
	Microwatt Power = 1
	Milliwatt       = 1000 * Microwatt
	Watt            = 1000 * Milliwatt
	Kilowatt        = 1000 * Watt
)

// Microwatts returns p in microwatts.
func (p Power) Microwatts() uint64 { return uint64(p) }

// Milliwatts returns p in whole milliwatts, the unit NVML uses.
func (p Power) Milliwatts() uint64 { return uint64(p / Milliwatt) }

func (p Power) String() string {
	return humanize.SIWithDigits(float64(p)/float64(Watt), 3, "W")
}

var powerUnits = map[string]Power{
	"":   Watt,
	"u":  Microwatt,
	"uw": Microwatt,
	"m":  Milliwatt,
	"mw": Milliwatt,
	"w":  Watt,
	"k":  Kilowatt,
	"kw": Kilowatt,
}

// ParsePower parses a power value. A bare number is watts.
func ParsePower(s string) (Power, error) {
	number, unit := splitUnit(s)
	factor, ok := powerUnits[unit]
	if !ok {
		return 0, parseError("power", s, fmt.Errorf("%w %q", ErrUnknownUnit, unit))
	}
	uw, err := scale("power", s, number, uint64(factor))
	if err != nil {
		return 0, err
	}
	return Power(uw), nil
}
