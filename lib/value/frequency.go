// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Frequency is a frequency in hertz.
type Frequency uint64

const (
	Hertz     Frequency = 1
	Kilohertz           = 1000 * Hertz
	Megahertz           = 1000 * Kilohertz
	Gigahertz           = 1000 * Megahertz
	Terahertz           = 1000 * Gigahertz
)

// Kilohertz returns f in whole kilohertz, the unit cpufreq uses.
func (f Frequency) Kilohertz() uint64 { return uint64(f / Kilohertz) }

// Megahertz returns f in whole megahertz, the unit i915 and NVML use.
func (f Frequency) Megahertz() uint64 { return uint64(f / Megahertz) }

func (f Frequency) String() string {
	return humanize.SIWithDigits(float64(f), 3, "Hz")
}

var frequencyUnits = map[string]Frequency{
	"":    Megahertz,
	"h":   Hertz,
	"hz":  Hertz,
	"k":   Kilohertz,
	"khz": Kilohertz,
	"m":   Megahertz,
	"mhz": Megahertz,
	"g":   Gigahertz,
	"ghz": Gigahertz,
	"t":   Terahertz,
	"thz": Terahertz,
}

// ParseFrequency parses a frequency. A bare number is megahertz.
func ParseFrequency(s string) (Frequency, error) {
	number, unit := splitUnit(s)
	factor, ok := frequencyUnits[unit]
	if !ok {
		return 0, parseError("frequency", s, fmt.Errorf("%w %q", ErrUnknownUnit, unit))
	}
	hz, err := scale("frequency", s, number, uint64(factor))
	if err != nil {
		return 0, err
	}
	return Frequency(hz), nil
}
