// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package group

import (
	"time"

	"github.com/bureau-foundation/knobs/lib/resolve"
	"github.com/bureau-foundation/knobs/lib/value"
)

// Hardware is the set of reads and writes the engine performs. CPU ids
// and card indices passed in have already been resolved.
type Hardware interface {
	// OnlineCPUs and OfflineCPUs read the kernel's current lists.
	OnlineCPUs() (resolve.IDSet, error)
	OfflineCPUs() (resolve.IDSet, error)
	SetCPUOnline(id uint64, online bool) error

	SetGovernor(id uint64, governor string) error
	SetScalingMin(id uint64, frequency value.Frequency) error
	SetScalingMax(id uint64, frequency value.Frequency) error
	SetEPB(id uint64, epb uint64) error
	SetEPP(id uint64, epp string) error

	SetRaplLimit(zone resolve.ZoneID, constraint uint64, limit value.Power) error
	SetRaplWindow(zone resolve.ZoneID, constraint uint64, window time.Duration) error

	SetI915Min(card uint64, frequency value.Frequency) error
	SetI915Max(card uint64, frequency value.Frequency) error
	SetI915Boost(card uint64, frequency value.Frequency) error

	SetNvmlGPUClocks(card uint64, min, max value.Frequency) error
	ResetNvmlGPUClocks(card uint64) error
	SetNvmlPowerLimit(card uint64, limit value.Power) error
	ResetNvmlPowerLimit(card uint64) error
}
