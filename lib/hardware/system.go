// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hardware

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"time"

	"github.com/bureau-foundation/knobs/lib/group"
	"github.com/bureau-foundation/knobs/lib/hwinfo"
	"github.com/bureau-foundation/knobs/lib/hwinfo/i915"
	"github.com/bureau-foundation/knobs/lib/hwinfo/nvidia"
	"github.com/bureau-foundation/knobs/lib/hwinfo/rapl"
	"github.com/bureau-foundation/knobs/lib/resolve"
	"github.com/bureau-foundation/knobs/lib/value"
)

var (
	_ resolve.Source = (*System)(nil)
	_ group.Hardware = (*System)(nil)
)

// ErrNvmlDisabled is returned by the NVML writes when the System was
// built without an NVML library.
var ErrNvmlDisabled = errors.New("nvml support is disabled")

// System is the live machine.
type System struct {
	sysRoot string
	cpu     *hwinfo.CPU
	i915    *i915.Controller
	rapl    *rapl.Controller
	nvml    *nvidia.Controller
}

// NewSystem returns a System rooted at sysRoot. A nil library disables
// the NVML writes.
func NewSystem(sysRoot string, library nvidia.Library) *System {
	system := &System{
		sysRoot: sysRoot,
		cpu:     hwinfo.NewCPU(sysRoot),
		i915:    i915.NewController(sysRoot),
		rapl:    rapl.NewController(sysRoot),
	}
	if library != nil {
		system.nvml = nvidia.NewController(sysRoot, library)
	}
	return system
}

// Close releases NVML if it was used.
func (s *System) Close() error {
	if s.nvml == nil {
		return nil
	}
	return s.nvml.Close()
}

// CPUIDs implements [resolve.Source].
func (s *System) CPUIDs() ([]uint64, error) { return s.cpu.IDs() }

// Cards implements [resolve.Source].
func (s *System) Cards() ([]resolve.Card, error) {
	drmCards, err := hwinfo.Cards(s.sysRoot)
	if err != nil {
		return nil, err
	}
	cards := make([]resolve.Card, len(drmCards))
	for i, card := range drmCards {
		cards[i] = resolve.Card{Index: card.Index, Driver: card.Driver, BusID: card.BusID()}
	}
	return cards, nil
}

// ZoneExists implements [resolve.Source].
func (s *System) ZoneExists(zone resolve.ZoneID) (bool, error) {
	return s.rapl.ZoneExists(raplZone(zone))
}

// ConstraintExists implements [resolve.Source].
func (s *System) ConstraintExists(zone resolve.ZoneID, constraint uint64) (bool, error) {
	return s.rapl.ConstraintExists(raplZone(zone), constraint)
}

func (s *System) OnlineCPUs() (resolve.IDSet, error) {
	ids, err := s.cpu.Online()
	if err != nil {
		return nil, err
	}
	return resolve.NewIDSet(ids...), nil
}

func (s *System) OfflineCPUs() (resolve.IDSet, error) {
	ids, err := s.cpu.Offline()
	if err != nil {
		return nil, err
	}
	return resolve.NewIDSet(ids...), nil
}

func (s *System) SetCPUOnline(id uint64, online bool) error {
	return s.cpu.SetOnline(id, online)
}

func (s *System) SetGovernor(id uint64, governor string) error {
	return s.cpu.SetGovernor(id, governor)
}

func (s *System) SetScalingMin(id uint64, frequency value.Frequency) error {
	return s.cpu.SetScalingMinKHz(id, frequency.Kilohertz())
}

func (s *System) SetScalingMax(id uint64, frequency value.Frequency) error {
	return s.cpu.SetScalingMaxKHz(id, frequency.Kilohertz())
}

func (s *System) SetEPB(id uint64, epb uint64) error {
	return s.cpu.SetEnergyPerfBias(id, epb)
}

func (s *System) SetEPP(id uint64, epp string) error {
	return s.cpu.SetEnergyPerformancePreference(id, epp)
}

func (s *System) SetRaplLimit(zone resolve.ZoneID, constraint uint64, limit value.Power) error {
	return s.rapl.SetPowerLimitUW(raplZone(zone), constraint, limit.Microwatts())
}

func (s *System) SetRaplWindow(zone resolve.ZoneID, constraint uint64, window time.Duration) error {
	if window < 0 {
		return fmt.Errorf("negative time window %v: %w", window, hwinfo.ErrInvalidValue)
	}
	return s.rapl.SetTimeWindowUS(raplZone(zone), constraint, uint64(window.Microseconds()))
}

func (s *System) SetI915Min(card uint64, frequency value.Frequency) error {
	return s.i915.SetMinMHz(card, frequency.Megahertz())
}

func (s *System) SetI915Max(card uint64, frequency value.Frequency) error {
	return s.i915.SetMaxMHz(card, frequency.Megahertz())
}

func (s *System) SetI915Boost(card uint64, frequency value.Frequency) error {
	return s.i915.SetBoostMHz(card, frequency.Megahertz())
}

func (s *System) SetNvmlGPUClocks(card uint64, minimum, maximum value.Frequency) error {
	if s.nvml == nil {
		return ErrNvmlDisabled
	}
	minMHz, err := narrow(minimum.Megahertz(), "MHz")
	if err != nil {
		return err
	}
	maxMHz, err := narrow(maximum.Megahertz(), "MHz")
	if err != nil {
		return err
	}
	return s.nvml.SetLockedClocks(card, minMHz, maxMHz)
}

func (s *System) ResetNvmlGPUClocks(card uint64) error {
	if s.nvml == nil {
		return ErrNvmlDisabled
	}
	return s.nvml.ResetLockedClocks(card)
}

func (s *System) SetNvmlPowerLimit(card uint64, limit value.Power) error {
	if s.nvml == nil {
		return ErrNvmlDisabled
	}
	milliwatts, err := narrow(limit.Milliwatts(), "mW")
	if err != nil {
		return err
	}
	return s.nvml.SetPowerLimit(card, milliwatts)
}

func (s *System) ResetNvmlPowerLimit(card uint64) error {
	if s.nvml == nil {
		return ErrNvmlDisabled
	}
	return s.nvml.ResetPowerLimit(card)
}

// I915Limits reads a card's current frequency limits.
func (s *System) I915Limits(card uint64) (I915Limits, error) {
	minMHz, maxMHz, boostMHz, err := s.i915.Limits(card)
	if err != nil {
		return I915Limits{}, err
	}
	return I915Limits{
		Min:   value.Frequency(minMHz) * value.Megahertz,
		Max:   value.Frequency(maxMHz) * value.Megahertz,
		Boost: value.Frequency(boostMHz) * value.Megahertz,
	}, nil
}

// RaplConstraint reads the current state of one constraint. Kernels
// that do not expose a constraint name leave Name empty.
func (s *System) RaplConstraint(zone resolve.ZoneID, constraint uint64) (RaplConstraint, error) {
	z := raplZone(zone)
	limit, err := s.rapl.PowerLimitUW(z, constraint)
	if err != nil {
		return RaplConstraint{}, err
	}
	window, err := s.rapl.TimeWindowUS(z, constraint)
	if err != nil {
		return RaplConstraint{}, err
	}
	name, err := s.rapl.ConstraintName(z, constraint)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return RaplConstraint{}, err
	}
	return RaplConstraint{
		Name:   name,
		Limit:  value.Power(limit),
		Window: time.Duration(window) * time.Microsecond,
	}, nil
}

// I915Limits is the frequency range of an i915 card.
type I915Limits struct {
	Min   value.Frequency
	Max   value.Frequency
	Boost value.Frequency
}

// RaplConstraint is the current setting of one RAPL constraint.
type RaplConstraint struct {
	Name   string
	Limit  value.Power
	Window time.Duration
}

func raplZone(zone resolve.ZoneID) rapl.Zone {
	return rapl.Zone{Package: zone.Package, Subzone: zone.Subzone, HasSubzone: zone.HasSubzone}
}

// narrow converts to the uint32 NVML takes.
func narrow(v uint64, unit string) (uint32, error) {
	if v > math.MaxUint32 {
		return 0, fmt.Errorf("%d %s exceeds the nvml range: %w", v, unit, hwinfo.ErrInvalidValue)
	}
	return uint32(v), nil
}
