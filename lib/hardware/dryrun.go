// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hardware

import (
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/bureau-foundation/knobs/lib/group"
	"github.com/bureau-foundation/knobs/lib/resolve"
	"github.com/bureau-foundation/knobs/lib/value"
)

var _ group.Hardware = (*DryRun)(nil)

// Live is the read side of the machine a DryRun simulates against.
type Live interface {
	OnlineCPUs() (resolve.IDSet, error)
	OfflineCPUs() (resolve.IDSet, error)
	I915Limits(card uint64) (I915Limits, error)
	RaplConstraint(zone resolve.ZoneID, constraint uint64) (RaplConstraint, error)
}

// DryRun logs every write instead of performing it.
type DryRun struct {
	live   Live
	logger *slog.Logger

	mu sync.Mutex
	// transitions holds the simulated online state of CPUs the engine
	// has toggled, overlaid on the live lists.
	transitions map[uint64]bool
}

// NewDryRun returns a DryRun reading current state from live and
// logging skipped writes to logger at Info. i915 and RAPL writes log
// the value they would replace.
func NewDryRun(live Live, logger *slog.Logger) *DryRun {
	return &DryRun{live: live, logger: logger, transitions: make(map[uint64]bool)}
}

func (d *DryRun) OnlineCPUs() (resolve.IDSet, error) {
	online, _, err := d.state()
	if err != nil {
		return nil, err
	}
	return online, nil
}

func (d *DryRun) OfflineCPUs() (resolve.IDSet, error) {
	_, offline, err := d.state()
	if err != nil {
		return nil, err
	}
	return offline, nil
}

func (d *DryRun) state() (online, offline resolve.IDSet, err error) {
	if online, err = d.live.OnlineCPUs(); err != nil {
		return nil, nil, err
	}
	if offline, err = d.live.OfflineCPUs(); err != nil {
		return nil, nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	var up, down []uint64
	for id, isOnline := range d.transitions {
		if isOnline {
			up = append(up, id)
		} else {
			down = append(down, id)
		}
	}
	upSet, downSet := resolve.NewIDSet(up...), resolve.NewIDSet(down...)
	online = online.Difference(downSet).Union(upSet)
	offline = offline.Difference(upSet).Union(downSet)
	return online, offline, nil
}

func (d *DryRun) skip(op, target string, setting any, current ...any) error {
	args := append([]any{"op", op, "target", target, "value", setting}, current...)
	d.logger.Info("dry run: skipping write", args...)
	return nil
}

// i915Current returns the card's current limits as log attributes, or
// nothing if they cannot be read.
func (d *DryRun) i915Current(card uint64) []any {
	limits, err := d.live.I915Limits(card)
	if err != nil {
		d.logger.Debug("dry run: reading current i915 limits", "target", cardTarget(card), "error", err)
		return nil
	}
	return []any{"current_min", limits.Min, "current_max", limits.Max, "current_boost", limits.Boost}
}

func (d *DryRun) raplCurrent(zone resolve.ZoneID, constraint uint64) []any {
	current, err := d.live.RaplConstraint(zone, constraint)
	if err != nil {
		d.logger.Debug("dry run: reading current rapl constraint",
			"target", raplTarget(zone, constraint), "error", err)
		return nil
	}
	attrs := []any{"current_limit", current.Limit, "current_window", current.Window}
	if current.Name != "" {
		attrs = append(attrs, "constraint_name", current.Name)
	}
	return attrs
}

func (d *DryRun) SetCPUOnline(id uint64, online bool) error {
	d.mu.Lock()
	d.transitions[id] = online
	d.mu.Unlock()
	return d.skip("set online", cpuTarget(id), online)
}

func (d *DryRun) SetGovernor(id uint64, governor string) error {
	return d.skip("set governor", cpuTarget(id), governor)
}

func (d *DryRun) SetScalingMin(id uint64, frequency value.Frequency) error {
	return d.skip("set scaling min", cpuTarget(id), frequency)
}

func (d *DryRun) SetScalingMax(id uint64, frequency value.Frequency) error {
	return d.skip("set scaling max", cpuTarget(id), frequency)
}

func (d *DryRun) SetEPB(id uint64, epb uint64) error {
	return d.skip("set epb", cpuTarget(id), epb)
}

func (d *DryRun) SetEPP(id uint64, epp string) error {
	return d.skip("set epp", cpuTarget(id), epp)
}

func (d *DryRun) SetRaplLimit(zone resolve.ZoneID, constraint uint64, limit value.Power) error {
	return d.skip("set rapl limit", raplTarget(zone, constraint), limit, d.raplCurrent(zone, constraint)...)
}

func (d *DryRun) SetRaplWindow(zone resolve.ZoneID, constraint uint64, window time.Duration) error {
	return d.skip("set rapl window", raplTarget(zone, constraint), window, d.raplCurrent(zone, constraint)...)
}

func (d *DryRun) SetI915Min(card uint64, frequency value.Frequency) error {
	return d.skip("set i915 min", cardTarget(card), frequency, d.i915Current(card)...)
}

func (d *DryRun) SetI915Max(card uint64, frequency value.Frequency) error {
	return d.skip("set i915 max", cardTarget(card), frequency, d.i915Current(card)...)
}

func (d *DryRun) SetI915Boost(card uint64, frequency value.Frequency) error {
	return d.skip("set i915 boost", cardTarget(card), frequency, d.i915Current(card)...)
}

func (d *DryRun) SetNvmlGPUClocks(card uint64, minimum, maximum value.Frequency) error {
	return d.skip("set nvml gpu clocks", cardTarget(card), minimum.String()+".."+maximum.String())
}

func (d *DryRun) ResetNvmlGPUClocks(card uint64) error {
	return d.skip("reset nvml gpu clocks", cardTarget(card), nil)
}

func (d *DryRun) SetNvmlPowerLimit(card uint64, limit value.Power) error {
	return d.skip("set nvml power limit", cardTarget(card), limit)
}

func (d *DryRun) ResetNvmlPowerLimit(card uint64) error {
	return d.skip("reset nvml power limit", cardTarget(card), nil)
}

func cpuTarget(id uint64) string {
	return "cpu " + strconv.FormatUint(id, 10)
}

func cardTarget(card uint64) string {
	return "drm card " + strconv.FormatUint(card, 10)
}

func raplTarget(zone resolve.ZoneID, constraint uint64) string {
	return "rapl " + zone.String() + " constraint " + strconv.FormatUint(constraint, 10)
}
