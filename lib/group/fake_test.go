// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package group

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/bureau-foundation/knobs/lib/resolve"
	"github.com/bureau-foundation/knobs/lib/value"
)

// fakeHardware records every write in order and keeps the resulting
// state so tests can check both sequencing and final values.
type fakeHardware struct {
	online map[uint64]bool
	values map[string]string
	log    []string

	// fail maps a log entry to the error its write returns.
	fail map[string]error
}

func newFakeHardware(online map[uint64]bool) *fakeHardware {
	return &fakeHardware{
		online: online,
		values: make(map[string]string),
		fail:   make(map[string]error),
	}
}

func (h *fakeHardware) write(key, v string) error {
	entry := key + "=" + v
	if err := h.fail[entry]; err != nil {
		return err
	}
	h.log = append(h.log, entry)
	h.values[key] = v
	return nil
}

func (h *fakeHardware) cpusWhere(online bool) resolve.IDSet {
	var ids []uint64
	for id, state := range h.online {
		if state == online {
			ids = append(ids, id)
		}
	}
	return resolve.NewIDSet(ids...)
}

func (h *fakeHardware) OnlineCPUs() (resolve.IDSet, error)  { return h.cpusWhere(true), nil }
func (h *fakeHardware) OfflineCPUs() (resolve.IDSet, error) { return h.cpusWhere(false), nil }

func (h *fakeHardware) SetCPUOnline(id uint64, online bool) error {
	if err := h.write(fmt.Sprintf("cpu%d/online", id), fmt.Sprint(online)); err != nil {
		return err
	}
	h.online[id] = online
	return nil
}

func (h *fakeHardware) SetGovernor(id uint64, governor string) error {
	return h.write(fmt.Sprintf("cpu%d/governor", id), governor)
}

func (h *fakeHardware) SetScalingMin(id uint64, f value.Frequency) error {
	return h.write(fmt.Sprintf("cpu%d/min", id), fmt.Sprint(f.Kilohertz()))
}

func (h *fakeHardware) SetScalingMax(id uint64, f value.Frequency) error {
	return h.write(fmt.Sprintf("cpu%d/max", id), fmt.Sprint(f.Kilohertz()))
}

func (h *fakeHardware) SetEPB(id uint64, epb uint64) error {
	return h.write(fmt.Sprintf("cpu%d/epb", id), fmt.Sprint(epb))
}

func (h *fakeHardware) SetEPP(id uint64, epp string) error {
	return h.write(fmt.Sprintf("cpu%d/epp", id), epp)
}

func (h *fakeHardware) SetRaplLimit(zone resolve.ZoneID, constraint uint64, limit value.Power) error {
	return h.write(fmt.Sprintf("rapl%d/c%d/limit", zone.Package, constraint), fmt.Sprint(limit.Microwatts()))
}

func (h *fakeHardware) SetRaplWindow(zone resolve.ZoneID, constraint uint64, window time.Duration) error {
	return h.write(fmt.Sprintf("rapl%d/c%d/window", zone.Package, constraint), fmt.Sprint(window.Microseconds()))
}

func (h *fakeHardware) SetI915Min(card uint64, f value.Frequency) error {
	return h.write(fmt.Sprintf("i915-%d/min", card), fmt.Sprint(f.Megahertz()))
}

func (h *fakeHardware) SetI915Max(card uint64, f value.Frequency) error {
	return h.write(fmt.Sprintf("i915-%d/max", card), fmt.Sprint(f.Megahertz()))
}

func (h *fakeHardware) SetI915Boost(card uint64, f value.Frequency) error {
	return h.write(fmt.Sprintf("i915-%d/boost", card), fmt.Sprint(f.Megahertz()))
}

func (h *fakeHardware) SetNvmlGPUClocks(card uint64, min, max value.Frequency) error {
	return h.write(fmt.Sprintf("nvml-%d/clocks", card), fmt.Sprintf("%d-%d", min.Megahertz(), max.Megahertz()))
}

func (h *fakeHardware) ResetNvmlGPUClocks(card uint64) error {
	return h.write(fmt.Sprintf("nvml-%d/clocks", card), "reset")
}

func (h *fakeHardware) SetNvmlPowerLimit(card uint64, limit value.Power) error {
	return h.write(fmt.Sprintf("nvml-%d/power", card), fmt.Sprint(limit.Milliwatts()))
}

func (h *fakeHardware) ResetNvmlPowerLimit(card uint64) error {
	return h.write(fmt.Sprintf("nvml-%d/power", card), "reset")
}

// indexOf returns the position of entry in the write log, or -1.
func (h *fakeHardware) indexOf(entry string) int {
	return slices.Index(h.log, entry)
}

// fakeSource is an eight-CPU system with one card of each driver and
// one RAPL package with two constraints.
type fakeSource struct{}

func (fakeSource) CPUIDs() ([]uint64, error) { return []uint64{0, 1, 2, 3, 4, 5, 6, 7}, nil }

func (fakeSource) Cards() ([]resolve.Card, error) {
	return []resolve.Card{
		{Index: 0, Driver: "i915", BusID: "pci:0000:00:02.0"},
		{Index: 1, Driver: "nvidia", BusID: "pci:0000:01:00.0"},
	}, nil
}

func (fakeSource) ZoneExists(zone resolve.ZoneID) (bool, error) {
	return zone.Package == 0 && (!zone.HasSubzone || zone.Subzone == 0), nil
}

func (fakeSource) ConstraintExists(zone resolve.ZoneID, constraint uint64) (bool, error) {
	return constraint <= 1, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
