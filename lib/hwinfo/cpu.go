// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hwinfo

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"k8s.io/utils/cpuset"
)

// CPU reads and writes per-CPU attributes under devices/system/cpu.
type CPU struct {
	// base is <sysRoot>/devices/system/cpu.
	base string
}

// NewCPU returns a CPU rooted at sysRoot ("/sys" in production).
func NewCPU(sysRoot string) *CPU {
	return &CPU{base: filepath.Join(sysRoot, "devices/system/cpu")}
}

// IDs returns the ids of every cpuN directory, sorted.
func (c *CPU) IDs() ([]uint64, error) {
	entries, err := os.ReadDir(c.base)
	if err != nil {
		return nil, fmt.Errorf("listing cpus: %w", err)
	}
	var ids []uint64
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "cpu") {
			continue
		}
		// Filter to cpuN directories (skip cpufreq, cpuidle, etc.)
		id, err := strconv.ParseUint(name[3:], 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// Online returns the ids in the kernel's online cpulist.
func (c *CPU) Online() ([]uint64, error) {
	return c.readList("online")
}

// Offline returns the ids in the kernel's offline cpulist. The file is
// empty when every CPU is online.
func (c *CPU) Offline() ([]uint64, error) {
	return c.readList("offline")
}

func (c *CPU) readList(name string) ([]uint64, error) {
	raw, err := ReadString(filepath.Join(c.base, name))
	if err != nil {
		return nil, fmt.Errorf("reading %s cpus: %w", name, err)
	}
	set, err := cpuset.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing %s cpus %q: %w", name, raw, err)
	}
	list := set.List()
	ids := make([]uint64, len(list))
	for i, id := range list {
		ids[i] = uint64(id)
	}
	return ids, nil
}

func (c *CPU) path(id uint64, elem ...string) string {
	return filepath.Join(append([]string{c.base, "cpu" + strconv.FormatUint(id, 10)}, elem...)...)
}

// SetOnline writes cpuN/online.
func (c *CPU) SetOnline(id uint64, online bool) error {
	value := "0"
	if online {
		value = "1"
	}
	return WriteString(c.path(id, "online"), value)
}

// SetGovernor writes cpufreq/scaling_governor.
func (c *CPU) SetGovernor(id uint64, governor string) error {
	return WriteString(c.path(id, "cpufreq", "scaling_governor"), governor)
}

// SetScalingMinKHz writes cpufreq/scaling_min_freq.
func (c *CPU) SetScalingMinKHz(id uint64, khz uint64) error {
	return WriteUint(c.path(id, "cpufreq", "scaling_min_freq"), khz)
}

// SetScalingMaxKHz writes cpufreq/scaling_max_freq.
func (c *CPU) SetScalingMaxKHz(id uint64, khz uint64) error {
	return WriteUint(c.path(id, "cpufreq", "scaling_max_freq"), khz)
}

// SetEnergyPerfBias writes power/energy_perf_bias.
func (c *CPU) SetEnergyPerfBias(id uint64, bias uint64) error {
	return WriteUint(c.path(id, "power", "energy_perf_bias"), bias)
}

// SetEnergyPerformancePreference writes
// cpufreq/energy_performance_preference.
func (c *CPU) SetEnergyPerformancePreference(id uint64, preference string) error {
	return WriteString(c.path(id, "cpufreq", "energy_performance_preference"), preference)
}
