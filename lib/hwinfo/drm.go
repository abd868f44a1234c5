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
)

// DRMCard is one /sys/class/drm/cardN entry.
type DRMCard struct {
	Index uint64

	// Driver is the kernel driver bound to the card's device.
	Driver string

	// Bus is the subsystem the device sits on ("pci").
	Bus string

	// Slot is the device name on that bus ("0000:00:02.0").
	Slot string
}

// BusID returns the card's "<bus>:<slot>" identifier.
func (c DRMCard) BusID() string {
	return c.Bus + ":" + c.Slot
}

// DRMBase returns the class/drm directory under sysRoot.
func DRMBase(sysRoot string) string {
	return filepath.Join(sysRoot, "class/drm")
}

// CardPath returns the sysfs directory of DRM card index.
func CardPath(sysRoot string, index uint64) string {
	return filepath.Join(DRMBase(sysRoot), "card"+strconv.FormatUint(index, 10))
}

// Cards enumerates DRM cards ordered by index. A system without a
// class/drm directory has no cards.
func Cards(sysRoot string) ([]DRMCard, error) {
	entries, err := os.ReadDir(DRMBase(sysRoot))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing drm cards: %w", err)
	}

	var cards []DRMCard
	for _, entry := range entries {
		name := entry.Name()
		// Match card0, card1, ... but not card0-DP-1, renderD128, etc.
		if !IsCardDevice(name) {
			continue
		}
		index, err := strconv.ParseUint(name[4:], 10, 64)
		if err != nil {
			continue
		}
		devicePath := filepath.Join(DRMBase(sysRoot), name, "device")
		card := DRMCard{
			Index:  index,
			Driver: ReadDriverName(devicePath),
			Bus:    ReadBusName(devicePath),
			Slot:   ParsePCIUevent(devicePath),
		}
		if card.Slot == "" {
			card.Slot = ReadDeviceName(devicePath)
		}
		cards = append(cards, card)
	}
	slices.SortFunc(cards, func(a, b DRMCard) int {
		switch {
		case a.Index < b.Index:
			return -1
		case a.Index > b.Index:
			return 1
		}
		return 0
	})
	return cards, nil
}

// IsCardDevice returns true for DRM card device names (card0, card1, ...)
// but not connectors (card0-DP-1) or render nodes (renderD128).
func IsCardDevice(name string) bool {
	if !strings.HasPrefix(name, "card") {
		return false
	}
	suffix := name[4:]
	if len(suffix) == 0 {
		return false
	}
	for _, character := range suffix {
		if character < '0' || character > '9' {
			return false
		}
	}
	return true
}

// ReadDriverName returns the kernel driver name for a device by
// reading the basename of the "driver" symlink in the device directory.
func ReadDriverName(devicePath string) string {
	return readLinkBase(filepath.Join(devicePath, "driver"))
}

// ReadBusName returns the bus a device sits on from the basename of
// its "subsystem" symlink.
func ReadBusName(devicePath string) string {
	return readLinkBase(filepath.Join(devicePath, "subsystem"))
}

// ReadDeviceName returns the basename of the resolved device
// directory, which is the device's name on its bus.
func ReadDeviceName(devicePath string) string {
	resolved, err := filepath.EvalSymlinks(devicePath)
	if err != nil {
		return ""
	}
	return filepath.Base(resolved)
}

func readLinkBase(path string) string {
	link, err := os.Readlink(path)
	if err != nil {
		return ""
	}
	return filepath.Base(link)
}

// ParsePCIUevent extracts the PCI slot from the device's uevent file.
// The uevent file contains lines like:
//
//	DRIVER=i915
//	PCI_SLOT_NAME=0000:00:02.0
func ParsePCIUevent(devicePath string) (pciSlot string) {
	data, err := os.ReadFile(filepath.Join(devicePath, "uevent"))
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := strings.Cut(line, "=")
		if ok && key == "PCI_SLOT_NAME" {
			return value
		}
	}
	return ""
}
