// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package nvidia sets locked graphics clocks and power management
// limits on NVIDIA GPUs through NVML (libnvidia-ml.so, loaded by
// github.com/NVIDIA/go-nvml at first use).
//
// Cards are addressed by DRM card index. The controller maps an index
// to the card's PCI slot from /sys/class/drm/cardN/device/uevent and
// asks NVML for the device with that bus id, so the card numbering
// matches the i915 side and the kernel's, not NVML's enumeration
// order.
//
// NVML is initialized lazily by the first operation and shut down by
// [Controller.Close]. Most write operations require root.
package nvidia

import (
	"errors"
	"fmt"
	"sync"

	"github.com/NVIDIA/go-nvml/pkg/nvml"

	"github.com/bureau-foundation/knobs/lib/hwinfo"
)

// ErrUnavailable means NVML could not be loaded or initialized.
var ErrUnavailable = errors.New("nvml unavailable")

// Error reports a failed NVML call.
type Error struct {
	Op     string
	Card   uint64
	Return nvml.Return
}

func (e *Error) Error() string {
	return fmt.Sprintf("nvml %s on card %d: %s", e.Op, e.Card, e.Return.Error())
}

// Unwrap maps NVML return codes onto the hwinfo error kinds.
func (e *Error) Unwrap() error {
	switch e.Return {
	case nvml.ERROR_NO_PERMISSION:
		return hwinfo.ErrPermission
	case nvml.ERROR_NOT_SUPPORTED, nvml.ERROR_NOT_FOUND:
		return hwinfo.ErrNotSupported
	case nvml.ERROR_INVALID_ARGUMENT:
		return hwinfo.ErrInvalidValue
	case nvml.ERROR_IN_USE:
		return hwinfo.ErrBusy
	case nvml.ERROR_LIBRARY_NOT_FOUND, nvml.ERROR_DRIVER_NOT_LOADED, nvml.ERROR_UNINITIALIZED:
		return ErrUnavailable
	}
	return nil
}

// Library is the subset of NVML the controller calls.
type Library interface {
	Init() nvml.Return
	Shutdown() nvml.Return
	DeviceByPCIBusID(busID string) (Device, nvml.Return)
}

// Device is the subset of an NVML device handle the controller calls.
// nvml.Device satisfies it.
type Device interface {
	SetGpuLockedClocks(minGpuClockMHz uint32, maxGpuClockMHz uint32) nvml.Return
	ResetGpuLockedClocks() nvml.Return
	SetPowerManagementLimit(limit uint32) nvml.Return
	GetPowerManagementDefaultLimit() (uint32, nvml.Return)
}

// System is the process-wide NVML library.
type System struct{}

func (System) Init() nvml.Return     { return nvml.Init() }
func (System) Shutdown() nvml.Return { return nvml.Shutdown() }

func (System) DeviceByPCIBusID(busID string) (Device, nvml.Return) {
	device, ret := nvml.DeviceGetHandleByPciBusId(busID)
	if ret != nvml.SUCCESS {
		return nil, ret
	}
	return device, ret
}

// Controller applies NVML settings to DRM cards.
type Controller struct {
	sysRoot string
	library Library

	mu sync.Mutex
	// started is set once Init has been attempted; initErr holds its
	// failure, or errClosed after Close.
	started bool
	initErr error
	devices map[uint64]Device
}

var errClosed = fmt.Errorf("%w: controller closed", ErrUnavailable)

// NewController returns a Controller that resolves cards under sysRoot
// and talks to library (normally [System]).
func NewController(sysRoot string, library Library) *Controller {
	return &Controller{
		sysRoot: sysRoot,
		library: library,
		devices: make(map[uint64]Device),
	}
}

// SetLockedClocks pins the card's graphics clock to [minMHz, maxMHz].
func (c *Controller) SetLockedClocks(card uint64, minMHz, maxMHz uint32) error {
	return c.call(card, "set locked clocks", func(device Device) nvml.Return {
		return device.SetGpuLockedClocks(minMHz, maxMHz)
	})
}

// ResetLockedClocks returns the graphics clock to driver control.
func (c *Controller) ResetLockedClocks(card uint64) error {
	return c.call(card, "reset locked clocks", Device.ResetGpuLockedClocks)
}

// SetPowerLimit sets the card's power management limit in milliwatts.
func (c *Controller) SetPowerLimit(card uint64, milliwatts uint32) error {
	return c.call(card, "set power limit", func(device Device) nvml.Return {
		return device.SetPowerManagementLimit(milliwatts)
	})
}

// ResetPowerLimit restores the card's default power management limit.
func (c *Controller) ResetPowerLimit(card uint64) error {
	return c.call(card, "reset power limit", func(device Device) nvml.Return {
		limit, ret := device.GetPowerManagementDefaultLimit()
		if ret != nvml.SUCCESS {
			return ret
		}
		return device.SetPowerManagementLimit(limit)
	})
}

// Close shuts NVML down if an operation initialized it.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	live := c.started && c.initErr == nil
	c.started = true
	c.initErr = errClosed
	clear(c.devices)
	if !live {
		return nil
	}
	if ret := c.library.Shutdown(); ret != nvml.SUCCESS {
		return &Error{Op: "shutdown", Return: ret}
	}
	return nil
}

func (c *Controller) call(card uint64, op string, fn func(Device) nvml.Return) error {
	device, err := c.device(card)
	if err != nil {
		return err
	}
	if ret := fn(device); ret != nvml.SUCCESS {
		return &Error{Op: op, Card: card, Return: ret}
	}
	return nil
}

func (c *Controller) device(card uint64) (Device, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		c.started = true
		if ret := c.library.Init(); ret != nvml.SUCCESS {
			c.initErr = fmt.Errorf("%w: %s", ErrUnavailable, ret.Error())
		}
	}
	if c.initErr != nil {
		return nil, c.initErr
	}

	if device, ok := c.devices[card]; ok {
		return device, nil
	}
	slot := hwinfo.ParsePCIUevent(hwinfo.CardPath(c.sysRoot, card) + "/device")
	if slot == "" {
		return nil, fmt.Errorf("drm card %d has no pci slot: %w", card, hwinfo.ErrNotSupported)
	}
	device, ret := c.library.DeviceByPCIBusID(slot)
	if ret != nvml.SUCCESS {
		return nil, &Error{Op: "lookup " + slot, Card: card, Return: ret}
	}
	c.devices[card] = device
	return device, nil
}
