// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package nvidia

import (
	"errors"
	"testing"

	"github.com/NVIDIA/go-nvml/pkg/nvml"

	"github.com/bureau-foundation/knobs/lib/hwinfo"
	"github.com/bureau-foundation/knobs/lib/testutil"
)

type fakeDevice struct {
	busID        string
	lockedMin    uint32
	lockedMax    uint32
	locked       bool
	powerLimit   uint32
	defaultLimit uint32
	fail         nvml.Return
}

func (d *fakeDevice) SetGpuLockedClocks(minMHz, maxMHz uint32) nvml.Return {
	if d.fail != nvml.SUCCESS {
		return d.fail
	}
	d.lockedMin, d.lockedMax, d.locked = minMHz, maxMHz, true
	return nvml.SUCCESS
}

func (d *fakeDevice) ResetGpuLockedClocks() nvml.Return {
	if d.fail != nvml.SUCCESS {
		return d.fail
	}
	d.lockedMin, d.lockedMax, d.locked = 0, 0, false
	return nvml.SUCCESS
}

func (d *fakeDevice) SetPowerManagementLimit(limit uint32) nvml.Return {
	if d.fail != nvml.SUCCESS {
		return d.fail
	}
	d.powerLimit = limit
	return nvml.SUCCESS
}

func (d *fakeDevice) GetPowerManagementDefaultLimit() (uint32, nvml.Return) {
	return d.defaultLimit, nvml.SUCCESS
}

type fakeLibrary struct {
	initReturn nvml.Return
	devices    map[string]*fakeDevice
	inits      int
	shutdowns  int
	lookups    int
}

func (l *fakeLibrary) Init() nvml.Return {
	l.inits++
	return l.initReturn
}

func (l *fakeLibrary) Shutdown() nvml.Return {
	l.shutdowns++
	return nvml.SUCCESS
}

func (l *fakeLibrary) DeviceByPCIBusID(busID string) (Device, nvml.Return) {
	l.lookups++
	device, ok := l.devices[busID]
	if !ok {
		return nil, nvml.ERROR_NOT_FOUND
	}
	return device, nvml.SUCCESS
}

// setup returns a sysfs root where card1 sits at 0000:01:00.0 and a
// library that knows one device there.
func setup(t *testing.T) (string, *fakeLibrary, *fakeDevice) {
	t.Helper()
	root := t.TempDir()
	testutil.Symlink(t, root, "class/drm/card1/device/driver", "../../../bus/pci/drivers/nvidia")
	testutil.WriteFile(t, root, "class/drm/card1/device/uevent", "DRIVER=nvidia\nPCI_SLOT_NAME=0000:01:00.0\n")
	testutil.WriteFile(t, root, "class/drm/card2/device/uevent", "DRIVER=nvidia\nPCI_SLOT_NAME=0000:02:00.0\n")
	device := &fakeDevice{busID: "0000:01:00.0", powerLimit: 250000, defaultLimit: 320000}
	library := &fakeLibrary{devices: map[string]*fakeDevice{device.busID: device}}
	return root, library, device
}

func TestLockedClocks(t *testing.T) {
	root, library, device := setup(t)
	controller := NewController(root, library)

	if err := controller.SetLockedClocks(1, 300, 1500); err != nil {
		t.Fatalf("SetLockedClocks: %v", err)
	}
	if !device.locked || device.lockedMin != 300 || device.lockedMax != 1500 {
		t.Errorf("device clocks = %v %d..%d, want locked 300..1500", device.locked, device.lockedMin, device.lockedMax)
	}
	if err := controller.ResetLockedClocks(1); err != nil {
		t.Fatalf("ResetLockedClocks: %v", err)
	}
	if device.locked {
		t.Error("clocks still locked after reset")
	}
	if library.inits != 1 {
		t.Errorf("Init called %d times, want 1", library.inits)
	}
	if library.lookups != 1 {
		t.Errorf("device looked up %d times, want 1 (cached)", library.lookups)
	}
}

func TestPowerLimit(t *testing.T) {
	root, library, device := setup(t)
	controller := NewController(root, library)

	if err := controller.SetPowerLimit(1, 150000); err != nil {
		t.Fatalf("SetPowerLimit: %v", err)
	}
	if device.powerLimit != 150000 {
		t.Errorf("power limit = %d, want 150000", device.powerLimit)
	}
	if err := controller.ResetPowerLimit(1); err != nil {
		t.Fatalf("ResetPowerLimit: %v", err)
	}
	if device.powerLimit != device.defaultLimit {
		t.Errorf("power limit = %d, want default %d", device.powerLimit, device.defaultLimit)
	}
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		ret  nvml.Return
		want error
	}{
		{nvml.ERROR_NO_PERMISSION, hwinfo.ErrPermission},
		{nvml.ERROR_NOT_SUPPORTED, hwinfo.ErrNotSupported},
		{nvml.ERROR_INVALID_ARGUMENT, hwinfo.ErrInvalidValue},
		{nvml.ERROR_IN_USE, hwinfo.ErrBusy},
	}
	for _, test := range tests {
		root, library, device := setup(t)
		device.fail = test.ret
		err := NewController(root, library).SetPowerLimit(1, 1000)
		if !errors.Is(err, test.want) {
			t.Errorf("return %d: error %v should match %v", test.ret, err, test.want)
		}
		var nvmlError *Error
		if !errors.As(err, &nvmlError) || nvmlError.Card != 1 {
			t.Errorf("return %d: error %v should be an *Error for card 1", test.ret, err)
		}
	}
}

func TestUnknownDevice(t *testing.T) {
	root, library, _ := setup(t)
	controller := NewController(root, library)

	// card2 has a slot NVML does not know.
	if err := controller.SetLockedClocks(2, 300, 600); !errors.Is(err, hwinfo.ErrNotSupported) {
		t.Errorf("card2: %v, want ErrNotSupported", err)
	}
	// card7 has no sysfs entry at all.
	if err := controller.SetLockedClocks(7, 300, 600); !errors.Is(err, hwinfo.ErrNotSupported) {
		t.Errorf("card7: %v, want ErrNotSupported", err)
	}
}

func TestInitFailure(t *testing.T) {
	root, library, _ := setup(t)
	library.initReturn = nvml.ERROR_LIBRARY_NOT_FOUND
	controller := NewController(root, library)

	for range 2 {
		if err := controller.SetPowerLimit(1, 1000); !errors.Is(err, ErrUnavailable) {
			t.Fatalf("SetPowerLimit: %v, want ErrUnavailable", err)
		}
	}
	if library.inits != 1 {
		t.Errorf("Init called %d times, want 1", library.inits)
	}
	if err := controller.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if library.shutdowns != 0 {
		t.Errorf("Shutdown called %d times after failed init, want 0", library.shutdowns)
	}
}

func TestClose(t *testing.T) {
	root, library, _ := setup(t)
	controller := NewController(root, library)

	// Closing an unused controller never touches NVML.
	if err := NewController(root, library).Close(); err != nil {
		t.Fatalf("Close unused: %v", err)
	}
	if library.inits != 0 || library.shutdowns != 0 {
		t.Fatalf("unused controller called Init %d / Shutdown %d times", library.inits, library.shutdowns)
	}

	if err := controller.ResetLockedClocks(1); err != nil {
		t.Fatalf("ResetLockedClocks: %v", err)
	}
	if err := controller.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := controller.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if library.shutdowns != 1 {
		t.Errorf("Shutdown called %d times, want 1", library.shutdowns)
	}
	if err := controller.ResetLockedClocks(1); !errors.Is(err, ErrUnavailable) {
		t.Errorf("after Close: %v, want ErrUnavailable", err)
	}
}
