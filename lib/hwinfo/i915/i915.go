// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package i915 writes the graphics frequency limits of Intel GPUs
// bound to the i915 kernel driver. The driver exposes them per DRM
// card as gt_min_freq_mhz, gt_max_freq_mhz and gt_boost_freq_mhz in
// /sys/class/drm/cardN. The driver rejects a minimum above the current
// maximum (and vice versa) with EINVAL.
package i915

import (
	"path/filepath"

	"github.com/bureau-foundation/knobs/lib/hwinfo"
)

const (
	minAttribute   = "gt_min_freq_mhz"
	maxAttribute   = "gt_max_freq_mhz"
	boostAttribute = "gt_boost_freq_mhz"
)

// Controller writes i915 frequency attributes.
type Controller struct {
	// sysRoot is the root of the sysfs filesystem. "/sys" in
	// production; overridden in tests with synthetic filesystems.
	sysRoot string
}

// NewController returns a Controller rooted at sysRoot.
func NewController(sysRoot string) *Controller {
	return &Controller{sysRoot: sysRoot}
}

// SetMinMHz writes the card's minimum graphics frequency.
func (c *Controller) SetMinMHz(card uint64, mhz uint64) error {
	return hwinfo.WriteUint(c.path(card, minAttribute), mhz)
}

// SetMaxMHz writes the card's maximum graphics frequency.
func (c *Controller) SetMaxMHz(card uint64, mhz uint64) error {
	return hwinfo.WriteUint(c.path(card, maxAttribute), mhz)
}

// SetBoostMHz writes the card's boost frequency.
func (c *Controller) SetBoostMHz(card uint64, mhz uint64) error {
	return hwinfo.WriteUint(c.path(card, boostAttribute), mhz)
}

// Limits reads the current minimum, maximum, and boost frequencies.
func (c *Controller) Limits(card uint64) (minMHz, maxMHz, boostMHz uint64, err error) {
	if minMHz, err = hwinfo.ReadUint(c.path(card, minAttribute)); err != nil {
		return 0, 0, 0, err
	}
	if maxMHz, err = hwinfo.ReadUint(c.path(card, maxAttribute)); err != nil {
		return 0, 0, 0, err
	}
	if boostMHz, err = hwinfo.ReadUint(c.path(card, boostAttribute)); err != nil {
		return 0, 0, 0, err
	}
	return minMHz, maxMHz, boostMHz, nil
}

func (c *Controller) path(card uint64, attribute string) string {
	return filepath.Join(hwinfo.CardPath(c.sysRoot, card), attribute)
}
