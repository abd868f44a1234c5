// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package group

import (
	"bytes"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/knobs/lib/clock"
	"github.com/bureau-foundation/knobs/lib/resolve"
	"github.com/bureau-foundation/knobs/lib/value"
)

func ptr[T any](v T) *T { return &v }

func newTestEngine(hw Hardware) (*Engine, *clock.FakeClock) {
	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	return NewEngine(hw, c, discardLogger()), c
}

// fourCPUs has cpu 0 and 1 online, 2 and 3 offline.
func fourCPUs() map[uint64]bool {
	return map[uint64]bool{0: true, 1: true, 2: false, 3: false}
}

func TestApplyOnlinesOfflineCPUsForPolicy(t *testing.T) {
	hw := newFakeHardware(fourCPUs())
	engine, c := newTestEngine(hw)

	list := List{{CPU: CPU{IDs: resolve.IDSet{1, 2}, Governor: ptr("performance")}}}
	if err := engine.Apply(list); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	want := []string{
		"cpu2/online=true",
		"cpu1/governor=performance",
		"cpu2/governor=performance",
		"cpu2/online=false",
	}
	if !slices.Equal(hw.log, want) {
		t.Errorf("write log = %q, want %q", hw.log, want)
	}
	if !maps.Equal(hw.online, fourCPUs()) {
		t.Errorf("online state = %v, want restored %v", hw.online, fourCPUs())
	}
	wantSleeps := []time.Duration{OnlineSettle, PolicySettle, OnlineSettle}
	if got := c.Sleeps(); !slices.Equal(got, wantSleeps) {
		t.Errorf("sleeps = %v, want %v", got, wantSleeps)
	}
}

func TestApplyLogsElapsed(t *testing.T) {
	hw := newFakeHardware(fourCPUs())
	var logs bytes.Buffer
	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	engine := NewEngine(hw, c, logger)

	list := List{{CPU: CPU{IDs: resolve.IDSet{1, 2}, Governor: ptr("performance")}}}
	if err := engine.Apply(list); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := `msg="applied argument groups" groups=1 elapsed=700ms`
	if !strings.Contains(logs.String(), want) {
		t.Errorf("log missing %q:\n%s", want, logs.String())
	}
}

func TestApplyNoTransitionsNoOnlineSettle(t *testing.T) {
	hw := newFakeHardware(fourCPUs())
	engine, c := newTestEngine(hw)

	list := List{
		{CPU: CPU{IDs: resolve.IDSet{0}, Max: ptr(2 * value.Gigahertz)}},
		{CPU: CPU{IDs: resolve.IDSet{1}, EPB: ptr(uint64(6)), EPP: ptr("power")}},
	}
	if err := engine.Apply(list); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := []string{"cpu0/max=2000000", "cpu1/epb=6", "cpu1/epp=power"}
	if !slices.Equal(hw.log, want) {
		t.Errorf("write log = %q, want %q", hw.log, want)
	}
	wantSleeps := []time.Duration{PolicySettle, PolicySettle}
	if got := c.Sleeps(); !slices.Equal(got, wantSleeps) {
		t.Errorf("sleeps = %v, want %v", got, wantSleeps)
	}
}

func TestApplyExplicitOnlineAfterAllPolicy(t *testing.T) {
	hw := newFakeHardware(fourCPUs())
	engine, _ := newTestEngine(hw)

	list := List{
		{CPU: CPU{IDs: resolve.IDSet{1}, Governor: ptr("powersave")}},
		{CPU: CPU{IDs: resolve.IDSet{1, 3}, Online: ptr(false), Min: ptr(800 * value.Megahertz)}},
		{CPU: CPU{IDs: resolve.IDSet{2}, Online: ptr(true)}},
	}
	if err := engine.Apply(list); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	lastPolicy := -1
	for i, entry := range hw.log {
		switch entry {
		case "cpu1/governor=powersave", "cpu1/min=800000", "cpu3/min=800000":
			lastPolicy = i
		}
	}
	explicitOffline := hw.indexOf("cpu1/online=false")
	explicitOnline := hw.indexOf("cpu2/online=true")
	if lastPolicy < 0 || explicitOffline < 0 || explicitOnline < 0 {
		t.Fatalf("missing writes in log %q", hw.log)
	}
	if explicitOffline < lastPolicy || explicitOnline < lastPolicy {
		t.Errorf("explicit online writes precede policy writes: %q", hw.log)
	}

	want := map[uint64]bool{0: true, 1: false, 2: true, 3: false}
	if !maps.Equal(hw.online, want) {
		t.Errorf("online state = %v, want %v", hw.online, want)
	}
}

func TestApplyPolicyFailureRestoresAndTagsGroup(t *testing.T) {
	hw := newFakeHardware(fourCPUs())
	writeErr := errors.New("invalid argument")
	hw.fail["cpu3/governor=bogus"] = writeErr
	engine, _ := newTestEngine(hw)

	list := List{
		{CPU: CPU{IDs: resolve.IDSet{0, 2}, Governor: ptr("performance")}},
		{CPU: CPU{IDs: resolve.IDSet{3}, Governor: ptr("bogus")}},
		{I915: I915{IDs: resolve.IDSet{0}, Max: ptr(value.Gigahertz)}},
	}
	err := engine.Apply(list)

	var groupErr *GroupError
	if !errors.As(err, &groupErr) || groupErr.Index != 2 {
		t.Fatalf("error = %v, want *GroupError with index 2", err)
	}
	var applyErr *ApplyError
	if !errors.As(err, &applyErr) || applyErr.Target != "cpu 3" {
		t.Errorf("error = %v, want *ApplyError on cpu 3", err)
	}
	if !errors.Is(err, writeErr) {
		t.Errorf("error does not wrap the write failure")
	}

	if hw.values["cpu0/governor"] != "performance" || hw.values["cpu2/governor"] != "performance" {
		t.Errorf("group 1 policy not kept: %v", hw.values)
	}
	if !maps.Equal(hw.online, fourCPUs()) {
		t.Errorf("online state = %v, want restored %v", hw.online, fourCPUs())
	}
	if _, written := hw.values["i915-0/max"]; written {
		t.Error("group 3 was applied after a policy failure")
	}
}

func TestApplyRestoreFailureKeepsPrimaryError(t *testing.T) {
	hw := newFakeHardware(fourCPUs())
	policyErr := errors.New("device busy")
	hw.fail["cpu2/max=1000000"] = policyErr
	hw.fail["cpu2/online=false"] = errors.New("restore failed")
	engine, _ := newTestEngine(hw)

	list := List{{CPU: CPU{IDs: resolve.IDSet{2, 3}, Max: ptr(value.Gigahertz)}}}
	err := engine.Apply(list)
	if !errors.Is(err, policyErr) {
		t.Fatalf("error = %v, want the policy write failure", err)
	}
	var groupErr *GroupError
	if !errors.As(err, &groupErr) || groupErr.Index != 1 {
		t.Errorf("error = %v, want group index 1", err)
	}
	// cpu 3 is still restored even though cpu 2 could not be.
	if hw.online[3] {
		t.Error("cpu 3 left online after failed policy write")
	}
}

func TestApplyPrepareFailureAbortsBeforePolicy(t *testing.T) {
	hw := newFakeHardware(fourCPUs())
	hw.fail["cpu3/online=true"] = errors.New("permission denied")
	engine, _ := newTestEngine(hw)

	list := List{
		{CPU: CPU{IDs: resolve.IDSet{0}, Governor: ptr("performance")}},
		{CPU: CPU{IDs: resolve.IDSet{3}, Governor: ptr("performance")}},
	}
	err := engine.Apply(list)

	var groupErr *GroupError
	if !errors.As(err, &groupErr) || groupErr.Index != 2 {
		t.Fatalf("error = %v, want group index 2 (owner of cpu 3)", err)
	}
	if _, written := hw.values["cpu0/governor"]; written {
		t.Error("policy written after preparation failed")
	}
}

func TestApplyPrepareFailureRestoresOnlinedCPUs(t *testing.T) {
	hw := newFakeHardware(fourCPUs())
	hw.fail["cpu3/online=true"] = errors.New("permission denied")
	engine, c := newTestEngine(hw)

	list := List{{CPU: CPU{IDs: resolve.IDSet{2, 3}, Governor: ptr("performance")}}}
	if err := engine.Apply(list); err == nil {
		t.Fatal("Apply succeeded, want preparation failure")
	}

	want := []string{"cpu2/online=true", "cpu2/online=false"}
	if !slices.Equal(hw.log, want) {
		t.Errorf("write log = %q, want %q", hw.log, want)
	}
	if !maps.Equal(hw.online, fourCPUs()) {
		t.Errorf("online state = %v, want restored %v", hw.online, fourCPUs())
	}
	wantSleeps := []time.Duration{OnlineSettle, OnlineSettle}
	if got := c.Sleeps(); !slices.Equal(got, wantSleeps) {
		t.Errorf("sleeps = %v, want %v", got, wantSleeps)
	}
}

func TestApplyOfflineFailureStillOfflinesRemaining(t *testing.T) {
	hw := newFakeHardware(fourCPUs())
	offlineErr := errors.New("device busy")
	hw.fail["cpu2/online=false"] = offlineErr
	engine, c := newTestEngine(hw)

	list := List{
		{CPU: CPU{IDs: resolve.IDSet{0}, Governor: ptr("powersave")}},
		{CPU: CPU{IDs: resolve.IDSet{2, 3}, Governor: ptr("performance")}},
	}
	err := engine.Apply(list)
	if !errors.Is(err, offlineErr) {
		t.Fatalf("error = %v, want the offline write failure", err)
	}
	var groupErr *GroupError
	if !errors.As(err, &groupErr) || groupErr.Index != 2 {
		t.Errorf("error = %v, want group index 2 (owner of cpu 2)", err)
	}
	if hw.online[3] {
		t.Error("cpu 3 left online after cpu 2 failed to go offline")
	}
	wantSleeps := []time.Duration{OnlineSettle, PolicySettle, PolicySettle, OnlineSettle}
	if got := c.Sleeps(); !slices.Equal(got, wantSleeps) {
		t.Errorf("sleeps = %v, want %v", got, wantSleeps)
	}
}

func TestApplyFinalFailureNoRollback(t *testing.T) {
	hw := newFakeHardware(fourCPUs())
	hw.fail["nvml-1/power=50000"] = errors.New("not supported")
	engine, _ := newTestEngine(hw)

	zone := resolve.PackageZone(0)
	list := List{
		{
			Rapl: Rapl{
				Constraints: &resolve.ConstraintIDs{Zone: zone, Constraints: resolve.IDSet{0, 1}},
				Limit:       ptr(15 * value.Watt),
				Window:      ptr(28 * time.Millisecond),
			},
			I915: I915{IDs: resolve.IDSet{0}, Min: ptr(300 * value.Megahertz), Boost: ptr(1100 * value.Megahertz)},
		},
		{Nvml: Nvml{IDs: resolve.IDSet{1}, Power: ptr(50 * value.Watt)}},
		{CPU: CPU{IDs: resolve.IDSet{3}, Online: ptr(true)}},
	}
	err := engine.Apply(list)

	var groupErr *GroupError
	if !errors.As(err, &groupErr) || groupErr.Index != 2 {
		t.Fatalf("error = %v, want group index 2", err)
	}
	want := []string{
		"rapl0/c0/limit=15000000",
		"rapl0/c0/window=28000",
		"rapl0/c1/limit=15000000",
		"rapl0/c1/window=28000",
		"i915-0/min=300",
		"i915-0/boost=1100",
	}
	if !slices.Equal(hw.log, want) {
		t.Errorf("write log = %q, want %q", hw.log, want)
	}
	if hw.online[3] {
		t.Error("group 3 applied after group 2 failed")
	}
}

func TestApplyNvmlOrder(t *testing.T) {
	hw := newFakeHardware(fourCPUs())
	engine, _ := newTestEngine(hw)

	list := List{
		{Nvml: Nvml{IDs: resolve.IDSet{1}, GPUMin: ptr(300 * value.Megahertz), GPUMax: ptr(1500 * value.Megahertz), PowerReset: true}},
		{Nvml: Nvml{IDs: resolve.IDSet{1}, GPUReset: true, Power: ptr(value.Power(200500) * value.Milliwatt)}},
	}
	if err := engine.Apply(list); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := []string{
		"nvml-1/clocks=300-1500",
		"nvml-1/power=reset",
		"nvml-1/clocks=reset",
		"nvml-1/power=200500",
	}
	if !slices.Equal(hw.log, want) {
		t.Errorf("write log = %q, want %q", hw.log, want)
	}
}

func TestApplyIdempotent(t *testing.T) {
	hw := newFakeHardware(fourCPUs())
	engine, c := newTestEngine(hw)

	list := List{
		{CPU: CPU{IDs: resolve.IDSet{2, 3}, Online: ptr(true), Governor: ptr("schedutil")}},
		{I915: I915{IDs: resolve.IDSet{0}, Max: ptr(1200 * value.Megahertz)}},
	}
	if err := engine.Apply(list); err != nil {
		t.Fatalf("first Apply: %v", err)
	}
	firstState := maps.Clone(hw.online)
	firstValues := maps.Clone(hw.values)
	firstSleeps := len(c.Sleeps())

	if err := engine.Apply(list); err != nil {
		t.Fatalf("second Apply: %v", err)
	}
	if !maps.Equal(hw.online, firstState) {
		t.Errorf("online state changed on second apply: %v -> %v", firstState, hw.online)
	}
	if !maps.Equal(hw.values, firstValues) {
		t.Errorf("values changed on second apply: %v -> %v", firstValues, hw.values)
	}

	// The CPUs are online after the first run, so the second run has
	// no transitions and only the policy settle.
	second := c.Sleeps()[firstSleeps:]
	if !slices.Equal(second, []time.Duration{PolicySettle}) {
		t.Errorf("second apply sleeps = %v, want [%v]", second, PolicySettle)
	}
}

func TestApplyEmptyList(t *testing.T) {
	hw := newFakeHardware(fourCPUs())
	engine, c := newTestEngine(hw)
	if err := engine.Apply(List{{}, {}}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(hw.log) != 0 || len(c.Sleeps()) != 0 {
		t.Errorf("empty groups wrote %q and slept %v", hw.log, c.Sleeps())
	}
}
