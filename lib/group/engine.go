// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package group

import (
	"log/slog"
	"time"

	"github.com/bureau-foundation/knobs/lib/clock"
	"github.com/bureau-foundation/knobs/lib/resolve"
)

const (
	// OnlineSettle is the wait after any batch of CPU online state
	// transitions.
	OnlineSettle = 300 * time.Millisecond

	// PolicySettle is the wait after each group's CPU policy writes.
	PolicySettle = 100 * time.Millisecond
)

// Engine applies a List to hardware. Writes are strictly sequential.
type Engine struct {
	hardware Hardware
	clock    clock.Clock
	logger   *slog.Logger
}

// NewEngine returns an Engine writing to hardware. Settle delays are
// taken with clk.
func NewEngine(hardware Hardware, clk clock.Clock, logger *slog.Logger) *Engine {
	return &Engine{hardware: hardware, clock: clk, logger: logger}
}

// Apply writes every group of list to hardware. Errors are
// *GroupError values naming the group that failed.
func (e *Engine) Apply(list List) error {
	start := e.clock.Now()
	policyIDs := policyCPUs(list)

	e.logger.Debug("preparing cpu policy", "cpus", policyIDs.String())
	onlined, err := e.onlineForPolicy(list, policyIDs)
	if err != nil {
		return err
	}

	if err := e.applyPolicy(list); err != nil {
		e.restore(onlined)
		return err
	}

	if len(onlined) > 0 {
		e.logger.Debug("offlining temporarily onlined cpus", "cpus", onlined.String())
		if err := e.offlineAll(onlined); err != nil {
			return &GroupError{Index: ownerIndex(list, err), Err: err}
		}
	}

	for i, group := range list {
		e.logger.Debug("applying group", "group", i+1)
		if err := e.applyFinal(group); err != nil {
			return &GroupError{Index: i + 1, Err: err}
		}
	}
	e.logger.Debug("applied argument groups", "groups", len(list), "elapsed", e.clock.Now().Sub(start))
	return nil
}

// onlineForPolicy brings online every CPU in ids that is currently
// offline and returns the ones it changed.
func (e *Engine) onlineForPolicy(list List, ids resolve.IDSet) (resolve.IDSet, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	offline, err := e.hardware.OfflineCPUs()
	if err != nil {
		return nil, &GroupError{
			Index: firstPolicyGroup(list),
			Err:   applyError("read offline cpus", "system", err),
		}
	}
	targets := ids.Intersect(offline)
	if len(targets) == 0 {
		return nil, nil
	}
	e.logger.Debug("temporarily onlining cpus", "cpus", targets.String())
	changed, err := e.transition(targets, true)
	if err != nil {
		e.restore(changed)
		return nil, &GroupError{Index: ownerIndex(list, err), Err: err}
	}
	return changed, nil
}

func (e *Engine) applyPolicy(list List) error {
	for i, group := range list {
		if !group.CPU.HasPolicyValues() {
			continue
		}
		e.logger.Debug("applying cpu policy", "group", i+1, "cpus", group.CPU.IDs.String())
		if err := group.CPU.applyPolicy(e.hardware); err != nil {
			return &GroupError{Index: i + 1, Err: err}
		}
		e.clock.Sleep(PolicySettle)
	}
	return nil
}

func (e *Engine) applyFinal(group Group) error {
	if group.CPU.HasOnlineValues() {
		if err := e.applyOnline(group.CPU); err != nil {
			return err
		}
	}
	if err := group.Rapl.apply(e.hardware); err != nil {
		return err
	}
	if err := group.I915.apply(e.hardware); err != nil {
		return err
	}
	return group.Nvml.apply(e.hardware)
}

// applyOnline sets the requested online state on the CPUs not already
// in it. Re-applying the same request is a no-op.
func (e *Engine) applyOnline(cpu CPU) error {
	var (
		current resolve.IDSet
		err     error
	)
	if *cpu.Online {
		current, err = e.hardware.OfflineCPUs()
	} else {
		current, err = e.hardware.OnlineCPUs()
	}
	if err != nil {
		return applyError("read cpu online state", "system", err)
	}
	_, err = e.transition(cpu.IDs.Intersect(current), *cpu.Online)
	return err
}

// offlineAll offlines every id, continuing past failures, and settles
// once if anything changed. The first failure is returned as a
// *cpuError.
func (e *Engine) offlineAll(ids resolve.IDSet) error {
	var (
		first   error
		changed bool
	)
	for _, id := range ids {
		if err := e.hardware.SetCPUOnline(id, false); err != nil {
			if first == nil {
				first = &cpuError{id: id, err: applyError(onlineOp(false), cpuTarget(id), err)}
				continue
			}
			e.logger.Warn("offlining temporarily onlined cpu failed", "cpu", id, "error", err)
			continue
		}
		changed = true
	}
	if changed {
		e.clock.Sleep(OnlineSettle)
	}
	return first
}

// restore offlines ids after a failed earlier phase. Every id is
// attempted; failures are logged and dropped so the caller's error is
// the one reported.
func (e *Engine) restore(ids resolve.IDSet) {
	if len(ids) == 0 {
		return
	}
	e.logger.Debug("restoring temporarily onlined cpus", "cpus", ids.String())
	changed := false
	for _, id := range ids {
		if err := e.hardware.SetCPUOnline(id, false); err != nil {
			e.logger.Warn("restoring temporarily onlined cpu failed", "cpu", id, "error", err)
			continue
		}
		changed = true
	}
	if changed {
		e.clock.Sleep(OnlineSettle)
	}
}

// transition writes the online state of each id and settles once if
// anything changed. On failure the returned error is a *cpuError.
func (e *Engine) transition(ids resolve.IDSet, online bool) (resolve.IDSet, error) {
	var changed resolve.IDSet
	for _, id := range ids {
		if err := e.hardware.SetCPUOnline(id, online); err != nil {
			if len(changed) > 0 {
				e.clock.Sleep(OnlineSettle)
			}
			return changed, &cpuError{
				id:  id,
				err: applyError(onlineOp(online), cpuTarget(id), err),
			}
		}
		changed = append(changed, id)
	}
	if len(changed) > 0 {
		e.clock.Sleep(OnlineSettle)
	}
	return changed, nil
}

// cpuError remembers which CPU a transition failed on so the error can
// be attributed to a group.
type cpuError struct {
	id  uint64
	err *ApplyError
}

func (e *cpuError) Error() string { return e.err.Error() }

func (e *cpuError) Unwrap() error { return e.err }

func onlineOp(online bool) string {
	if online {
		return "set cpu online"
	}
	return "set cpu offline"
}

// policyCPUs is the union of the CPU ids of every group with policy
// values. Explicit online requests do not count.
func policyCPUs(list List) resolve.IDSet {
	var ids resolve.IDSet
	for _, group := range list {
		if group.CPU.HasPolicyValues() {
			ids = ids.Union(group.CPU.IDs)
		}
	}
	return ids
}

func firstPolicyGroup(list List) int {
	for i, group := range list {
		if group.CPU.HasPolicyValues() {
			return i + 1
		}
	}
	return 1
}

// ownerIndex returns the 1-based index of the first policy group that
// names the CPU a transition failed on.
func ownerIndex(list List, err error) int {
	failed, ok := err.(*cpuError)
	if !ok {
		return firstPolicyGroup(list)
	}
	for i, group := range list {
		if group.CPU.HasPolicyValues() && group.CPU.IDs.Contains(failed.id) {
			return i + 1
		}
	}
	return firstPolicyGroup(list)
}

