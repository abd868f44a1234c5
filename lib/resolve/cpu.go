// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package resolve

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/bureau-foundation/knobs/lib/value"
)

// ResolveCPURange anchors r against the live CPU ids and confirms every
// id it covers is present. live must be non-empty and sorted.
func ResolveCPURange(r value.Range, live IDSet) (IDSet, error) {
	if len(live) == 0 {
		return nil, systemQueryError("cpu range", r.String(), errNoCPUs)
	}
	lowest, highest := live[0], live[len(live)-1]

	var start, end uint64
	switch r.Kind {
	case value.Inclusive:
		start, end = r.Start, r.End
	case value.From:
		start, end = r.Start, highest
	case value.ToInclusive:
		start, end = lowest, r.End
	case value.Unbounded:
		start, end = lowest, highest
	}
	if start < lowest || end > highest || start > end {
		return nil, &Error{Kind: "cpu range", Value: r.String(), Err: ErrRangeOutOfBounds}
	}

	ids := make(IDSet, 0, end-start+1)
	for id := start; ; id++ {
		if !live.Contains(id) {
			return nil, &Error{Kind: "cpu range", Value: r.String(), Err: ErrRangeOutOfBounds}
		}
		ids = append(ids, id)
		if id == end {
			break
		}
	}
	return ids, nil
}

// ResolveCPUs parses a comma-separated list of ranges and resolves each
// element concurrently against the inventory.
func ResolveCPUs(ctx context.Context, inv *Inventory, s string) (IDSet, error) {
	ranges, err := value.ParseRanges(s)
	if err != nil {
		return nil, err
	}
	live, err := inv.CPUIDs()
	if err != nil {
		return nil, systemQueryError("cpu range", s, err)
	}

	var (
		mu     sync.Mutex
		result IDSet
	)
	group, ctx := errgroup.WithContext(ctx)
	for _, r := range ranges {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ids, err := ResolveCPURange(r, live)
			if err != nil {
				return err
			}
			mu.Lock()
			result = result.Union(ids)
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
