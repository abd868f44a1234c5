// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package resolve

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/bureau-foundation/knobs/lib/value"
)

// DeviceClass selects the kernel driver a DRM card must be bound to.
type DeviceClass int

const (
	// I915 is the Intel integrated graphics driver.
	I915 DeviceClass = iota + 1

	// Nvidia is the proprietary NVIDIA driver that NVML talks to.
	Nvidia
)

// Driver returns the kernel driver name cards of this class report.
func (c DeviceClass) Driver() string {
	switch c {
	case I915:
		return "i915"
	case Nvidia:
		return "nvidia"
	}
	return "unknown"
}

func (c DeviceClass) String() string { return c.Driver() }

// CardID is a DRM card identifier before resolution: either a bus id
// ("pci:0000:00:02.0") or a card index.
type CardID struct {
	Bus   string
	ID    string
	Index uint64
	IsBus bool
}

func (c CardID) String() string {
	if c.IsBus {
		return c.Bus + ":" + c.ID
	}
	return strconv.FormatUint(c.Index, 10)
}

// ParseCardID parses BUS:ID or an index. Anything containing a colon is
// a bus id, split at the first colon.
func ParseCardID(s string) (CardID, error) {
	s = strings.TrimSpace(s)
	if bus, id, ok := strings.Cut(s, ":"); ok {
		if bus == "" || id == "" {
			return CardID{}, &value.ParseError{
				Kind:  "drm bus id",
				Input: s,
				Err:   fmt.Errorf("%w: expected BUS:ID", value.ErrSyntax),
			}
		}
		return CardID{Bus: bus, ID: id, IsBus: true}, nil
	}
	index, err := value.ParseUint(s)
	if err != nil {
		return CardID{}, err
	}
	return CardID{Index: index}, nil
}

// ResolveCard finds the card named by id and checks its driver.
func ResolveCard(inv *Inventory, id CardID, class DeviceClass) (uint64, error) {
	cards, err := inv.Cards()
	if err != nil {
		return 0, systemQueryError("drm card", id.String(), err)
	}

	var (
		card  Card
		found bool
	)
	for _, candidate := range cards {
		if id.IsBus && candidate.BusID == id.String() || !id.IsBus && candidate.Index == id.Index {
			card, found = candidate, true
			break
		}
	}
	if !found {
		return 0, &Error{Kind: "drm card", Value: id.String(), Err: ErrCardNotFound}
	}
	if card.Driver != class.Driver() {
		return 0, &Error{
			Kind:  "drm card",
			Value: id.String(),
			Err:   &DriverMismatchError{Card: card.Index, Wanted: class.Driver(), Found: card.Driver},
		}
	}
	return card.Index, nil
}

// ResolveCards parses a comma-separated card list and resolves each
// element concurrently.
func ResolveCards(ctx context.Context, inv *Inventory, s string, class DeviceClass) (IDSet, error) {
	parts := strings.Split(s, ",")
	ids := make([]CardID, 0, len(parts))
	for _, part := range parts {
		id, err := ParseCardID(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	var (
		mu     sync.Mutex
		result IDSet
	)
	group, ctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			index, err := ResolveCard(inv, id, class)
			if err != nil {
				return err
			}
			mu.Lock()
			result = result.Union(IDSet{index})
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
