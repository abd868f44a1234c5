// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package resolve

import (
	"slices"

	"k8s.io/utils/cpuset"
)

// IDSet is an ascending, duplicate-free list of hardware ids.
type IDSet []uint64

// NewIDSet builds a set from ids in any order.
func NewIDSet(ids ...uint64) IDSet {
	set := slices.Clone(ids)
	slices.Sort(set)
	return IDSet(slices.Compact(set))
}

// Union returns the ids present in either set.
func (s IDSet) Union(other IDSet) IDSet {
	merged := make([]uint64, 0, len(s)+len(other))
	merged = append(merged, s...)
	merged = append(merged, other...)
	return NewIDSet(merged...)
}

// Difference returns the ids of s not present in other.
func (s IDSet) Difference(other IDSet) IDSet {
	var result IDSet
	for _, id := range s {
		if !other.Contains(id) {
			result = append(result, id)
		}
	}
	return result
}

// Intersect returns the ids present in both sets.
func (s IDSet) Intersect(other IDSet) IDSet {
	var result IDSet
	for _, id := range s {
		if other.Contains(id) {
			result = append(result, id)
		}
	}
	return result
}

// Contains reports whether id is in the set.
func (s IDSet) Contains(id uint64) bool {
	_, found := slices.BinarySearch(s, id)
	return found
}

// String renders the set in kernel cpulist form ("0,2-4").
func (s IDSet) String() string {
	ints := make([]int, len(s))
	for i, id := range s {
		ints[i] = int(id)
	}
	return cpuset.New(ints...).String()
}
