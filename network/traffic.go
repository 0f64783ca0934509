// SPDX-License-Identifier: MIT
// Package: lanepath/network
//
// traffic.go — live per-lane traffic meter shared by all snapshots.

package network

import (
	"sync"
	"sync/atomic"
)

// DefaultTrafficSaturation is the per-lane count at which Density reaches 1.
const DefaultTrafficSaturation = 64

// Traffic counts committed routes per lane. Counters are atomic; the slice
// grows under mu so that Add never blocks other Adds.
type Traffic struct {
	mu         sync.RWMutex
	counts     []atomic.Uint32
	saturation uint32
}

// NewTraffic returns an empty meter saturating at saturation (0 means the default).
func NewTraffic(saturation uint32) *Traffic {
	if saturation == 0 {
		saturation = DefaultTrafficSaturation
	}
	return &Traffic{saturation: saturation}
}

// Add records one route through lane.
func (t *Traffic) Add(lane LaneID) {
	t.mu.RLock()
	if int(lane) < len(t.counts) {
		t.counts[lane].Add(1)
		t.mu.RUnlock()
		return
	}
	t.mu.RUnlock()

	t.mu.Lock()
	t.grow(int(lane) + 1)
	t.counts[lane].Add(1)
	t.mu.Unlock()
}

// Count returns the raw counter of lane.
func (t *Traffic) Count(lane LaneID) uint32 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if int(lane) >= len(t.counts) {
		return 0
	}
	return t.counts[lane].Load()
}

// Density maps the lane counter to [0, 1].
func (t *Traffic) Density(lane LaneID) float32 {
	c := t.Count(lane)
	if c >= t.saturation {
		return 1
	}
	return float32(c) / float32(t.saturation)
}

// Decay scales every counter by factor in [0, 1], rounding down.
func (t *Traffic) Decay(factor float32) {
	if factor < 0 {
		factor = 0
	}
	if factor > 1 {
		factor = 1
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i := range t.counts {
		for {
			old := t.counts[i].Load()
			if t.counts[i].CompareAndSwap(old, uint32(float32(old)*factor)) {
				break
			}
		}
	}
}

// Reset zeroes every counter.
func (t *Traffic) Reset() { t.Decay(0) }

// grow extends counts to at least n entries. Caller holds mu (write).
func (t *Traffic) grow(n int) {
	if n <= len(t.counts) {
		return
	}
	size := max(n, 2*len(t.counts))
	next := make([]atomic.Uint32, size)
	for i := range t.counts {
		next[i].Store(t.counts[i].Load())
	}
	t.counts = next
}
