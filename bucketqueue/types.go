// SPDX-License-Identifier: MIT
// Package: lanepath/bucketqueue
//
// types.go — arena layout, entries and sentinel errors.

package bucketqueue

import (
	"errors"
	"fmt"
)

// Layout fixes the arena sizes of a Queue. The product Buckets·SlotsPerBucket
// bounds the live-plus-popped frontier of one search; MaxLanes bounds lane IDs.
type Layout struct {
	Buckets        int
	SlotsPerBucket int
	MaxLanes       int
}

// DefaultLayout: 1,024 buckets of 64 slots (65,536 frontier entries) over
// up to 262,144 lanes.
var DefaultLayout = Layout{
	Buckets:        1024,
	SlotsPerBucket: 64,
	MaxLanes:       262144,
}

// maxSlots keeps slot indices within the 32-bit half of a location word.
const maxSlots = 1 << 32

// Slots returns the total slot count.
func (l Layout) Slots() int { return l.Buckets * l.SlotsPerBucket }

// Validate rejects non-positive dimensions and oversize arenas.
func (l Layout) Validate() error {
	if l.Buckets < 1 || l.SlotsPerBucket < 1 || l.MaxLanes < 1 {
		return fmt.Errorf("bucketqueue: layout %+v: %w", l, ErrBadLayout)
	}
	if l.Slots() >= maxSlots {
		return fmt.Errorf("bucketqueue: %d slots: %w", l.Slots(), ErrBadLayout)
	}
	return nil
}

// Entry is one frontier record. Value is the comparison value that placed it.
type Entry[T any] struct {
	Lane  uint32
	Value float32
	Item  T
}

// ErrBadLayout indicates a Layout with a zero or oversize dimension.
var ErrBadLayout = errors.New("bucketqueue: invalid layout")
