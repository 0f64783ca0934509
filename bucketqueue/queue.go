// SPDX-License-Identifier: MIT
// Package: lanepath/bucketqueue
//
// queue.go — monotonic bucket queue with lazy, generation-stamped lane locations.
//
// Arena:
//   slots[b·S .. b·S+S)   bucket b; [b·S, b·S+head[b]) popped, [head[b], count[b]) live
//   loc[lane]             gen<<32 | slot, valid only when gen matches
//
// Popped entries keep their slots until Reset so that Lookup can still read
// them while a result is assembled.

package bucketqueue

import "math"

// Queue is a Dial-style monotonic priority queue keyed by lane. It is not
// safe for concurrent use; each search owns one.
type Queue[T any] struct {
	layout Layout

	slots []Entry[T]
	head  []int32
	count []int32
	loc   []uint64

	gen       uint16
	minBucket int
	live      int
	dropped   int
}

// New allocates a Queue for layout. It panics on an invalid layout.
// Complexity: O(Buckets·SlotsPerBucket + MaxLanes) memory, allocated once.
func New[T any](layout Layout) *Queue[T] {
	if err := layout.Validate(); err != nil {
		panic(err)
	}
	q := &Queue[T]{
		layout: layout,
		slots:  make([]Entry[T], layout.Slots()),
		head:   make([]int32, layout.Buckets),
		count:  make([]int32, layout.Buckets),
		loc:    make([]uint64, layout.MaxLanes),
	}
	q.Reset()

	return q
}

// Layout returns the arena dimensions.
func (q *Queue[T]) Layout() Layout { return q.layout }

// Generation returns the current search generation (never 0).
func (q *Queue[T]) Generation() uint16 { return q.gen }

// Len is the number of live (not yet popped) entries.
func (q *Queue[T]) Len() int { return q.live }

// Dropped counts inserts rejected because the arena was full or the lane was
// out of range in this generation.
func (q *Queue[T]) Dropped() int { return q.dropped }

// Reset starts a new generation and empties the buckets. Lane locations of
// older generations become invisible without being touched, except when the
// 16-bit generation wraps, where the location table is cleared once.
//
// Complexity: O(Buckets), or O(MaxLanes) once every 65,535 resets.
func (q *Queue[T]) Reset() uint16 {
	q.gen++
	if q.gen == 0 {
		clear(q.loc)
		q.gen = 1
	}
	clear(q.head)
	clear(q.count)
	q.minBucket = 0
	q.live = 0
	q.dropped = 0

	return q.gen
}

// Insert adds a new entry for lane. It returns false (and counts a drop) if
// the lane already has an entry in this generation, the lane is out of
// range, or every bucket from the target onward is full.
func (q *Queue[T]) Insert(lane uint32, value float32, item T) bool {
	if int(lane) >= len(q.loc) {
		q.dropped++
		return false
	}
	if _, ok := q.slotOf(lane); ok {
		q.dropped++
		return false
	}
	return q.place(lane, value, item)
}

// DecreaseKeyOrInsert records item for lane at value unless an entry of this
// generation already holds a value ≤ value or has already been popped.
// A surviving entry is overwritten in place when value maps to its bucket,
// otherwise it is swap-removed and reinserted. It reports whether item was stored.
func (q *Queue[T]) DecreaseKeyOrInsert(lane uint32, value float32, item T) bool {
	if int(lane) >= len(q.loc) {
		q.dropped++
		return false
	}
	slot, ok := q.slotOf(lane)
	if !ok {
		return q.place(lane, value, item)
	}

	e := &q.slots[slot]
	if e.Value <= value || q.popped(slot) {
		return false
	}
	b := slot / q.layout.SlotsPerBucket
	if q.bucketOf(value) == b {
		e.Value, e.Item = value, item
		return true
	}
	q.remove(slot)

	return q.place(lane, value, item)
}

// PopMin removes and returns an entry from the lowest non-empty bucket.
// Entries within one bucket come out in insertion order; the minimum pointer
// never moves backwards.
//
// Complexity: amortized O(1) per pop over a search (the pointer crosses each
// bucket once).
func (q *Queue[T]) PopMin() (Entry[T], bool) {
	S := q.layout.SlotsPerBucket
	for q.minBucket < q.layout.Buckets {
		b := q.minBucket
		if q.head[b] < q.count[b] {
			slot := b*S + int(q.head[b])
			q.head[b]++
			q.live--
			return q.slots[slot], true
		}
		q.minBucket++
	}

	var zero Entry[T]
	return zero, false
}

// Lookup returns the entry of lane in the current generation, popped or live.
func (q *Queue[T]) Lookup(lane uint32) (Entry[T], bool) {
	if slot, ok := q.slotOf(lane); ok {
		return q.slots[slot], true
	}
	var zero Entry[T]
	return zero, false
}

// Finalized reports whether lane was popped in the current generation.
func (q *Queue[T]) Finalized(lane uint32) bool {
	slot, ok := q.slotOf(lane)
	return ok && q.popped(slot)
}

// MinBucket exposes the monotonic minimum pointer.
func (q *Queue[T]) MinBucket() int { return q.minBucket }

// BucketOf maps a comparison value to its bucket under the current minimum.
func (q *Queue[T]) BucketOf(value float32) int { return q.bucketOf(value) }

// bucketOf = clamp(round(value·Buckets), minBucket, Buckets-1); NaN goes last.
func (q *Queue[T]) bucketOf(value float32) int {
	last := q.layout.Buckets - 1
	if value != value {
		return last
	}
	f := math.Round(float64(value) * float64(q.layout.Buckets))
	if f >= float64(last) {
		return last
	}
	b := int(f)
	if b < q.minBucket {
		b = q.minBucket
	}

	return b
}

// place scans forward from the value's bucket for a free slot.
func (q *Queue[T]) place(lane uint32, value float32, item T) bool {
	S := q.layout.SlotsPerBucket
	for b := q.bucketOf(value); b < q.layout.Buckets; b++ {
		if int(q.count[b]) >= S {
			continue
		}
		slot := b*S + int(q.count[b])
		q.count[b]++
		q.slots[slot] = Entry[T]{Lane: lane, Value: value, Item: item}
		q.loc[lane] = q.stamp(slot)
		q.live++
		return true
	}
	q.dropped++

	return false
}

// remove swap-deletes a live slot with the last live slot of its bucket.
func (q *Queue[T]) remove(slot int) {
	S := q.layout.SlotsPerBucket
	b := slot / S
	last := b*S + int(q.count[b]) - 1
	q.loc[q.slots[slot].Lane] = 0
	if slot != last {
		q.slots[slot] = q.slots[last]
		q.loc[q.slots[slot].Lane] = q.stamp(slot)
	}
	q.count[b]--
	q.live--
}

func (q *Queue[T]) popped(slot int) bool {
	S := q.layout.SlotsPerBucket
	return slot%S < int(q.head[slot/S])
}

func (q *Queue[T]) stamp(slot int) uint64 {
	return uint64(q.gen)<<32 | uint64(slot)
}

// slotOf resolves lane's slot if it was written in the current generation.
func (q *Queue[T]) slotOf(lane uint32) (int, bool) {
	if int(lane) >= len(q.loc) {
		return 0, false
	}
	v := q.loc[lane]
	if uint16(v>>32) != q.gen {
		return 0, false
	}

	return int(uint32(v)), true
}
