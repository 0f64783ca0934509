// Package bucketqueue implements the monotonic, bucketed priority queue that
// drives lane searches.
//
// Comparison values are non-negative normalized costs. A value v lands in
// bucket clamp(round(v·Buckets), min, Buckets-1), where min is the lowest
// bucket still being drained; a full bucket spills into the next one and a
// completely full arena silently drops the entry (see Dropped). PopMin walks
// the min pointer upwards only, which is correct for searches whose realized
// costs never decrease along a path, and returns entries of one bucket in
// insertion order, so ordering has a resolution of 1/Buckets.
//
// Every entry is keyed by a lane. The lane → slot table is stamped with a
// 16-bit search generation: Reset bumps the generation instead of clearing
// the table, so stale locations from earlier searches read as absent.
//
// Operations:
//
//	Reset()                                O(Buckets)
//	Insert(lane, v, item) bool             O(1) amortized
//	DecreaseKeyOrInsert(lane, v, item) bool O(1) amortized
//	PopMin() (Entry, bool)                 O(1) amortized
//	Lookup(lane) / Finalized(lane)         O(1)
//
// A Queue is single-owner; concurrent use requires external locking.
package bucketqueue
