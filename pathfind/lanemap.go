// SPDX-License-Identifier: MIT
// Package: lanepath/pathfind
//
// lanemap.go — lane index mapping across lane-count changes.
//
// Indices are right-similar: 0 is the curb-side lane.

package pathfind

import "math/rand/v2"

// MapLane maps right-similar index src of a segment with srcCount
// compatible lanes onto a segment with dstCount lanes.
//
//   - dstCount ≤ 1 maps to 0; equal counts keep the index.
//   - Merges shift inward by half the difference.
//   - Splits shift outward by half the difference; the curb-side source may
//     use any lane up to its shifted index, the opposite edge any lane from
//     it, so a single source lane spreads over the whole target.
//   - An odd difference rounds up or down at random (criss-cross).
//
// A nil rng makes every choice deterministic.
func MapLane(rng *rand.Rand, src, srcCount, dstCount int) int {
	if dstCount <= 1 {
		return 0
	}
	if srcCount < 1 {
		srcCount = 1
	}
	src = clampIndex(src, srcCount)

	diff := dstCount - srcCount
	if diff == 0 {
		return src
	}
	d := diff
	if d < 0 {
		d = -d
	}
	shift := d / 2
	if d%2 == 1 && rng != nil && rng.IntN(2) == 1 {
		shift++
	}
	if diff < 0 {
		return clampIndex(src-shift, dstCount)
	}

	mapped := clampIndex(src+shift, dstCount)
	if rng == nil {
		return mapped
	}
	lo, hi := mapped, mapped
	if src == 0 {
		lo = 0
	}
	if src == srcCount-1 {
		hi = dstCount - 1
	}
	if hi > lo {
		return lo + rng.IntN(hi-lo+1)
	}

	return mapped
}

// HighwayLane is the left-similar index forced by highway rules: the
// source index shifted by the lanes of branches that sit to its left.
func HighwayLane(leftIndex, leftOffset, count int) int {
	if count <= 0 {
		return 0
	}
	return clampIndex(leftIndex+leftOffset, count)
}

func clampIndex(i, count int) int {
	switch {
	case i < 0:
		return 0
	case i >= count:
		return count - 1
	}
	return i
}
