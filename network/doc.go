// Package network models a lane-level road network and publishes immutable,
// lock-free snapshots of it for path-finding engines.
//
// The model has three element kinds:
//
//   - Node: a vertex where segments meet (junction, bend, dead end). A node
//     may also sit in the middle of a lane (a "lane node"), e.g. a stop or a
//     walkway connector.
//   - Segment: an undirected link between two nodes carrying 1..255 lanes,
//     ordered by lateral position (left to right looking from Start to End).
//   - Lane: the finest directed travel element with type and vehicle masks,
//     a direction, a speed limit and optional turn arrows.
//
// Editing:
//
//	AddNode(x, y, flags) NodeID                        // O(1)
//	AddSegment(start, end, SegmentSpec) (SegmentID, error) // O(k log k)
//	RemoveSegment(id) error                            // invalidates, IDs stay stable
//	SetSegmentFlags / ClearSegmentFlags(id, flags)     // closures, floods, bans
//	SetLaneArrows(lane, arrows)
//	ConnectLanes / DisconnectLanes(from, to, node)     // manual lane connections
//	AttachLaneNode(node, lane, offset)
//	SetLeftHandTraffic(bool)
//
// Reading:
//
// Snapshot() returns the current *Snapshot. Every mutation bumps a version;
// the next Snapshot() call copies the topology and precomputes the geometry
// cache (per-node headings) and the blocked-segment bitmaps. Consumers keep a
// snapshot for the duration of one unit of work and must tolerate that it
// may be stale by then: elements carry Valid flags rather than disappearing.
//
// Conventions:
//
//   - Offsets are bytes along a lane: 0 at the segment start, OffsetMax at the end.
//   - Forward travel runs Start→End. SegInvert swaps forward and backward for
//     all lanes of a segment; EffectiveDirection applies it.
//   - Similar-lane indices count from the curb edge: the right in right-hand
//     traffic, the left in left-hand traffic.
//   - Turn angles are positive to the left with +Y up.
//
// Traffic is a live per-lane counter shared across all snapshots of one
// Network; path-finding engines feed it and read it back as a density.
package network
