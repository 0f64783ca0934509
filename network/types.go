// SPDX-License-Identifier: MIT
// Package: lanepath/network
//
// types.go — identifiers, flag sets, records and sentinel errors.
//
// Design:
//   • IDs are dense uint32 indices; 0 is reserved as "none" so zero values
//     of Position/Lane records are recognisably empty.
//   • Records (Node, Segment, Lane) are plain values. A published Snapshot
//     holds copies; the mutable Network owns the originals.
//   • Limits are named constants, never magic numbers.

package network

import "errors"

// NodeID, SegmentID and LaneID identify network elements. The zero value means "none".
type (
	NodeID    uint32
	SegmentID uint32
	LaneID    uint32
)

// Structural limits of the network model.
const (
	// MaxNodeDegree is the physical degree cap of a node (segments meeting at it).
	MaxNodeDegree = 8

	// MaxLanesPerSegment bounds lane indices so they fit a byte.
	MaxLanesPerSegment = 255

	// MaxLaneNodeIterations caps walks over a lane's lane-node chain so that a
	// malformed (cyclic) chain cannot stall a reader.
	MaxLaneNodeIterations = 32768

	// OffsetMax is the offset of a lane's end node; offset 0 is its start node.
	OffsetMax = 255
)

// NodeFlags classify nodes.
type NodeFlags uint16

const (
	// NodeJunction marks an intersection regardless of its degree.
	NodeJunction NodeFlags = 1 << iota
	// NodeTransition marks a node where the travel mode changes (e.g. parking, stops).
	NodeTransition
	// NodeOutside marks an outside connection of the map.
	NodeOutside
)

// SegmentFlags carry per-segment classification and live restrictions.
type SegmentFlags uint32

const (
	// SegHighway marks a segment that follows highway merge/split rules.
	SegHighway SegmentFlags = 1 << iota
	// SegClosed marks a segment closed to all traffic.
	SegClosed
	// SegFlooded marks a flooded segment (passable only when blocks are ignored).
	SegFlooded
	// SegPathFailed marks a segment that repeatedly produced failed paths.
	SegPathFailed
	// SegHeavyBan forbids heavy vehicles.
	SegHeavyBan
	// SegCarBan forbids private cars.
	SegCarBan
	// SegInvert swaps the meaning of forward and backward for its lanes.
	SegInvert
)

// segBlocked are flags a request may choose to ignore; SegClosed is never ignorable.
const segBlocked = SegFlooded | SegPathFailed

// LaneType is a bit set of lane usages.
type LaneType uint8

const (
	LaneVehicle LaneType = 1 << iota
	LanePedestrian
	LaneParking
	LaneTransport
)

// VehicleType is a bit set of vehicle classes a lane admits.
type VehicleType uint16

const (
	VehicleCar VehicleType = 1 << iota
	VehicleBus
	VehicleTram
	VehicleTrain
	VehicleBicycle
	VehicleEmergency
)

// Direction describes the travel directions a lane admits, relative to its
// segment (forward = start node → end node).
//
// The avoid bits admit traffic in that direction at a strong penalty, which is
// how transit-preferred lanes are modelled.
type Direction uint8

const (
	DirNone     Direction = 0
	DirForward  Direction = 1 << 0
	DirBackward Direction = 1 << 1
	DirBoth               = DirForward | DirBackward

	DirAvoidForward  Direction = 1 << 2
	DirAvoidBackward Direction = 1 << 3
	DirAvoidBoth               = DirAvoidForward | DirAvoidBackward
)

// Allows reports whether traffic may travel in d (DirForward or DirBackward),
// including avoid-penalised travel.
func (dir Direction) Allows(d Direction) bool {
	switch d {
	case DirForward:
		return dir&(DirForward|DirAvoidForward) != 0
	case DirBackward:
		return dir&(DirBackward|DirAvoidBackward) != 0
	}
	return false
}

// Avoided reports whether travel in d is avoid-penalised on a lane with dir.
func (dir Direction) Avoided(d Direction) bool {
	switch d {
	case DirForward:
		return dir&DirAvoidForward != 0
	case DirBackward:
		return dir&DirAvoidBackward != 0
	}
	return false
}

// Reverse flips forward and backward bits.
func (dir Direction) Reverse() Direction {
	out := dir &^ (DirBoth | DirAvoidBoth)
	if dir&DirForward != 0 {
		out |= DirBackward
	}
	if dir&DirBackward != 0 {
		out |= DirForward
	}
	if dir&DirAvoidForward != 0 {
		out |= DirAvoidBackward
	}
	if dir&DirAvoidBackward != 0 {
		out |= DirAvoidForward
	}
	return out
}

// Arrows restrict the turns a lane may take at its exit. The zero value is unrestricted.
type Arrows uint8

const (
	ArrowLeft Arrows = 1 << iota
	ArrowForward
	ArrowRight
)

// Turn classifies a movement across a node.
type Turn uint8

const (
	TurnStraight Turn = iota
	TurnLeft
	TurnRight
	TurnUTurn
)

// Permits reports whether arrows a allow turn t. U-turns need both left and
// forward arrows in right-hand traffic; callers mirror for left-hand traffic.
func (a Arrows) Permits(t Turn) bool {
	if a == 0 {
		return true
	}
	switch t {
	case TurnLeft:
		return a&ArrowLeft != 0
	case TurnRight:
		return a&ArrowRight != 0
	case TurnStraight:
		return a&ArrowForward != 0
	}
	return a&ArrowLeft != 0
}

// Node is a graph vertex where segments meet.
//
// A node may additionally sit on a lane (Lane != 0) at LaneOffset; such lane
// nodes are chained per lane through NextLaneNode.
type Node struct {
	ID       NodeID
	X, Y     float64
	Flags    NodeFlags
	Segments []SegmentID

	Lane         LaneID
	LaneOffset   uint8
	NextLaneNode NodeID

	Valid bool
}

// Degree is the number of segments meeting at the node.
func (n *Node) Degree() int { return len(n.Segments) }

// Segment is an undirected link between two nodes carrying ordered lanes.
// Lanes are ordered by lateral position, left to right looking from Start to End.
type Segment struct {
	ID     SegmentID
	Start  NodeID
	End    NodeID
	Lanes  []LaneID
	Length float32
	Flags  SegmentFlags
	Valid  bool
}

// Lane is the finest-grained directed travel element.
type Lane struct {
	ID         LaneID
	Segment    SegmentID
	Index      uint8
	Types      LaneType
	Vehicles   VehicleType
	Direction  Direction
	SpeedLimit float32
	Position   float32
	Length     float32
	Arrows     Arrows
	FirstNode  NodeID
}

// LaneSpec describes one lane of a segment being added.
type LaneSpec struct {
	Types      LaneType
	Vehicles   VehicleType
	Direction  Direction
	SpeedLimit float32
	Position   float32
}

// SegmentSpec describes a segment being added. A zero Length is replaced by
// the euclidean distance between the end nodes.
type SegmentSpec struct {
	Lanes  []LaneSpec
	Flags  SegmentFlags
	Length float32
}

// Sentinel errors for network operations.
var (
	// ErrNodeNotFound indicates an unknown or removed node.
	ErrNodeNotFound = errors.New("network: node not found")

	// ErrSegmentNotFound indicates an unknown or removed segment.
	ErrSegmentNotFound = errors.New("network: segment not found")

	// ErrLaneNotFound indicates an unknown lane.
	ErrLaneNotFound = errors.New("network: lane not found")

	// ErrDegreeExceeded indicates a node already has MaxNodeDegree segments.
	ErrDegreeExceeded = errors.New("network: node degree exceeded")

	// ErrNoLanes indicates a segment spec without lanes or with too many lanes.
	ErrNoLanes = errors.New("network: segment lane count out of range")

	// ErrSelfLoop indicates a segment whose start and end nodes coincide.
	ErrSelfLoop = errors.New("network: segment start equals end")

	// ErrInvalidOffset indicates a lane node offset outside (0, OffsetMax).
	ErrInvalidOffset = errors.New("network: lane offset out of range")
)

// Option configures a Network before use.
type Option func(*Network)

// WithLeftHandTraffic makes the network drive on the left: the curb edge,
// and therefore lane similarity indices, are measured from the left.
func WithLeftHandTraffic() Option {
	return func(n *Network) { n.leftHand = true }
}

// WithTrafficSaturation sets the per-lane count at which the traffic density
// metric saturates at 1.0. Panics on zero.
func WithTrafficSaturation(count uint32) Option {
	if count == 0 {
		panic("network: WithTrafficSaturation(0)")
	}
	return func(n *Network) { n.traffic.saturation = count }
}

// WithCapacity preallocates storage for the expected element counts.
func WithCapacity(nodes, segments, lanes int) Option {
	return func(n *Network) {
		n.nodes = make([]Node, 1, nodes+1)
		n.segments = make([]Segment, 1, segments+1)
		n.lanes = make([]Lane, 1, lanes+1)
	}
}
