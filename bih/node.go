package bih

type Axis uint8

const (
	XAxis Axis = iota
	YAxis
	ZAxis

	// Nodes tagged with this axis are leaves.
	leafAxis
)

func (a Axis) String() string {
	switch a {
	case XAxis:
		return "X"
	case YAxis:
		return "Y"
	case ZAxis:
		return "Z"
	}
	return "leaf"
}

// BIH nodes are stored in a contiguous arena and reference each other by
// index. The two multipurpose fields depend on the node type:
//
// - split nodes: lData/rData are the arena indices of the left/right child
// - leaves: lData/rData are the first/last (inclusive) triangle slots
//
// The planes are only meaningful for split nodes: leftPlane is the largest
// coordinate along axis occupied by the left partition and rightPlane the
// smallest coordinate occupied by the right partition. The planes may
// overlap or leave a gap between them.
type node struct {
	axis Axis

	// Build recursion depth at which the node was created. Degenerate
	// splits recurse without creating nodes, so this can exceed the
	// node's distance from the root.
	depth uint8

	leftPlane  float32
	rightPlane float32

	lData uint32
	rData uint32
}

func leafNode(l, r, depth int) node {
	return node{
		axis:  leafAxis,
		depth: uint8(depth),
		lData: uint32(l),
		rData: uint32(r),
	}
}

// Check whether the leaf was forced by the depth cap rather than by its size.
func (n *node) isDepthCapped() bool {
	return n.isLeaf() && int(n.depth) > MaxTreeDepth
}

func (n *node) isLeaf() bool {
	return n.axis == leafAxis
}

// Get the inclusive triangle slot range covered by a leaf. Empty leaves
// return r < l.
func (n *node) triangleRange() (l, r int) {
	return int(n.lData), int(int32(n.rData))
}

// Set child node indices and split planes.
func (n *node) setSplit(leftPlane, rightPlane float32, left, right uint32) {
	n.leftPlane = leftPlane
	n.rightPlane = rightPlane
	n.lData = left
	n.rData = right
}
