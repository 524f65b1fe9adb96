package bih

import (
	"time"

	"github.com/achilleasa/bih/types"
)

// Build the hierarchy. Construct is not safe for concurrent use and must
// complete before the tree is queried. Calling it again rebuilds the tree.
func (t *Tree) Construct() {
	start := time.Now()

	t.nodes = t.nodes[:0]
	t.stats = Stats{Triangles: t.numTris}
	t.bbox = t.createBox(0, t.numTris-1)
	t.createNode(0, t.numTris-1, t.bbox, 0)
	t.constructed = true

	t.stats.BuildTime = time.Since(start)
	t.logger.Debugf(
		"BIH tree build time: %d ms, triangles: %d, maxDepth: %d, nodes: %d, leafs: %d",
		t.stats.BuildTime.Nanoseconds()/1e6,
		t.numTris, t.stats.MaxDepth, t.stats.Nodes, t.stats.Leaves,
	)
}

// Calculate the AABB of the vertices of all triangles in slots [l, r].
func (t *Tree) createBox(l, r int) [2]types.Vec3 {
	bbox := types.EmptyBBox()
	for i := l; i <= r; i++ {
		v1, v2, v3 := t.Triangle(i)
		bbox[0] = types.MinVec3(bbox[0], types.MinVec3(v1, types.MinVec3(v2, v3)))
		bbox[1] = types.MaxVec3(bbox[1], types.MaxVec3(v1, types.MaxVec3(v2, v3)))
	}
	return bbox
}

// Get the half-extent of a bbox along each axis.
func extent(bbox [2]types.Vec3) types.Vec3 {
	return bbox[1].Sub(bbox[0]).Mul(0.5)
}

// Get the axis with the largest extent.
func widestAxis(ext types.Vec3) Axis {
	axis := XAxis
	if ext[1] > ext[axis] {
		axis = YAxis
	}
	if ext[2] > ext[axis] {
		axis = ZAxis
	}
	return axis
}

// Append a node to the arena and return its index.
func (t *Tree) addNode(n node) uint32 {
	index := uint32(len(t.nodes))
	t.nodes = append(t.nodes, n)
	if n.isLeaf() {
		t.stats.Leaves++
		if n.isDepthCapped() {
			t.stats.DepthCappedLeaves++
		}
		l, r := n.triangleRange()
		if count := r - l + 1; count > t.stats.MaxLeafTriangles {
			t.stats.MaxLeafTriangles = count
		}
	} else {
		t.stats.Nodes++
	}
	return index
}

// Build the subtree for triangle slots [l, r] and return its arena index.
// nodeBBox is the volume assigned to this subtree by its parent; comparing
// it with the volume actually occupied by the triangles selects the split axis.
func (t *Tree) createNode(l, r int, nodeBBox [2]types.Vec3, depth int) uint32 {
	if depth > t.stats.MaxDepth {
		t.stats.MaxDepth = depth
	}

	if r-l < t.maxTrisPerNode || depth > MaxTreeDepth {
		return t.addNode(leafNode(l, r, depth))
	}

	currentBox := t.createBox(l, r)
	interiorExt := extent(currentBox)
	exteriorExt := extent(nodeBBox).Sub(interiorExt)

	// The first comparison intentionally checks the X slack against the Y
	// extent of the occupied volume.
	var axis Axis
	if exteriorExt[0] > interiorExt[1] {
		if exteriorExt[0] > exteriorExt[2] {
			axis = XAxis
		} else {
			axis = ZAxis
		}
	} else {
		if exteriorExt[1] > exteriorExt[2] {
			axis = YAxis
		} else {
			axis = ZAxis
		}
	}
	if exteriorExt == (types.Vec3{}) {
		axis = XAxis
	}

	// A split along an axis where all triangles are flat cannot separate
	// them; use the widest axis instead.
	if interiorExt[axis] == 0 {
		axis = widestAxis(interiorExt)
	}

	split := (currentBox[0][axis] + currentBox[1][axis]) * 0.5
	pivot := t.sortTriangles(l, r, split, axis)
	if pivot == l || pivot == r {
		// Use the upper median so that both partitions stay non-empty
		// and disjoint.
		pivot = (l + r + 1) / 2
	}

	switch {
	case pivot < l:
		// Every centroid lies right of the split; retry with a tighter box.
		rbbox := currentBox
		rbbox[0][axis] = split
		return t.createNode(l, r, rbbox, depth+1)
	case pivot > r:
		// Every centroid lies left of the split.
		lbbox := currentBox
		lbbox[1][axis] = split
		return t.createNode(l, r, lbbox, depth+1)
	}

	nodeIndex := t.addNode(node{axis: axis, depth: uint8(depth)})

	lbbox := currentBox
	lbbox[1][axis] = split
	leftPlane := t.createBox(l, pivot-1)[1][axis]
	left := t.createNode(l, pivot-1, lbbox, depth+1)

	rbbox := currentBox
	rbbox[0][axis] = split
	rightPlane := t.createBox(pivot, r)[0][axis]
	right := t.createNode(pivot, r, rbbox, depth+1)

	t.nodes[nodeIndex].setSplit(leftPlane, rightPlane, left, right)
	return nodeIndex
}

// Partition triangle slots [l, r] in place so that triangles whose centroid
// along axis lies right of split end up at the end of the range. Returns the
// first slot of the right partition; l-1 if every triangle went right and
// r+1 if every triangle stayed left.
func (t *Tree) sortTriangles(l, r int, split float32, axis Axis) int {
	pivot, j := l, r
	for pivot <= j {
		if t.centroid(pivot, axis) > split {
			t.swapTriangles(pivot, j)
			j--
		} else {
			pivot++
		}
	}

	if pivot == l && j < pivot {
		pivot = j
	}
	return pivot
}

// Get the centroid coordinate along axis of the triangle in slot i.
func (t *Tree) centroid(i int, axis Axis) float32 {
	p := t.pointData[i*9:]
	return (p[axis] + p[3+axis] + p[6+axis]) * (1.0 / 3.0)
}

// Swap the vertex data and original indices of two triangle slots.
func (t *Tree) swapTriangles(i, j int) {
	if i == j {
		return
	}
	pi, pj := t.pointData[i*9:i*9+9], t.pointData[j*9:j*9+9]
	for k := range pi {
		pi[k], pj[k] = pj[k], pi[k]
	}
	t.triIndices[i], t.triIndices[j] = t.triIndices[j], t.triIndices[i]
}
