package bih

import (
	"github.com/achilleasa/bih/collision"
	"github.com/achilleasa/bih/types"
	"github.com/chewxy/math32"
)

var inf = math32.Inf(1)

// Relative tolerance applied to split plane and bound distances so that
// triangles lying on a plane survive rounding in the local transform.
const planeEpsilon float32 = 1e-4

// A world ray expressed in the local space of the tree.
type localRay struct {
	origin types.Vec3
	dir    types.Vec3

	// Reciprocal of the un-normalized local direction.
	invDir types.Vec3
}

// Map a world ray into local space using the inverse world transform.
func toLocal(r collision.Ray, inv types.Mat4) localRay {
	dir := inv.MulDir(r.Direction)
	return localRay{
		origin: inv.MulPoint(r.Origin),
		dir:    dir.Normalize(),
		invDir: types.Vec3{1 / dir[0], 1 / dir[1], 1 / dir[2]},
	}
}

// Get the distance along axis from the local ray origin to the plane at
// coordinate plane, together with the rounding margin for that distance.
// The margin is zero when the ray runs parallel to the plane.
func (lr *localRay) planeDistance(plane float32, axis Axis) (t, margin float32) {
	invDir := lr.invDir[axis]
	t = (plane - lr.origin[axis]) * invDir
	if math32.IsInf(invDir, 0) {
		return t, 0
	}
	margin = planeEpsilon * (math32.Abs(plane) + math32.Abs(lr.origin[axis]) + 1) * math32.Abs(invDir)
	return t, margin
}

// Walk the tree with the ray over the interval [sceneMin, sceneMax] and append all
// triangle hits to results. The traversal uses the scratch stack instead of
// recursion; the caller's ray is never modified.
func (t *Tree) intersectWhere(r collision.Ray, world types.Mat4, sceneMin, sceneMax float32, results *collision.Results, scratch *Scratch) int {
	// The slab parameters use the un-normalized local direction so that
	// split distances share the parametrization of the world ray.
	lr := toLocal(r, world.Inv())

	cols := 0
	scratch.stack = scratch.stack[:0]
	scratch.push(0, sceneMin, sceneMax)

stackLoop:
	for len(scratch.stack) > 0 {
		frame := scratch.pop()
		n := &t.nodes[frame.node]
		tMin, tMax := frame.tMin, frame.tMax
		if tMax < tMin {
			continue
		}

		for !n.isLeaf() {
			axis := n.axis
			tNearSplit, nearMargin := lr.planeDistance(n.leftPlane, axis)
			tFarSplit, farMargin := lr.planeDistance(n.rightPlane, axis)
			nearNode, farNode := n.lData, n.rData
			if lr.invDir[axis] < 0 {
				tNearSplit, tFarSplit = tFarSplit, tNearSplit
				nearMargin, farMargin = farMargin, nearMargin
				nearNode, farNode = farNode, nearNode
			}
			tNearSplit += nearMargin
			tFarSplit -= farMargin

			switch {
			case tMin > tNearSplit && tMax < tFarSplit:
				// The interval falls in the gap between the two partitions.
				continue stackLoop
			case tMin > tNearSplit:
				tMin = math32.Max(tMin, tFarSplit)
				n = &t.nodes[farNode]
			case tMax < tFarSplit:
				tMax = math32.Min(tMax, tNearSplit)
				n = &t.nodes[nearNode]
			default:
				scratch.push(farNode, math32.Max(tMin, tFarSplit), tMax)
				tMax = math32.Min(tMax, tNearSplit)
				n = &t.nodes[nearNode]
			}
		}

		first, last := n.triangleRange()
		for i := first; i <= last; i++ {
			if t.testTriangle(r, world, &lr, i, results) {
				cols++
			}
		}
	}

	return cols
}

// Test the triangle in slot i against the ray. A hit must be found both in
// local space and, after transforming the triangle, in world space; hits
// within the ray limit are appended to results. Tree traversal and brute
// force queries share this accept rule.
func (t *Tree) testTriangle(r collision.Ray, world types.Mat4, lr *localRay, i int, results *collision.Results) bool {
	v1, v2, v3 := t.Triangle(i)
	if collision.IntersectTriangle(lr.origin, lr.dir, v1, v2, v3) == inf {
		return false
	}

	v1 = world.MulPoint(v1)
	v2 = world.MulPoint(v2)
	v3 = world.MulPoint(v3)

	tWorld := collision.IntersectTriangle(r.Origin, r.Direction, v1, v2, v3)
	if tWorld == inf {
		return false
	}

	contactPoint := r.PointAt(tWorld)
	distance := r.Origin.Distance(contactPoint)
	if r.HasLimit() && distance > r.Limit {
		return false
	}

	results.AddCollision(collision.Result{
		ContactPoint:  contactPoint,
		Distance:      distance,
		ContactNormal: collision.TriangleNormal(v1, v2, v3),
		TriangleIndex: t.triIndices[i],
	})
	return true
}
