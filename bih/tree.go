// Package bih implements a bounding interval hierarchy over the triangles of
// a single mesh and answers ray queries against it.
//
// A tree is built once with Construct and is read-only afterwards; it can
// then be queried concurrently provided that each goroutine passes its own
// Scratch workspace.
package bih

import (
	"fmt"

	"github.com/achilleasa/bih/collision"
	"github.com/achilleasa/bih/log"
	"github.com/achilleasa/bih/mesh"
	"github.com/achilleasa/bih/types"
	"github.com/chewxy/math32"
)

const (
	// Leaves are created when a node spans fewer triangles than this.
	DefaultMaxTrisPerNode = 21

	// Nodes deeper than this are turned into leaves regardless of their size.
	MaxTreeDepth = 100
)

// A Tree is a bounding interval hierarchy over the triangles of a mesh.
type Tree struct {
	logger log.Logger

	maxTrisPerNode int

	// Triangle vertices stored as 9 consecutive floats per triangle and a
	// mapping from the (reordered) triangle slot to the original mesh
	// triangle index.
	numTris    int
	pointData  []float32
	triIndices []int

	// Node arena; the root is always stored at index 0.
	nodes       []node
	bbox        [2]types.Vec3
	constructed bool

	stats Stats
}

// Create a tree for the triangles of m. Meshes that are not triangle lists
// are expanded into one before extracting the triangle data. The tree must
// be built with Construct before it can be queried.
func NewTree(m *mesh.Mesh, maxTrisPerNode int) (*Tree, error) {
	if maxTrisPerNode < 1 {
		return nil, ErrInvalidMaxTrisPerNode
	}
	if m == nil {
		return nil, ErrNilMesh
	}
	if m.Positions == nil {
		return nil, ErrMissingPositions
	}

	indices, err := m.TriangleIndices()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIllegalArgument, err)
	}

	t := &Tree{
		logger:         log.New("bih"),
		maxTrisPerNode: maxTrisPerNode,
	}
	t.initTriList(m.Positions, indices)
	return t, nil
}

// Copy the vertices referenced by the triangle list into the triangle store.
func (t *Tree) initTriList(positions []types.Vec3, indices []uint32) {
	t.numTris = len(indices) / 3
	t.pointData = make([]float32, 0, t.numTris*9)
	for _, index := range indices[:t.numTris*3] {
		v := positions[index]
		t.pointData = append(t.pointData, v[0], v[1], v[2])
	}

	t.triIndices = make([]int, t.numTris)
	for i := range t.triIndices {
		t.triIndices[i] = i
	}
}

// Get the number of triangles indexed by the tree.
func (t *Tree) TriangleCount() int {
	return t.numTris
}

// Get the leaf size threshold used when building the tree.
func (t *Tree) MaxTrisPerNode() int {
	return t.maxTrisPerNode
}

// Get the local-space vertices of the triangle stored in slot i.
func (t *Tree) Triangle(i int) (v1, v2, v3 types.Vec3) {
	p := t.pointData[i*9 : i*9+9]
	return types.Vec3{p[0], p[1], p[2]}, types.Vec3{p[3], p[4], p[5]}, types.Vec3{p[6], p[7], p[8]}
}

// Map triangle slot i to the index of the triangle in the source mesh.
func (t *Tree) TriangleIndex(i int) int {
	return t.triIndices[i]
}

// Get the local-space AABB of all triangles. Only valid after Construct.
func (t *Tree) BBox() [2]types.Vec3 {
	return t.bbox
}

// Get the statistics collected while building the tree.
func (t *Tree) Stats() Stats {
	return t.stats
}

// Get a world-space bounding box for the tree geometry. The box is padded
// by a small relative margin so that triangles on its faces are not lost to
// rounding when clipping rays against it.
func (t *Tree) WorldBound(world types.Mat4) collision.BoundingVolume {
	box := collision.NewBoundingBox(t.bbox[0], t.bbox[1]).Transform(world).(*collision.BoundingBox)
	if t.numTris == 0 {
		return box
	}

	scale := box.Max.Sub(box.Min).Len()
	for axis := 0; axis < 3; axis++ {
		scale = math32.Max(scale, math32.Max(math32.Abs(box.Min[axis]), math32.Abs(box.Max[axis])))
	}
	pad := types.Vec3{1, 1, 1}.Mul(planeEpsilon * scale)
	return collision.NewBoundingBox(box.Min.Sub(pad), box.Max.Add(pad))
}

// Collide the tree with other and append any collisions to results. Only
// rays are supported; other collidables fail with ErrUnsupportedCollision.
//
// world maps the tree local space into world space. bound is a coarse
// world-space volume enclosing the mesh; if nil, one is derived from the
// tree bbox. scratch is borrowed for the duration of the call; pass nil to
// use a temporary workspace.
func (t *Tree) CollideWith(other collision.Collidable, world types.Mat4, bound collision.BoundingVolume, results *collision.Results, scratch *Scratch) (int, error) {
	if !t.constructed {
		return 0, ErrNotConstructed
	}
	if results == nil {
		return 0, ErrNilResults
	}

	var ray collision.Ray
	switch c := other.(type) {
	case collision.Ray:
		ray = c
	case *collision.Ray:
		if c == nil {
			return 0, fmt.Errorf("%w: nil ray", ErrIllegalArgument)
		}
		ray = *c
	case nil:
		return 0, fmt.Errorf("%w: nil collidable", ErrIllegalArgument)
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedCollision, other.CollisionKind())
	}

	if world.Det() == 0 {
		return 0, ErrSingularTransform
	}
	if bound == nil {
		bound = t.WorldBound(world)
	}
	if scratch == nil {
		scratch = NewScratch()
	}

	return t.collideWithRay(ray, world, bound, results, scratch), nil
}

// Clip the ray against the coarse world bound and run the tree traversal
// over the resulting interval. Interval values are ray parameters in units
// of the ray direction length.
func (t *Tree) collideWithRay(r collision.Ray, world types.Mat4, bound collision.BoundingVolume, results *collision.Results, scratch *Scratch) int {
	scratch.boundResults.Clear()
	if bound.CollideWithRay(r, &scratch.boundResults) == 0 {
		return 0
	}

	closest, _ := scratch.boundResults.ClosestCollision()
	farthest, _ := scratch.boundResults.FarthestCollision()
	tMin, tMax := closest.Distance, farthest.Distance

	if tMax <= 0 {
		tMax = inf
	} else if tMin == tMax {
		tMin = 0
	}
	if tMin <= 0 {
		tMin = 0
	}

	if r.HasLimit() {
		// The limit is a distance; convert it to a ray parameter.
		if tLimit := r.Limit / r.Direction.Len(); tLimit < tMax {
			tMax = tLimit
		}
		if tMin > tMax {
			return 0
		}
	}

	// Leaf tests decide the actual hits; widening the interval only costs
	// extra node visits.
	tMin = math32.Max(0, tMin-planeEpsilon*(1+tMin))
	tMax += planeEpsilon * (1 + tMax)

	return t.intersectWhere(r, world, tMin, tMax, results, scratch)
}

// Test the ray against every triangle without using the hierarchy. Hits are
// accepted with the same rule as CollideWith so both report identical
// collisions for rays that fall inside the coarse bound.
func (t *Tree) CollideBruteForce(r collision.Ray, world types.Mat4, results *collision.Results) int {
	lr := toLocal(r, world.Inv())
	cols := 0
	for i := 0; i < t.numTris; i++ {
		if t.testTriangle(r, world, &lr, i, results) {
			cols++
		}
	}
	return cols
}
