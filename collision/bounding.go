package collision

import (
	"github.com/achilleasa/bih/types"
	"github.com/chewxy/math32"
)

// An axis-aligned bounding box.
type BoundingBox struct {
	Min Vec3
	Max Vec3
}

// Create a bounding box from its min and max corners.
func NewBoundingBox(min, max Vec3) *BoundingBox {
	return &BoundingBox{Min: min, Max: max}
}

func (b *BoundingBox) CollisionKind() Kind {
	return KindBoundingBox
}

// Get the box center.
func (b *BoundingBox) Center() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Get the box half-extent along each axis.
func (b *BoundingBox) Extent() Vec3 {
	return b.Max.Sub(b.Min).Mul(0.5)
}

func (b *BoundingBox) Contains(p Vec3) bool {
	for axis := 0; axis < 3; axis++ {
		if p[axis] < b.Min[axis] || p[axis] > b.Max[axis] {
			return false
		}
	}
	return true
}

// Transform the 8 box corners and return their AABB.
func (b *BoundingBox) Transform(m Mat4) BoundingVolume {
	out := types.EmptyBBox()
	for corner := 0; corner < 8; corner++ {
		p := b.Min
		for axis := 0; axis < 3; axis++ {
			if corner&(1<<uint(axis)) != 0 {
				p[axis] = b.Max[axis]
			}
		}
		p = m.MulPoint(p)
		out[0] = types.MinVec3(out[0], p)
		out[1] = types.MaxVec3(out[1], p)
	}
	return &BoundingBox{Min: out[0], Max: out[1]}
}

// Clip the ray against the box slabs. If the ray starts inside the box
// the entry point is reported at distance 0. A ray that only touches the
// box produces a single collision.
func (b *BoundingBox) CollideWithRay(r Ray, results *Results) int {
	tMin, tMax := float32(0), math32.Inf(1)
	for axis := 0; axis < 3; axis++ {
		if r.Direction[axis] == 0 {
			if r.Origin[axis] < b.Min[axis] || r.Origin[axis] > b.Max[axis] {
				return 0
			}
			continue
		}

		invDir := 1.0 / r.Direction[axis]
		t0 := (b.Min[axis] - r.Origin[axis]) * invDir
		t1 := (b.Max[axis] - r.Origin[axis]) * invDir
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tMin = math32.Max(tMin, t0)
		tMax = math32.Min(tMax, t1)
		if tMin > tMax {
			return 0
		}
	}

	if math32.IsInf(tMax, 1) {
		// Degenerate direction; nothing to clip against.
		return 0
	}

	results.AddCollision(Result{ContactPoint: r.PointAt(tMin), Distance: tMin, TriangleIndex: -1})
	if tMax > tMin {
		results.AddCollision(Result{ContactPoint: r.PointAt(tMax), Distance: tMax, TriangleIndex: -1})
		return 2
	}
	return 1
}

// A bounding sphere.
type BoundingSphere struct {
	Center Vec3
	Radius float32
}

// Create a bounding sphere.
func NewBoundingSphere(center Vec3, radius float32) *BoundingSphere {
	return &BoundingSphere{Center: center, Radius: radius}
}

// Create the smallest sphere centered at the box center that encloses the box.
func BoundingSphereFromBox(b *BoundingBox) *BoundingSphere {
	return &BoundingSphere{Center: b.Center(), Radius: b.Extent().Len()}
}

func (s *BoundingSphere) CollisionKind() Kind {
	return KindBoundingSphere
}

func (s *BoundingSphere) Contains(p Vec3) bool {
	return p.Sub(s.Center).Len() <= s.Radius
}

// Transform the sphere center and scale its radius by the largest axis scale.
func (s *BoundingSphere) Transform(m Mat4) BoundingVolume {
	return &BoundingSphere{
		Center: m.MulPoint(s.Center),
		Radius: s.Radius * m.AxisScale().MaxComponent(),
	}
}

// Intersect the ray with the sphere. Rays starting inside the sphere
// report an entry point at distance 0.
func (s *BoundingSphere) CollideWithRay(r Ray, results *Results) int {
	dir := r.Direction.Normalize()
	dirLen := r.Direction.Len()
	if dirLen == 0 {
		return 0
	}

	diff := r.Origin.Sub(s.Center)
	a := diff.Dot(diff) - s.Radius*s.Radius
	a1 := dir.Dot(diff)
	discr := a1*a1 - a

	if discr < 0 {
		return 0
	}

	// Distances are expressed in units of the ray direction
	root := math32.Sqrt(discr)
	t0, t1 := (-a1-root)/dirLen, (-a1+root)/dirLen
	if t1 < 0 {
		return 0
	}
	if t0 < 0 {
		t0 = 0
	}

	results.AddCollision(Result{ContactPoint: r.PointAt(t0), Distance: t0, TriangleIndex: -1})
	if t1 > t0 {
		results.AddCollision(Result{ContactPoint: r.PointAt(t1), Distance: t1, TriangleIndex: -1})
		return 2
	}
	return 1
}
