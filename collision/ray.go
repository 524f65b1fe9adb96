package collision

import (
	"github.com/achilleasa/bih/types"
	"github.com/chewxy/math32"
)

type (
	Vec3 = types.Vec3
	Mat4 = types.Mat4
)

// A Ray is a half line with an optional distance limit. Rays created with
// NewRay have an unlimited range.
type Ray struct {
	Origin    Vec3
	Direction Vec3

	// Collisions whose euclidean distance from Origin exceeds Limit are
	// ignored, whatever the length of Direction. +Inf disables the limit.
	Limit float32
}

// Create a ray with a normalized direction and no distance limit.
func NewRay(origin, direction Vec3) Ray {
	return Ray{
		Origin:    origin,
		Direction: direction.Normalize(),
		Limit:     math32.Inf(1),
	}
}

func (r Ray) CollisionKind() Kind {
	return KindRay
}

// Return a copy of the ray with the given distance limit.
func (r Ray) WithLimit(limit float32) Ray {
	r.Limit = limit
	return r
}

// Check whether the ray has a finite distance limit. A zero Limit is
// treated as unlimited so that zero-valued rays behave like NewRay.
func (r Ray) HasLimit() bool {
	return r.Limit > 0 && !math32.IsInf(r.Limit, 1)
}

// Get the point at distance t along the ray direction.
func (r Ray) PointAt(t float32) Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}
