// Package collision contains the shapes and result containers used by
// collision queries.
package collision

import "fmt"

// Kind identifies the shape behind a Collidable.
type Kind uint8

const (
	KindRay Kind = iota
	KindBoundingBox
	KindBoundingSphere
)

func (k Kind) String() string {
	switch k {
	case KindRay:
		return "ray"
	case KindBoundingBox:
		return "bounding box"
	case KindBoundingSphere:
		return "bounding sphere"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Collidable is implemented by all shapes that can be passed to a collision query.
type Collidable interface {
	CollisionKind() Kind
}

// BoundingVolume is a coarse world-space volume used to reject rays before
// running a detailed query.
type BoundingVolume interface {
	Collidable

	// Add the points where r enters and leaves the volume to results and
	// return the number of added collisions. Result distances are ray
	// parameters in units of the direction length.
	CollideWithRay(r Ray, results *Results) int

	// Check whether p lies inside the volume.
	Contains(p Vec3) bool

	// Get a volume enclosing this volume after transforming it with m.
	Transform(m Mat4) BoundingVolume
}
