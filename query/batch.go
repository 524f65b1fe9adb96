// Package query runs batches of ray queries against a BIH tree.
package query

import (
	"errors"
	"fmt"
	"io"

	"github.com/achilleasa/bih/asset"
	"github.com/achilleasa/bih/bih"
	"github.com/achilleasa/bih/collision"
	"github.com/achilleasa/bih/types"
	"github.com/chewxy/math32"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidBatch = errors.New("query: invalid batch")
)

// Bound kinds selectable by a batch.
const (
	BoundBox    = "box"
	BoundSphere = "sphere"
)

// Transform places the mesh in world space: M = T * R * S.
type Transform struct {
	Translate types.Vec3 `yaml:"translate"`

	// Yaw, pitch and roll in degrees around the X, Y and Z axis.
	Rotate types.Vec3 `yaml:"rotate"`

	// Per-axis scale; defaults to 1 when omitted.
	Scale *types.Vec3 `yaml:"scale"`
}

// Build the world matrix for this transform.
func (t Transform) Mat4() types.Mat4 {
	scale := types.XYZ(1, 1, 1)
	if t.Scale != nil {
		scale = *t.Scale
	}

	const degToRad = math32.Pi / 180
	rot := types.QuatFromEuler(t.Rotate[0]*degToRad, t.Rotate[1]*degToRad, t.Rotate[2]*degToRad)

	return types.Translate4(t.Translate).Mul4(rot.Mat4().Mul4(types.Scale4(scale)))
}

// A Ray as declared in a batch file. A zero or omitted limit means the ray
// is unbounded.
type Ray struct {
	Origin    types.Vec3 `yaml:"origin"`
	Direction types.Vec3 `yaml:"direction"`
	Limit     float32    `yaml:"limit"`
}

// Convert to a collision ray with a normalized direction.
func (r Ray) Ray() collision.Ray {
	ray := collision.NewRay(r.Origin, r.Direction)
	if r.Limit > 0 {
		ray = ray.WithLimit(r.Limit)
	}
	return ray
}

// A Batch is a set of rays cast against one mesh placement.
type Batch struct {
	Transform Transform `yaml:"transform"`

	// Coarse world bound type: "box" (default) or "sphere".
	Bound string `yaml:"bound"`

	Rays []Ray `yaml:"rays"`
}

// Get the world matrix of the batch.
func (b *Batch) World() types.Mat4 {
	return b.Transform.Mat4()
}

// Build the coarse world bound requested by the batch for tree.
func (b *Batch) WorldBound(tree *bih.Tree) collision.BoundingVolume {
	box := tree.WorldBound(b.World()).(*collision.BoundingBox)
	if b.Bound == BoundSphere {
		return collision.BoundingSphereFromBox(box)
	}
	return box
}

// Check the batch for rays and transforms that cannot be queried.
func (b *Batch) Validate() error {
	switch b.Bound {
	case "", BoundBox, BoundSphere:
	default:
		return fmt.Errorf("%w: unknown bound type %q", ErrInvalidBatch, b.Bound)
	}

	if b.World().Det() == 0 {
		return fmt.Errorf("%w: transform is not invertible", ErrInvalidBatch)
	}

	for i, r := range b.Rays {
		if r.Direction.Len() == 0 {
			return fmt.Errorf("%w: ray %d has a zero direction", ErrInvalidBatch, i)
		}
		if r.Limit < 0 {
			return fmt.Errorf("%w: ray %d has a negative limit", ErrInvalidBatch, i)
		}
	}
	return nil
}

// Decode and validate a YAML batch.
func Load(r io.Reader) (*Batch, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	b := &Batch{}
	if err := dec.Decode(b); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidBatch, err)
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Load a batch from a local file or http(s) URL.
func LoadFile(path string) (*Batch, error) {
	res, err := asset.NewResource(path, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return Load(res)
}
