// Package mesh defines the vertex/index buffer container consumed by the
// spatial index builders.
package mesh

import (
	"errors"
	"fmt"

	"github.com/achilleasa/bih/types"
)

// Mode describes how the index stream of a mesh is assembled into primitives.
type Mode uint8

const (
	Triangles Mode = iota
	TriangleStrip
	TriangleFan
	Points
	Lines
	LineStrip
	LineLoop
)

var ErrUnsupportedMode = errors.New("mesh: mode cannot be assembled into triangles")

func (m Mode) String() string {
	switch m {
	case Triangles:
		return "triangles"
	case TriangleStrip:
		return "triangle-strip"
	case TriangleFan:
		return "triangle-fan"
	case Points:
		return "points"
	case Lines:
		return "lines"
	case LineStrip:
		return "line-strip"
	case LineLoop:
		return "line-loop"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// A Mesh is a position vertex buffer plus an optional index buffer. A nil
// Positions slice means that the mesh has no position buffer.
type Mesh struct {
	Name      string
	Mode      Mode
	Positions []types.Vec3

	// Optional index buffer. If nil, vertices are consumed in order.
	Indices []uint32
}

// Get the number of vertices in the position buffer.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// Get the number of triangles this mesh assembles to.
func (m *Mesh) TriangleCount() int {
	n := len(m.Indices)
	if m.Indices == nil {
		n = len(m.Positions)
	}

	switch m.Mode {
	case Triangles:
		return n / 3
	case TriangleStrip, TriangleFan:
		if n < 3 {
			return 0
		}
		return n - 2
	}
	return 0
}

// Expand the mesh index stream into a triangle list: three indices per
// triangle. Meshes without an index buffer use an identity ordering. Strips
// flip the winding of every odd triangle so that all triangles keep the
// orientation of the first one; fans pivot on their first vertex.
func (m *Mesh) TriangleIndices() ([]uint32, error) {
	source := m.Indices
	if source == nil {
		source = make([]uint32, len(m.Positions))
		for i := range source {
			source[i] = uint32(i)
		}
	}

	var out []uint32
	switch m.Mode {
	case Triangles:
		out = source[:len(source)-len(source)%3]
	case TriangleStrip:
		out = make([]uint32, 0, 3*m.TriangleCount())
		for i := 0; i+2 < len(source); i++ {
			if i%2 == 0 {
				out = append(out, source[i], source[i+1], source[i+2])
			} else {
				out = append(out, source[i+1], source[i], source[i+2])
			}
		}
	case TriangleFan:
		out = make([]uint32, 0, 3*m.TriangleCount())
		for i := 1; i+1 < len(source); i++ {
			out = append(out, source[0], source[i], source[i+1])
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMode, m.Mode)
	}

	for _, index := range out {
		if int(index) >= len(m.Positions) {
			return nil, fmt.Errorf("mesh: index %d out of range for %d vertices", index, len(m.Positions))
		}
	}
	return out, nil
}

// Calculate the local-space AABB of all vertices.
func (m *Mesh) BBox() [2]types.Vec3 {
	bbox := types.EmptyBBox()
	for _, v := range m.Positions {
		bbox[0] = types.MinVec3(bbox[0], v)
		bbox[1] = types.MaxVec3(bbox[1], v)
	}
	return bbox
}
