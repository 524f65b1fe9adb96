package mesh

import (
	"testing"

	"github.com/achilleasa/bih/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quadPositions() []types.Vec3 {
	return []types.Vec3{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0},
	}
}

func TestTriangleListIdentity(t *testing.T) {
	m := &Mesh{Mode: Triangles, Positions: append(quadPositions(), types.Vec3{2, 2, 2}, types.Vec3{3, 3, 3})}

	indices, err := m.TriangleIndices()
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2, 3, 4, 5}, indices)
	assert.Equal(t, 2, m.TriangleCount())
}

func TestTriangleListDropsTrailingIndices(t *testing.T) {
	m := &Mesh{Mode: Triangles, Positions: quadPositions(), Indices: []uint32{0, 1, 2, 3}}

	indices, err := m.TriangleIndices()
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2}, indices)
	assert.Equal(t, 1, m.TriangleCount())
}

func TestTriangleStrip(t *testing.T) {
	m := &Mesh{Mode: TriangleStrip, Positions: quadPositions()}

	indices, err := m.TriangleIndices()
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2, 2, 1, 3}, indices)
	assert.Equal(t, 2, m.TriangleCount())

	// Both strip triangles must face the same way
	n0 := faceNormal(m.Positions, indices[0:3])
	n1 := faceNormal(m.Positions, indices[3:6])
	assert.Greater(t, n0.Dot(n1), float32(0))
}

func TestTriangleFan(t *testing.T) {
	m := &Mesh{
		Mode:      TriangleFan,
		Positions: []types.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}, {-1, 1, 0}},
		Indices:   []uint32{0, 1, 2, 3, 4},
	}

	indices, err := m.TriangleIndices()
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3, 0, 3, 4}, indices)
	assert.Equal(t, 3, m.TriangleCount())
}

func TestUnsupportedModes(t *testing.T) {
	for _, mode := range []Mode{Points, Lines, LineStrip, LineLoop} {
		m := &Mesh{Mode: mode, Positions: quadPositions()}
		_, err := m.TriangleIndices()
		assert.ErrorIs(t, err, ErrUnsupportedMode, mode.String())
		assert.Zero(t, m.TriangleCount())
	}
}

func TestIndexOutOfRange(t *testing.T) {
	m := &Mesh{Mode: Triangles, Positions: quadPositions(), Indices: []uint32{0, 1, 9}}

	_, err := m.TriangleIndices()
	assert.Error(t, err)
}

func TestBBox(t *testing.T) {
	m := &Mesh{Positions: []types.Vec3{{-1, 2, 0}, {3, -4, 5}}}

	bbox := m.BBox()
	assert.Equal(t, types.Vec3{-1, -4, 0}, bbox[0])
	assert.Equal(t, types.Vec3{3, 2, 5}, bbox[1])
}

func faceNormal(positions []types.Vec3, tri []uint32) types.Vec3 {
	v0, v1, v2 := positions[tri[0]], positions[tri[1]], positions[tri[2]]
	return v1.Sub(v0).Cross(v2.Sub(v0))
}
