package query

import (
	"context"
	"strings"
	"testing"

	"github.com/achilleasa/bih/bih"
	"github.com/achilleasa/bih/collision"
	"github.com/achilleasa/bih/mesh"
	"github.com/achilleasa/bih/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Build a tree for an n x n grid of unit quads lying on the z = 0 plane.
func gridTree(t *testing.T, n int) *bih.Tree {
	t.Helper()

	m := &mesh.Mesh{Name: "grid", Mode: mesh.Triangles}
	for y := 0; y <= n; y++ {
		for x := 0; x <= n; x++ {
			m.Positions = append(m.Positions, types.XYZ(float32(x), float32(y), 0))
		}
	}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			i := uint32(y*(n+1) + x)
			m.Indices = append(m.Indices, i, i+1, i+uint32(n)+1, i+1, i+uint32(n)+2, i+uint32(n)+1)
		}
	}

	tree, err := bih.NewTree(m, 4)
	require.NoError(t, err)
	tree.Construct()
	return tree
}

func TestLoadBatch(t *testing.T) {
	src := `
transform:
  translate: [1, 2, 3]
  rotate: [0, 0, 90]
bound: sphere
rays:
  - origin: [0, 0, 10]
    direction: [0, 0, -2]
  - origin: [0.5, 0.5, 10]
    direction: [0, 0, -1]
    limit: 4.5
`
	b, err := Load(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, types.XYZ(1, 2, 3), b.Transform.Translate)
	assert.Nil(t, b.Transform.Scale)
	assert.Equal(t, BoundSphere, b.Bound)
	require.Len(t, b.Rays, 2)

	r0 := b.Rays[0].Ray()
	assert.Equal(t, types.XYZ(0, 0, -1), r0.Direction)
	assert.False(t, r0.HasLimit())

	r1 := b.Rays[1].Ray()
	assert.True(t, r1.HasLimit())
	assert.Equal(t, float32(4.5), r1.Limit)
}

func TestLoadEmptyBatch(t *testing.T) {
	b, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, b.Rays)
}

func TestLoadInvalidBatch(t *testing.T) {
	specs := []struct {
		descr string
		src   string
	}{
		{"unknown field", "rayz: []"},
		{"short vector", "rays:\n  - origin: [0, 0]\n    direction: [0, 0, 1]"},
		{"zero direction", "rays:\n  - origin: [0, 0, 0]\n    direction: [0, 0, 0]"},
		{"negative limit", "rays:\n  - origin: [0, 0, 0]\n    direction: [0, 0, 1]\n    limit: -1"},
		{"unknown bound", "bound: capsule"},
		{"singular transform", "transform:\n  scale: [1, 0, 1]"},
	}

	for _, spec := range specs {
		t.Run(spec.descr, func(t *testing.T) {
			_, err := Load(strings.NewReader(spec.src))
			assert.ErrorIs(t, err, ErrInvalidBatch)
		})
	}
}

func TestTransformMat4(t *testing.T) {
	scale := types.XYZ(2, 2, 2)
	tr := Transform{
		Translate: types.XYZ(1, 2, 3),
		Rotate:    types.XYZ(0, 0, 90),
		Scale:     &scale,
	}

	// Scale, then rotate around Z, then translate.
	got := tr.Mat4().MulPoint(types.XYZ(1, 0, 0))
	exp := types.XYZ(1, 4, 3)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, exp[i], got[i], 1e-5)
	}

	ident := Transform{}.Mat4()
	assert.Equal(t, types.Ident4(), ident)
}

func TestRunMatchesBruteForce(t *testing.T) {
	tree := gridTree(t, 8)

	b := &Batch{
		Transform: Transform{Translate: types.XYZ(0, 0, -5)},
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			b.Rays = append(b.Rays, Ray{
				Origin:    types.XYZ(float32(x)+0.3, float32(y)+0.2, 5),
				Direction: types.XYZ(0, 0, -1),
			})
		}
	}
	// Misses the grid entirely.
	b.Rays = append(b.Rays, Ray{Origin: types.XYZ(-3, -3, 5), Direction: types.XYZ(0, 0, -1)})
	require.NoError(t, b.Validate())

	bound := b.WorldBound(tree)
	fast, err := Run(context.Background(), tree, bound, b, 3, false)
	require.NoError(t, err)
	slow, err := Run(context.Background(), tree, bound, b, 1, true)
	require.NoError(t, err)

	require.Len(t, fast, len(b.Rays))
	require.Len(t, slow, len(b.Rays))
	for i := range fast {
		assert.Equal(t, i, fast[i].Index)
		require.Len(t, fast[i].Hits, len(slow[i].Hits), "ray %d", i)
		for j := range fast[i].Hits {
			assert.Equal(t, slow[i].Hits[j].TriangleIndex, fast[i].Hits[j].TriangleIndex)
			assert.InDelta(t, slow[i].Hits[j].Distance, fast[i].Hits[j].Distance, 1e-4)
		}
	}

	hit, ok := fast[0].Closest()
	require.True(t, ok)
	assert.InDelta(t, 10, hit.Distance, 1e-4)
	assert.Equal(t, 0, hit.TriangleIndex)

	_, ok = fast[len(fast)-1].Closest()
	assert.False(t, ok)
}

func TestRunWithSphereBound(t *testing.T) {
	tree := gridTree(t, 4)
	b := &Batch{
		Bound: BoundSphere,
		Rays:  []Ray{{Origin: types.XYZ(1.3, 1.2, 3), Direction: types.XYZ(0, 0, -1), Limit: 10}},
	}
	bound := b.WorldBound(tree)
	_, isSphere := bound.(*collision.BoundingSphere)
	require.True(t, isSphere)

	out, err := Run(context.Background(), tree, bound, b, 0, false)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Len(t, out[0].Hits, 1)
	assert.InDelta(t, 3, out[0].Hits[0].Distance, 1e-5)
}

func TestRunHonorsRayLimit(t *testing.T) {
	tree := gridTree(t, 2)
	b := &Batch{
		Rays: []Ray{
			{Origin: types.XYZ(0.5, 0.25, 3), Direction: types.XYZ(0, 0, -1), Limit: 2},
			{Origin: types.XYZ(0.5, 0.25, 3), Direction: types.XYZ(0, 0, -1), Limit: 3.5},
		},
	}

	out, err := Run(context.Background(), tree, b.WorldBound(tree), b, 2, false)
	require.NoError(t, err)
	assert.Empty(t, out[0].Hits)
	assert.Len(t, out[1].Hits, 1)
}

func TestRunCancelled(t *testing.T) {
	tree := gridTree(t, 2)
	b := &Batch{}
	for i := 0; i < 200; i++ {
		b.Rays = append(b.Rays, Ray{Origin: types.XYZ(0.5, 0.25, 3), Direction: types.XYZ(0, 0, -1)})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, tree, b.WorldBound(tree), b, 2, false)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunEmptyBatch(t *testing.T) {
	tree := gridTree(t, 1)
	out, err := Run(context.Background(), tree, nil, &Batch{}, 4, false)
	require.NoError(t, err)
	assert.Empty(t, out)
}
