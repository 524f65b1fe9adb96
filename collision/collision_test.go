package collision

import (
	"testing"

	"github.com/achilleasa/bih/types"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntersectTriangle(t *testing.T) {
	v0, v1, v2 := Vec3{0, 0, 0}, Vec3{1, 0, 0}, Vec3{0, 1, 0}

	specs := []struct {
		name   string
		origin Vec3
		dir    Vec3
		expT   float32
	}{
		{"front face", Vec3{0.2, 0.2, 1}, Vec3{0, 0, -1}, 1},
		{"back face", Vec3{0.2, 0.2, -2}, Vec3{0, 0, 1}, 2},
		{"unnormalized direction", Vec3{0.2, 0.2, 4}, Vec3{0, 0, -2}, 2},
		{"outside edge", Vec3{0.8, 0.8, 1}, Vec3{0, 0, -1}, math32.Inf(1)},
		{"behind origin", Vec3{0.2, 0.2, 1}, Vec3{0, 0, 1}, math32.Inf(1)},
		{"parallel", Vec3{0.2, 0.2, 1}, Vec3{1, 0, 0}, math32.Inf(1)},
	}

	for _, spec := range specs {
		got := IntersectTriangle(spec.origin, spec.dir, v0, v1, v2)
		if math32.IsInf(spec.expT, 1) {
			assert.True(t, math32.IsInf(got, 1), "%s: expected miss; got %f", spec.name, got)
			continue
		}
		assert.InDelta(t, spec.expT, got, 1e-6, spec.name)
	}

	assert.Equal(t, Vec3{0, 0, 1}, TriangleNormal(v0, v1, v2))
}

func TestIntersectTinyTriangle(t *testing.T) {
	// The triangle normal is ~1e-8 long; parallel rejection must not
	// depend on it.
	v0, v1, v2 := Vec3{-1e-4, -1e-4, 0}, Vec3{1e-4, -1e-4, 0}, Vec3{0, 1e-4, 0}
	got := IntersectTriangle(Vec3{0, 0, 5e-4}, Vec3{0, 0, -1}, v0, v1, v2)
	assert.InDelta(t, 5e-4, got, 1e-9)

	// Shallow angle against the same triangle scaled up.
	dir := Vec3{1, 0, -1e-3}
	got = IntersectTriangle(Vec3{-0.5, 0, 5e-4}, dir, v0.Mul(1e4), v1.Mul(1e4), v2.Mul(1e4))
	assert.InDelta(t, 0.5, got, 1e-3)
	got = IntersectTriangle(Vec3{-0.5e-4, 0, 5e-8}, dir, v0, v1, v2)
	assert.InDelta(t, 0.5e-4, got, 1e-7)
}

func TestResultsOrdering(t *testing.T) {
	var results Results

	_, ok := results.ClosestCollision()
	require.False(t, ok)

	for i, d := range []float32{5, 1, 3} {
		results.AddCollision(Result{Distance: d, TriangleIndex: i})
	}

	require.Equal(t, 3, results.Size())
	closest, ok := results.ClosestCollision()
	require.True(t, ok)
	assert.Equal(t, 1, closest.TriangleIndex)

	farthest, ok := results.FarthestCollision()
	require.True(t, ok)
	assert.Equal(t, 0, farthest.TriangleIndex)
	assert.Equal(t, float32(3), results.Collision(1).Distance)

	// Adding after a read must re-sort
	results.AddCollision(Result{Distance: 0.5, TriangleIndex: 7})
	closest, _ = results.ClosestCollision()
	assert.Equal(t, 7, closest.TriangleIndex)

	results.Clear()
	assert.Zero(t, results.Size())
	_, ok = results.FarthestCollision()
	assert.False(t, ok)
}

func TestBoundingBoxRay(t *testing.T) {
	box := NewBoundingBox(Vec3{-1, -1, -1}, Vec3{1, 1, 1})

	var results Results
	require.Equal(t, 2, box.CollideWithRay(NewRay(Vec3{0, 0, 5}, Vec3{0, 0, -1}), &results))
	closest, _ := results.ClosestCollision()
	farthest, _ := results.FarthestCollision()
	assert.InDelta(t, 4, closest.Distance, 1e-6)
	assert.InDelta(t, 6, farthest.Distance, 1e-6)
	assert.Equal(t, -1, closest.TriangleIndex)

	// Origin inside the box
	results.Clear()
	require.Equal(t, 2, box.CollideWithRay(NewRay(Vec3{}, Vec3{1, 0, 0}), &results))
	closest, _ = results.ClosestCollision()
	assert.Zero(t, closest.Distance)

	// Misses
	results.Clear()
	assert.Zero(t, box.CollideWithRay(NewRay(Vec3{0, 3, 5}, Vec3{0, 0, -1}), &results))
	assert.Zero(t, box.CollideWithRay(NewRay(Vec3{0, 0, 5}, Vec3{0, 0, 1}), &results))
	assert.Zero(t, results.Size())
}

func TestBoundingBoxTransform(t *testing.T) {
	box := NewBoundingBox(Vec3{-1, -1, -1}, Vec3{1, 1, 1})
	m := types.Translate4(Vec3{10, 0, 0}).Mul4(types.Scale4(Vec3{2, 1, 1}))

	out, ok := box.Transform(m).(*BoundingBox)
	require.True(t, ok)
	assert.Equal(t, Vec3{8, -1, -1}, out.Min)
	assert.Equal(t, Vec3{12, 1, 1}, out.Max)
	assert.True(t, out.Contains(Vec3{11, 0, 0}))
	assert.False(t, out.Contains(Vec3{0, 0, 0}))
}

func TestBoundingSphereRay(t *testing.T) {
	sphere := NewBoundingSphere(Vec3{0, 0, 0}, 2)

	var results Results
	require.Equal(t, 2, sphere.CollideWithRay(NewRay(Vec3{0, 0, 10}, Vec3{0, 0, -1}), &results))
	closest, _ := results.ClosestCollision()
	farthest, _ := results.FarthestCollision()
	assert.InDelta(t, 8, closest.Distance, 1e-5)
	assert.InDelta(t, 12, farthest.Distance, 1e-5)

	results.Clear()
	assert.Zero(t, sphere.CollideWithRay(NewRay(Vec3{0, 5, 10}, Vec3{0, 0, -1}), &results))
	assert.Zero(t, sphere.CollideWithRay(NewRay(Vec3{0, 0, 10}, Vec3{0, 0, 1}), &results))

	scaled := sphere.Transform(types.Scale4(Vec3{1, 3, 1})).(*BoundingSphere)
	assert.InDelta(t, 6, scaled.Radius, 1e-5)
	assert.True(t, scaled.Contains(Vec3{0, 5, 0}))

	fromBox := BoundingSphereFromBox(NewBoundingBox(Vec3{-1, -1, -1}, Vec3{1, 1, 1}))
	assert.InDelta(t, math32.Sqrt(3), fromBox.Radius, 1e-5)
}

func TestRayLimit(t *testing.T) {
	r := NewRay(Vec3{}, Vec3{0, 0, 2})
	assert.False(t, r.HasLimit())
	assert.Equal(t, Vec3{0, 0, 1}, r.Direction)
	assert.True(t, r.WithLimit(5).HasLimit())
	assert.False(t, Ray{}.HasLimit())
	assert.Equal(t, KindRay, r.CollisionKind())
	assert.Equal(t, "ray", r.CollisionKind().String())
}
