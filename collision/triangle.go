package collision

import "github.com/chewxy/math32"

// Float epsilon used to reject rays running parallel to a triangle. It is
// applied to the cosine between the ray direction and the triangle normal so
// the test does not depend on the triangle size or the direction length.
const fltEpsilon float32 = 1.1920928955078125e-7

// Intersect the ray with triangle (v0, v1, v2) and return the hit parameter
// t, in units of the ray direction length, or +Inf if the ray misses. Both
// triangle sides are considered.
func IntersectTriangle(origin, dir, v0, v1, v2 Vec3) float32 {
	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)
	norm := edge1.Cross(edge2)

	dirDotNorm := dir.Dot(norm)
	if dirDotNorm*dirDotNorm <= fltEpsilon*fltEpsilon*dir.Dot(dir)*norm.Dot(norm) {
		return math32.Inf(1)
	}

	var sign float32 = 1
	if dirDotNorm < 0 {
		sign = -1
		dirDotNorm = -dirDotNorm
	}

	diff := origin.Sub(v0)
	dirDotDiffxEdge2 := sign * dir.Dot(diff.Cross(edge2))
	if dirDotDiffxEdge2 < 0 {
		return math32.Inf(1)
	}

	dirDotEdge1xDiff := sign * dir.Dot(edge1.Cross(diff))
	if dirDotEdge1xDiff < 0 || dirDotDiffxEdge2+dirDotEdge1xDiff > dirDotNorm {
		return math32.Inf(1)
	}

	diffDotNorm := -sign * diff.Dot(norm)
	if diffDotNorm < 0 {
		return math32.Inf(1)
	}

	return diffDotNorm / dirDotNorm
}

// Calculate the unit normal of triangle (v0, v1, v2) using counter-clockwise winding.
func TriangleNormal(v0, v1, v2 Vec3) Vec3 {
	return v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
}
