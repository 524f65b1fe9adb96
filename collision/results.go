package collision

import (
	"fmt"
	"sort"
)

// A Result describes a single ray collision.
type Result struct {
	// World-space contact point and its distance from the ray origin.
	ContactPoint Vec3
	Distance     float32

	// World-space face normal.
	ContactNormal Vec3

	// Index of the triangle in the source mesh or -1 for collisions that
	// are not associated with a triangle (e.g. bounding volume hits).
	TriangleIndex int
}

func (r Result) String() string {
	return fmt.Sprintf("tri %d at %.4f %v", r.TriangleIndex, r.Distance, r.ContactPoint)
}

// Results is an ordered collector of collision results. Collisions are
// kept sorted by distance; sorting is deferred until results are read.
type Results struct {
	results []Result
	sorted  bool
}

// Append a collision.
func (rs *Results) AddCollision(r Result) {
	rs.results = append(rs.results, r)
	rs.sorted = false
}

// Get the number of collected results.
func (rs *Results) Size() int {
	return len(rs.results)
}

// Drop all results while retaining the allocated storage.
func (rs *Results) Clear() {
	rs.results = rs.results[:0]
	rs.sorted = true
}

// Get the i-th closest collision.
func (rs *Results) Collision(i int) Result {
	rs.sort()
	return rs.results[i]
}

// Get the closest collision. The second return value is false if no
// collisions have been recorded.
func (rs *Results) ClosestCollision() (Result, bool) {
	if len(rs.results) == 0 {
		return Result{}, false
	}
	rs.sort()
	return rs.results[0], true
}

// Get the farthest collision. The second return value is false if no
// collisions have been recorded.
func (rs *Results) FarthestCollision() (Result, bool) {
	if len(rs.results) == 0 {
		return Result{}, false
	}
	rs.sort()
	return rs.results[len(rs.results)-1], true
}

// Get a sorted copy of all results.
func (rs *Results) All() []Result {
	rs.sort()
	out := make([]Result, len(rs.results))
	copy(out, rs.results)
	return out
}

func (rs *Results) sort() {
	if rs.sorted {
		return
	}
	sort.SliceStable(rs.results, func(i, j int) bool {
		return rs.results[i].Distance < rs.results[j].Distance
	})
	rs.sorted = true
}
