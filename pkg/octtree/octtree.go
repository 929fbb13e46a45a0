// Package octtree implements a capacity-bounded space-time octtree over a
// spherical SpaceTimeRectangle boundary: an eight-way split in longitude,
// latitude, and time.
package octtree

import (
	"time"

	"github.com/kass/geotrees/pkg/geo"
)

// DefaultCapacity is the number of points a node holds before it divides.
const DefaultCapacity = 5

// Tree is a space-time octtree node. The zero value is not usable;
// construct with New or NewWithMaxDepth.
type Tree[T any] struct {
	boundary geo.SpaceTimeRectangle
	capacity int
	depth    int
	maxDepth int
	hasMax   bool

	points  []geo.SpaceTimeRecord[T]
	divided bool

	// Children named by (lat x lon x time) octant, matching the fixed
	// traversal order used by Insert and Remove: NWback, NEback, SWback,
	// SEback, NWfwd, NEfwd, SWfwd, SEfwd.
	nwBack, neBack, swBack, seBack *Tree[T]
	nwFwd, neFwd, swFwd, seFwd     *Tree[T]
}

// New constructs a root octtree node over boundary with the given leaf
// capacity (must be > 0) and no depth limit.
func New[T any](boundary geo.SpaceTimeRectangle, capacity int) *Tree[T] {
	return &Tree[T]{boundary: boundary, capacity: capacity}
}

// NewWithMaxDepth constructs a root octtree node that stops dividing once
// it reaches maxDepth, accepting unbounded points at that depth instead.
func NewWithMaxDepth[T any](boundary geo.SpaceTimeRectangle, capacity, maxDepth int) *Tree[T] {
	return &Tree[T]{boundary: boundary, capacity: capacity, maxDepth: maxDepth, hasMax: true}
}

func (t *Tree[T]) child(boundary geo.SpaceTimeRectangle) *Tree[T] {
	return &Tree[T]{boundary: boundary, capacity: t.capacity, depth: t.depth + 1, hasMax: t.hasMax, maxDepth: t.maxDepth}
}

// Boundary returns the node's space-time rectangle.
func (t *Tree[T]) Boundary() geo.SpaceTimeRectangle { return t.boundary }

// Len returns the number of records stored at this node only.
func (t *Tree[T]) Len() int { return len(t.points) }

func (t *Tree[T]) atMaxDepth() bool { return t.hasMax && t.depth >= t.maxDepth }

// Insert adds r to the tree, returning false if r lies outside the node's
// space-time boundary.
func (t *Tree[T]) Insert(r geo.SpaceTimeRecord[T]) bool {
	if !geo.ContainsSpaceTimeRecord(t.boundary, r) {
		return false
	}
	if t.atMaxDepth() || (!t.divided && len(t.points) < t.capacity) {
		t.points = append(t.points, r)
		return true
	}
	if !t.divided {
		t.divide()
	}
	for _, child := range t.children() {
		if child.Insert(r) {
			return true
		}
	}
	return false
}

// divide splits the node's boundary into eight octants sharing the
// parent's centre longitude, latitude, and datetime.
func (t *Tree[T]) divide() {
	b := t.boundary
	cLon, cLat := b.Lon(), b.Lat()
	cTime := b.CentreDatetime()

	build := func(west, east, south, north float64, startBack bool) geo.SpaceTimeRectangle {
		start, end := b.Start, cTime
		if !startBack {
			start, end = cTime, b.End
		}
		r, err := geo.NewSpaceTimeRectangle(west, east, south, north, start, end)
		if err != nil {
			panic(err)
		}
		return r
	}

	t.nwBack = t.child(build(b.West, cLon, cLat, b.North, true))
	t.neBack = t.child(build(cLon, b.East, cLat, b.North, true))
	t.swBack = t.child(build(b.West, cLon, b.South, cLat, true))
	t.seBack = t.child(build(cLon, b.East, b.South, cLat, true))
	t.nwFwd = t.child(build(b.West, cLon, cLat, b.North, false))
	t.neFwd = t.child(build(cLon, b.East, cLat, b.North, false))
	t.swFwd = t.child(build(b.West, cLon, b.South, cLat, false))
	t.seFwd = t.child(build(cLon, b.East, b.South, cLat, false))
	t.divided = true
}

// children returns the eight child nodes in the fixed NWback, NEback,
// SWback, SEback, NWfwd, NEfwd, SWfwd, SEfwd traversal order used by
// Insert and Remove.
func (t *Tree[T]) children() [8]*Tree[T] {
	return [8]*Tree[T]{
		t.nwBack, t.neBack, t.swBack, t.seBack,
		t.nwFwd, t.neFwd, t.swFwd, t.seFwd,
	}
}

// Remove deletes the first record equal to r found by a depth-first search
// of this node's own points followed by its children in the fixed octant
// order. It does not coalesce emptied subtrees.
func (t *Tree[T]) Remove(r geo.SpaceTimeRecord[T]) bool {
	for i, p := range t.points {
		if p.Equal(r) {
			t.points = append(t.points[:i], t.points[i+1:]...)
			return true
		}
	}
	if !t.divided {
		return false
	}
	for _, child := range t.children() {
		if child.Remove(r) {
			return true
		}
	}
	return false
}

// Query returns every stored record contained by rect, collected
// depth-first in insertion order. Subtrees whose boundary does not overlap
// rect in both space and time are pruned.
func (t *Tree[T]) Query(rect geo.SpaceTimeRectangle) []geo.SpaceTimeRecord[T] {
	var out []geo.SpaceTimeRecord[T]
	t.query(rect, &out)
	return out
}

func (t *Tree[T]) query(rect geo.SpaceTimeRectangle, out *[]geo.SpaceTimeRecord[T]) {
	if !t.boundary.IntersectsSpaceTime(rect) {
		return
	}
	for _, p := range t.points {
		if geo.ContainsSpaceTimeRecord(rect, p) {
			*out = append(*out, p)
		}
	}
	if !t.divided {
		return
	}
	for _, child := range t.children() {
		child.query(rect, out)
	}
}

// QueryEllipse returns every stored record contained by e, pruning
// subtrees via e.NearbyRectSpaceTime.
func (t *Tree[T]) QueryEllipse(e geo.SpaceTimeEllipse) []geo.SpaceTimeRecord[T] {
	var out []geo.SpaceTimeRecord[T]
	t.queryEllipse(e, &out)
	return out
}

func (t *Tree[T]) queryEllipse(e geo.SpaceTimeEllipse, out *[]geo.SpaceTimeRecord[T]) {
	if !e.NearbyRectSpaceTime(t.boundary) {
		return
	}
	for _, p := range t.points {
		if geo.ContainsSpaceTimeRecordEllipse(e, p) {
			*out = append(*out, p)
		}
	}
	if !t.divided {
		return
	}
	for _, child := range t.children() {
		child.queryEllipse(e, out)
	}
}

// NearbyPoints returns every stored record within dist kilometres and
// tDist of (lon, lat, t), pruning subtrees via the boundary's conservative
// NearbySpaceTime test. If excludeSelf is true, a stored record equal to
// the query record (lon, lat, t, uid) is skipped.
func (t *Tree[T]) NearbyPoints(query geo.SpaceTimeRecord[T], dist float64, tDist time.Duration, excludeSelf bool) []geo.SpaceTimeRecord[T] {
	var out []geo.SpaceTimeRecord[T]
	t.nearbyPoints(query, dist, tDist, excludeSelf, &out)
	return out
}

func (t *Tree[T]) nearbyPoints(query geo.SpaceTimeRecord[T], dist float64, tDist time.Duration, excludeSelf bool, out *[]geo.SpaceTimeRecord[T]) {
	if !t.boundary.NearbySpaceTime(query.Lon, query.Lat, query.Datetime, dist, tDist) {
		return
	}
	for _, p := range t.points {
		if excludeSelf && p.Equal(query) {
			continue
		}
		if geo.Haversine(p.Lon, p.Lat, query.Lon, query.Lat) > dist {
			continue
		}
		if absDuration(p.Datetime.Sub(query.Datetime)) > tDist {
			continue
		}
		*out = append(*out, p)
	}
	if !t.divided {
		return
	}
	for _, child := range t.children() {
		child.nearbyPoints(query, dist, tDist, excludeSelf, out)
	}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
