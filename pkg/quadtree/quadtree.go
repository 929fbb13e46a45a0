// Package quadtree implements a capacity-bounded point quadtree over a
// spherical Rectangle boundary.
package quadtree

import "github.com/kass/geotrees/pkg/geo"

// DefaultCapacity is the number of points a node holds before it divides.
const DefaultCapacity = 5

// Tree is a point quadtree node. The zero value is not usable; construct
// with New. T is the payload type carried by stored records.
type Tree[T any] struct {
	boundary geo.Rectangle
	capacity int
	depth    int
	maxDepth int
	hasMax   bool

	points  []geo.Record[T]
	divided bool
	nw, ne, sw, se *Tree[T]
}

// New constructs a root quadtree node over boundary with the given leaf
// capacity (must be > 0) and no depth limit.
func New[T any](boundary geo.Rectangle, capacity int) *Tree[T] {
	return &Tree[T]{boundary: boundary, capacity: capacity}
}

// NewWithMaxDepth constructs a root quadtree node that stops dividing once
// it reaches maxDepth, accepting unbounded points at that depth instead.
func NewWithMaxDepth[T any](boundary geo.Rectangle, capacity, maxDepth int) *Tree[T] {
	return &Tree[T]{boundary: boundary, capacity: capacity, maxDepth: maxDepth, hasMax: true}
}

func (t *Tree[T]) child(boundary geo.Rectangle) *Tree[T] {
	c := &Tree[T]{boundary: boundary, capacity: t.capacity, depth: t.depth + 1, hasMax: t.hasMax, maxDepth: t.maxDepth}
	return c
}

// Boundary returns the node's rectangle.
func (t *Tree[T]) Boundary() geo.Rectangle { return t.boundary }

// Len returns the number of records stored at this node only (not its
// descendants).
func (t *Tree[T]) Len() int { return len(t.points) }

func (t *Tree[T]) atMaxDepth() bool { return t.hasMax && t.depth >= t.maxDepth }

// Insert adds r to the tree, returning false if r lies outside the node's
// boundary. Points already accepted by a node before it divides remain
// there; they are never redistributed to children.
func (t *Tree[T]) Insert(r geo.Record[T]) bool {
	if !geo.ContainsRecord(t.boundary, r) {
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

// divide splits the node's boundary into four non-overlapping quadrants
// sharing the parent's centre: NW, NE, SW, SE. Points already held by the
// parent are not moved into the new children.
func (t *Tree[T]) divide() {
	b := t.boundary
	cLon, cLat := b.Lon(), b.Lat()

	mkRect := func(west, east, south, north float64) geo.Rectangle {
		r, err := geo.NewRectangle(west, east, south, north)
		if err != nil {
			panic(err)
		}
		return r
	}

	t.nw = t.child(mkRect(b.West, cLon, cLat, b.North))
	t.ne = t.child(mkRect(cLon, b.East, cLat, b.North))
	t.sw = t.child(mkRect(b.West, cLon, b.South, cLat))
	t.se = t.child(mkRect(cLon, b.East, b.South, cLat))
	t.divided = true
}

// children returns the four child nodes in the fixed NW, NE, SW, SE
// traversal order used by Insert and Remove.
func (t *Tree[T]) children() [4]*Tree[T] {
	return [4]*Tree[T]{t.nw, t.ne, t.sw, t.se}
}

// Remove deletes the first record equal to r found by a depth-first search
// of this node's own points followed by its children in NW, NE, SW, SE
// order. It does not coalesce emptied subtrees.
func (t *Tree[T]) Remove(r geo.Record[T]) bool {
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
// depth-first in insertion order. Subtrees whose boundary does not
// intersect rect are pruned.
func (t *Tree[T]) Query(rect geo.Rectangle) []geo.Record[T] {
	var out []geo.Record[T]
	t.query(rect, &out)
	return out
}

func (t *Tree[T]) query(rect geo.Rectangle, out *[]geo.Record[T]) {
	if !t.boundary.Intersects(rect) {
		return
	}
	for _, p := range t.points {
		if geo.ContainsRecord(rect, p) {
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
// subtrees via e.NearbyRect.
func (t *Tree[T]) QueryEllipse(e geo.Ellipse) []geo.Record[T] {
	var out []geo.Record[T]
	t.queryEllipse(e, &out)
	return out
}

func (t *Tree[T]) queryEllipse(e geo.Ellipse, out *[]geo.Record[T]) {
	if !e.NearbyRect(t.boundary) {
		return
	}
	for _, p := range t.points {
		if geo.ContainsRecordEllipse(e, p) {
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

// NearbyPoints returns every stored record within dist kilometres of
// (lon, lat), pruning subtrees via the boundary's conservative Nearby test
// and filtering with an exact Haversine distance.
func (t *Tree[T]) NearbyPoints(lon, lat, dist float64) []geo.Record[T] {
	var out []geo.Record[T]
	t.nearbyPoints(lon, lat, dist, &out)
	return out
}

func (t *Tree[T]) nearbyPoints(lon, lat, dist float64, out *[]geo.Record[T]) {
	if !t.boundary.Nearby(lon, lat, dist) {
		return
	}
	for _, p := range t.points {
		if geo.Haversine(p.Lon, p.Lat, lon, lat) <= dist {
			*out = append(*out, p)
		}
	}
	if !t.divided {
		return
	}
	for _, child := range t.children() {
		child.nearbyPoints(lon, lat, dist, out)
	}
}
