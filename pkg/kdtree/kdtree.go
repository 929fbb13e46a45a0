// Package kdtree implements a balanced KDTree over (lon, lat), split at the
// median alternately on longitude and latitude, with Haversine-based
// nearest-neighbour search that is aware of the antimeridian discontinuity.
package kdtree

import (
	"math"
	"sort"

	"github.com/kass/geotrees/pkg/geo"
)

// DefaultMaxDepth is the recursion depth cap used when the caller does not
// supply one.
const DefaultMaxDepth = 20

// axis is the coordinate a node splits on.
type axis int

const (
	axisLon axis = iota
	axisLat
)

func (a axis) value(lon, lat float64) float64 {
	if a == axisLon {
		return lon
	}
	return lat
}

func (a axis) other() axis {
	if a == axisLon {
		return axisLat
	}
	return axisLon
}

// Tree is a KDTree node: either a leaf holding a list of points, or
// an internal node with an axis, partition value, and two children.
type Tree[T any] struct {
	leaf bool

	points []geo.Record[T]

	ax        axis
	partition float64
	left      *Tree[T]
	right     *Tree[T]
}

// Build constructs a balanced KDTree from points with the default maximum
// depth.
func Build[T any](points []geo.Record[T]) *Tree[T] {
	return BuildWithMaxDepth(points, DefaultMaxDepth)
}

// BuildWithMaxDepth constructs a balanced KDTree from points, never
// recursing past maxDepth.
func BuildWithMaxDepth[T any](points []geo.Record[T], maxDepth int) *Tree[T] {
	pts := append([]geo.Record[T](nil), points...)
	return build(pts, 0, maxDepth)
}

func build[T any](points []geo.Record[T], depth, maxDepth int) *Tree[T] {
	if depth == maxDepth || len(points) < 2 {
		return &Tree[T]{leaf: true, points: points}
	}

	ax := axisLon
	if depth%2 != 0 {
		ax = axisLat
	}

	sort.SliceStable(points, func(i, j int) bool {
		return ax.value(points[i].Lon, points[i].Lat) < ax.value(points[j].Lon, points[j].Lat)
	})

	n := len(points)
	splitIdx := n / 2
	partitionVal := ax.value(points[splitIdx-1].Lon, points[splitIdx-1].Lat)
	for splitIdx < n && ax.value(points[splitIdx].Lon, points[splitIdx].Lat) == partitionVal {
		splitIdx++
	}
	partitionVal = ax.value(points[splitIdx-1].Lon, points[splitIdx-1].Lat)

	return &Tree[T]{
		ax:        ax,
		partition: partitionVal,
		left:      build(points[:splitIdx], depth+1, maxDepth),
		right:     build(points[splitIdx:], depth+1, maxDepth),
	}
}

// Insert descends to a leaf comparing r's value on the node's axis against
// its partition value, appending r there. It returns false (without
// modifying the tree) if an equal record is already present in that leaf.
// Insert unbalances the tree; it never re-splits a leaf.
func (t *Tree[T]) Insert(r geo.Record[T]) bool {
	if t.leaf {
		for _, p := range t.points {
			if p.Equal(r) {
				return false
			}
		}
		t.points = append(t.points, r)
		return true
	}
	if t.ax.value(r.Lon, r.Lat) < t.partition {
		return t.left.Insert(r)
	}
	return t.right.Insert(r)
}

// Delete descends to a leaf by the same rule as Insert and removes any
// record equal to r, reporting whether one was removed.
func (t *Tree[T]) Delete(r geo.Record[T]) bool {
	if t.leaf {
		for i, p := range t.points {
			if p.Equal(r) {
				t.points = append(t.points[:i], t.points[i+1:]...)
				return true
			}
		}
		return false
	}
	if t.ax.value(r.Lon, r.Lat) < t.partition {
		return t.left.Delete(r)
	}
	return t.right.Delete(r)
}

// Query returns the nearest stored record to (lon, lat) and its Haversine
// distance from the original query point. To handle the antimeridian, the
// search also runs against a shadow query point shifted by +/-360 degrees
// of longitude, and the closer of the two results (measured against the
// original point) is returned.
//
// Query on an empty tree is a precondition violation: the second return
// value is then +Inf and the first is the zero Record.
func (t *Tree[T]) Query(lon, lat float64) (geo.Record[T], float64) {
	best, bestDist := t.query(lon, lat, nil, math.Inf(1))

	shadowLon := lon + 360
	if lon > 0 {
		shadowLon = lon - 360
	}
	shadowBest, shadowBestDist := t.query(shadowLon, lat, nil, math.Inf(1))

	bestTrueDist := bestDist
	if best != nil {
		bestTrueDist = geo.Haversine(lon, lat, best.Lon, best.Lat)
	}
	shadowTrueDist := shadowBestDist
	if shadowBest != nil {
		shadowTrueDist = geo.Haversine(lon, lat, shadowBest.Lon, shadowBest.Lat)
	}

	if shadowBest != nil && (best == nil || shadowTrueDist < bestTrueDist) {
		return *shadowBest, shadowTrueDist
	}
	if best == nil {
		var zero geo.Record[T]
		return zero, math.Inf(1)
	}
	return *best, bestTrueDist
}

func (t *Tree[T]) query(lon, lat float64, best *geo.Record[T], bestDist float64) (*geo.Record[T], float64) {
	if t.leaf {
		for i := range t.points {
			p := t.points[i]
			d := geo.Haversine(lon, lat, p.Lon, p.Lat)
			if d < bestDist {
				bestDist = d
				best = &t.points[i]
			}
		}
		return best, bestDist
	}

	near, far := t.left, t.right
	if t.ax.value(lon, lat) >= t.partition {
		near, far = t.right, t.left
	}

	best, bestDist = near.query(lon, lat, best, bestDist)

	// Perpendicular distance from the query point to the partition plane:
	// project the point onto the plane by holding the split axis fixed at
	// the partition value and keeping the other coordinate unchanged.
	var planeDist float64
	if t.ax == axisLon {
		planeDist = geo.Haversine(lon, lat, t.partition, lat)
	} else {
		planeDist = geo.Haversine(lon, lat, lon, t.partition)
	}
	if planeDist < bestDist {
		best, bestDist = far.query(lon, lat, best, bestDist)
	}
	return best, bestDist
}
