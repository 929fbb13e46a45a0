package kdtree

import (
	"testing"

	"github.com/kass/geotrees/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(t *testing.T, lon, lat float64, uid string) geo.Record[string] {
	t.Helper()
	r, err := geo.NewRecord(lon, lat, nil, uid, "")
	require.NoError(t, err)
	return r
}

func TestKDTreeNearestNeighborWithWrap(t *testing.T) {
	points := []geo.Record[string]{
		rec(t, 1, -10, "A"),
		rec(t, -9, 44, "B"),
		rec(t, 174, -81, "C"),
		rec(t, -4, -5, "D"),
	}
	tree := Build(points)

	got, dist := tree.Query(-6, 35)
	assert.Equal(t, "B", got.UID)
	assert.InDelta(t, geo.Haversine(-6, 35, -9, 44), dist, 1e-6)

	// C sits across the antimeridian from this query point.
	got, dist = tree.Query(-179, -80)
	assert.Equal(t, "C", got.UID)
	assert.InDelta(t, geo.Haversine(-179, -80, 174, -81), dist, 1e-6)
}

func TestKDTreeDuplicateMedianDoesNotEmptyRightSubtree(t *testing.T) {
	// Lon values carry a run of duplicates straddling the naive median
	// index: the split must advance past the whole run so the right
	// subtree (15, 20) isn't swallowed by it.
	lons := []float64{5, 10, 10, 10, 15, 20}
	points := make([]geo.Record[string], 0, len(lons))
	for i, lon := range lons {
		points = append(points, rec(t, lon, float64(i), ""))
	}
	tree := BuildWithMaxDepth(points, 1)
	require.False(t, tree.leaf)
	assert.NotEmpty(t, tree.left.points)
	assert.NotEmpty(t, tree.right.points)
	assert.InDelta(t, 10, tree.partition, 1e-9)
}

func TestKDTreeInsertAndDeleteDuplicateAware(t *testing.T) {
	points := []geo.Record[string]{
		rec(t, 1, 1, "A"),
		rec(t, 2, 2, "B"),
	}
	tree := Build(points)

	r := rec(t, 3, 3, "C")
	assert.True(t, tree.Insert(r))
	assert.False(t, tree.Insert(r))

	assert.True(t, tree.Delete(r))
	assert.False(t, tree.Delete(r))
}

func TestKDTreeQueryMatchesBruteForce(t *testing.T) {
	points := []geo.Record[string]{
		rec(t, 10, 10, "A"),
		rec(t, -170, 5, "B"),
		rec(t, 175, -5, "C"),
		rec(t, 0, 0, "D"),
		rec(t, 90, 45, "E"),
	}
	tree := Build(points)

	queries := [][2]float64{{178, -4}, {-175, 4}, {5, 5}, {85, 44}}
	for _, q := range queries {
		got, dist := tree.Query(q[0], q[1])

		bestDist := geo.Haversine(q[0], q[1], points[0].Lon, points[0].Lat)
		for _, p := range points[1:] {
			d := geo.Haversine(q[0], q[1], p.Lon, p.Lat)
			if d < bestDist {
				bestDist = d
			}
		}
		assert.InDelta(t, bestDist, dist, 1e-6)
		assert.InDelta(t, bestDist, geo.Haversine(q[0], q[1], got.Lon, got.Lat), 1e-6)
	}
}
