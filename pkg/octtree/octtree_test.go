package octtree

import (
	"testing"
	"time"

	"github.com/kass/geotrees/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strect(t *testing.T, west, east, south, north float64, start, end time.Time) geo.SpaceTimeRectangle {
	t.Helper()
	r, err := geo.NewSpaceTimeRectangle(west, east, south, north, start, end)
	require.NoError(t, err)
	return r
}

func strec(t *testing.T, lon, lat float64, when time.Time) geo.SpaceTimeRecord[string] {
	t.Helper()
	r, err := geo.NewSpaceTimeRecord(lon, lat, when, "", "")
	require.NoError(t, err)
	return r
}

func TestOctTreeEightWayDivide(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(2 * 24 * time.Hour)
	boundary := strect(t, -10, 10, -10, 10, start, end)
	tree := New[string](boundary, 1)

	require.True(t, tree.Insert(strec(t, 0, 0, start.Add(12*time.Hour))))
	require.True(t, tree.Insert(strec(t, -5, -5, start.Add(12*time.Hour))))
	require.True(t, tree.divided)

	mid := start.Add(24 * time.Hour)
	assert.True(t, tree.nwBack.Boundary().Start.Equal(start))
	assert.True(t, tree.nwBack.Boundary().End.Equal(mid))
	assert.True(t, tree.nwFwd.Boundary().Start.Equal(mid))
	assert.True(t, tree.nwFwd.Boundary().End.Equal(end))

	assert.InDelta(t, -10, tree.nwBack.Boundary().West, 1e-9)
	assert.InDelta(t, 0, tree.nwBack.Boundary().East, 1e-9)
	assert.InDelta(t, 0, tree.nwBack.Boundary().South, 1e-9)
	assert.InDelta(t, 10, tree.nwBack.Boundary().North, 1e-9)

	assert.InDelta(t, -10, tree.swBack.Boundary().West, 1e-9)
	assert.InDelta(t, 0, tree.swBack.Boundary().East, 1e-9)
	assert.InDelta(t, -10, tree.swBack.Boundary().South, 1e-9)
	assert.InDelta(t, 0, tree.swBack.Boundary().North, 1e-9)
}

func TestOctTreeQuerySpaceTime(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(10 * 24 * time.Hour)
	boundary := strect(t, -180, 180, -90, 90, start, end)
	tree := New[string](boundary, 3)

	inWindow := strec(t, 5, 5, start.Add(2*24*time.Hour))
	outWindow := strec(t, 5, 5, end.Add(24*time.Hour))
	tree.Insert(inWindow)
	assert.False(t, tree.Insert(outWindow), "outWindow's datetime lies outside the tree's boundary")

	queryRect := strect(t, 0, 10, 0, 10, start, start.Add(5*24*time.Hour))
	results := tree.Query(queryRect)
	require.Len(t, results, 1)
	assert.Equal(t, inWindow.Lon, results[0].Lon)
}

func TestOctTreeNearbyPointsExcludeSelf(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	boundary := strect(t, -1, 1, -1, 1, start, end)
	tree := New[string](boundary, 5)

	query := strec(t, 0, 0, start.Add(time.Hour))
	tree.Insert(query)
	neighbor := strec(t, 0.01, 0.01, start.Add(2*time.Hour))
	tree.Insert(neighbor)

	withSelf := tree.NearbyPoints(query, 5, 6*time.Hour, false)
	assert.Len(t, withSelf, 2)

	withoutSelf := tree.NearbyPoints(query, 5, 6*time.Hour, true)
	require.Len(t, withoutSelf, 1)
	assert.Equal(t, neighbor.Lon, withoutSelf[0].Lon)
}

func TestOctTreeRemove(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	boundary := strect(t, -1, 1, -1, 1, start, end)
	tree := New[string](boundary, 5)

	target := strec(t, 0, 0, start.Add(time.Hour))
	tree.Insert(target)

	assert.True(t, tree.Remove(target))
	assert.False(t, tree.Remove(target))
}
