package geo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpaceTimeRectangleSwapsReversedRange(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(-24 * time.Hour)

	r, err := NewSpaceTimeRectangle(-1, 1, -1, 1, start, end)
	require.NoError(t, err)
	assert.True(t, r.Start.Before(r.End))
	assert.True(t, r.Start.Equal(end))
	assert.True(t, r.End.Equal(start))
}

func TestSpaceTimeRectangleContainsBothDimensions(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(10 * 24 * time.Hour)
	r, err := NewSpaceTimeRectangle(-10, 10, -10, 10, start, end)
	require.NoError(t, err)

	assert.True(t, r.ContainsSpaceTime(0, 0, start.Add(5*24*time.Hour)))
	assert.False(t, r.ContainsSpaceTime(0, 0, end.Add(24*time.Hour)))
	assert.False(t, r.ContainsSpaceTime(20, 0, start.Add(5*24*time.Hour)))
}

func TestSpaceTimeEllipseSwapsReversedRange(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)

	e, err := NewSpaceTimeEllipse(0, 0, 500, 300, 0, start, end)
	require.NoError(t, err)
	assert.True(t, e.Start.Before(e.End))
}

func TestSpaceTimeRectangleCentreDatetime(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(10 * time.Hour)
	r, err := NewSpaceTimeRectangle(0, 1, 0, 1, start, end)
	require.NoError(t, err)
	assert.True(t, r.CentreDatetime().Equal(start.Add(5*time.Hour)))
}
