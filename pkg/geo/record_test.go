package geo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCanonicalizesLon(t *testing.T) {
	r, err := NewRecord(190.0, 10.0, nil, "", 0)
	require.NoError(t, err)
	assert.InDelta(t, -170, r.Lon, 1e-9)
}

func TestRecordInvalidLatitude(t *testing.T) {
	_, err := NewRecord(0, 95, nil, "", 0)
	require.Error(t, err)
	var latErr *LatitudeError
	assert.ErrorAs(t, err, &latErr)
}

func TestRecordEqualityByUID(t *testing.T) {
	a, err := NewRecord(1, 1, nil, "abc", "payload-a")
	require.NoError(t, err)
	b, err := NewRecord(2, 2, nil, "abc", "payload-b")
	require.NoError(t, err)
	assert.True(t, a.Equal(b), "records sharing a UID are equal regardless of position or payload")
}

func TestRecordEqualityByTuple(t *testing.T) {
	now := time.Now()
	a, err := NewRecord(1, 1, &now, "", 0)
	require.NoError(t, err)
	b, err := NewRecord(1, 1, &now, "", 0)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))

	c, err := NewRecord(1, 1, nil, "", 0)
	require.NoError(t, err)
	assert.False(t, a.Equal(c), "a record with a datetime is not equal to one without")
}

func TestSpaceTimeRecordRequiresDatetime(t *testing.T) {
	r, err := NewSpaceTimeRecord(1, 2, time.Now(), "x", 0)
	require.NoError(t, err)
	assert.Equal(t, "x", r.UID)
}
