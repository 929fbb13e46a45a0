package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGreatCircleConstructorDist(t *testing.T) {
	halifaxLon, halifaxLat := -63.5728, 44.6476
	southamptonLon, southamptonLat := -1.4049, 50.9105

	gc := NewGreatCircle(halifaxLon, halifaxLat, southamptonLon, southamptonLat)
	want := Haversine(southamptonLon, southamptonLat, halifaxLon, halifaxLat)
	assert.InDelta(t, want, gc.Dist, 1e-9)
}

func TestGreatCircleMeridianPlanesCoplanar(t *testing.T) {
	lon0, lat0 := 45.0, 23.0

	gc1 := NewGreatCircle(0, 90, lon0, lat0)
	gc2 := NewGreatCircle(0, -90, lon0, -lat0)

	assert.Greater(t, gc1.DistFromPoint(-lon0, lat0+5), 10.0)
	for lat := 23.0; lat < 90; lat += 2 {
		assert.Less(t, gc1.DistFromPoint(lon0, lat), 0.01)
	}
	for lat := -23.0; lat > -90; lat -= 2 {
		assert.Less(t, gc2.DistFromPoint(lon0, lat), 0.01)
	}

	assert.InDelta(t, gc1.Dist, gc2.Dist, 0.01)
	assert.True(t, gc1.IdenticalPlane(gc2))
}

func TestGreatCircleEquatorVsMeridian(t *testing.T) {
	gc0 := NewGreatCircle(-5, 0, 5, 0)  // equator arc
	gc1 := NewGreatCircle(0, -5, 0, 5)  // meridian arc

	assert.InDelta(t, gc0.Dist, gc1.Dist, 0.01)
	assert.Less(t, gc1.DistFromPoint(0, 0), 0.01)

	lon, lat := gc0.Intersection(gc1)
	assert.InDelta(t, 0, lon, 1e-6)
	assert.InDelta(t, 0, lat, 1e-6)

	angle := gc0.IntersectionAngle(gc1)
	assert.InDelta(t, 90, angle, 1e-6)
}
