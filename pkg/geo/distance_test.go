package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	cases := []struct {
		name                   string
		lon1, lat1, lon2, lat2 float64
		wantKm                 float64
		delta                  float64
	}{
		{"same point", 0, 0, 0, 0, 0, 1e-9},
		{"halifax-southampton", -63.5728, 44.6476, -1.4049, 50.9105, 4556, 50},
		{"quarter great circle", 0, 0, 90, 0, 10007.5, 5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Haversine(c.lon1, c.lat1, c.lon2, c.lat2)
			assert.InDelta(t, c.wantKm, got, c.delta)
		})
	}
}

func TestHaversineSymmetric(t *testing.T) {
	a := Haversine(10, 20, -50, 60)
	b := Haversine(-50, 60, 10, 20)
	assert.InDelta(t, a, b, 1e-9)
}

func TestDestinationRoundTrip(t *testing.T) {
	lon, lat := Destination(0, 0, 90, 1000)
	assert.InDelta(t, 1000, Haversine(0, 0, lon, lat), 1e-6)
}

func TestCanonicalLon(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{180, -180},
		{-180, -180},
		{190, -170},
		{-190, 170},
		{540, -180},
		{-540, -180},
		{360, 0},
		{-360, 0},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, CanonicalLon(c.in), 1e-9)
	}
}
