package geo

// Rectangle is a lon/lat bounding box on the sphere. West/East/South/North
// are degrees; a rectangle whose West > East is understood to cross the
// antimeridian (its longitude span wraps through ±180).
type Rectangle struct {
	West, East, South, North float64
	// full marks a rectangle whose raw longitude span was requested as
	// >= 360 degrees (e.g. NewRectangle(-180, 180, ...)); West/East are
	// still canonicalised for display, but every longitude test treats
	// the rectangle as covering the whole circle.
	full bool
}

// NewRectangle constructs a Rectangle, canonicalising West/East into
// [-180, 180] and validating South/North. A requested longitude span of
// 360 degrees or more (e.g. west=-180, east=180) is preserved as a
// full-circle rectangle rather than collapsing to a zero-width one.
func NewRectangle(west, east, south, north float64) (Rectangle, error) {
	if south < -90 || south > 90 {
		return Rectangle{}, newLatitudeError("expected south to be between -90 and 90 degrees, got %v", south)
	}
	if north < -90 || north > 90 {
		return Rectangle{}, newLatitudeError("expected north to be between -90 and 90 degrees, got %v", north)
	}
	return Rectangle{
		West:  CanonicalLon(west),
		East:  CanonicalLon(east),
		South: south,
		North: north,
		full:  east-west >= 360,
	}, nil
}

// LonRange returns the rectangle's longitude span in degrees, correctly
// accounting for antimeridian crossing.
func (r Rectangle) LonRange() float64 {
	if r.full {
		return 360
	}
	if r.West <= r.East {
		return r.East - r.West
	}
	return 360 - r.West + r.East
}

// Lon returns the centre longitude of the rectangle.
func (r Rectangle) Lon() float64 {
	if r.West <= r.East && !r.full {
		return (r.West + r.East) / 2
	}
	return CanonicalLon(r.West + r.LonRange()/2)
}

// LatRange returns the rectangle's latitude span in degrees.
func (r Rectangle) LatRange() float64 { return r.North - r.South }

// Lat returns the centre latitude of the rectangle.
func (r Rectangle) Lat() float64 { return (r.South + r.North) / 2 }

// crossesAntimeridian reports whether the rectangle's longitude span wraps
// through ±180.
func (r Rectangle) crossesAntimeridian() bool { return r.West > r.East }

// crossesEquator reports whether the rectangle spans both hemispheres.
func (r Rectangle) crossesEquator() bool { return r.South < 0 && r.North > 0 }

// corners returns the four corner points of the rectangle.
func (r Rectangle) corners() [4][2]float64 {
	return [4][2]float64{
		{r.West, r.South},
		{r.West, r.North},
		{r.East, r.South},
		{r.East, r.North},
	}
}

// EdgeDist returns the maximum Haversine distance (km) from the rectangle's
// centre to any of its corners, used as a conservative bounding radius. If
// the rectangle straddles the equator, the east/west edge at the equator is
// also checked, since it can be farther from the centre than any corner.
func (r Rectangle) EdgeDist() float64 {
	lon, lat := r.Lon(), r.Lat()
	best := 0.0
	for _, c := range r.corners() {
		d := Haversine(lon, lat, c[0], c[1])
		if d > best {
			best = d
		}
	}
	if r.crossesEquator() {
		for _, eLon := range [2]float64{r.West, r.East} {
			d := Haversine(lon, lat, eLon, 0)
			if d > best {
				best = d
			}
		}
	}
	return best
}

func (r Rectangle) testEastWest(lon float64) bool {
	if r.full {
		return true
	}
	if r.crossesAntimeridian() {
		return lon >= r.West || lon <= r.East
	}
	return lon >= r.West && lon <= r.East
}

func (r Rectangle) testNorthSouth(lat float64) bool {
	return lat >= r.South && lat <= r.North
}

// Contains reports whether (lon, lat) lies within the rectangle, inclusive
// of its boundary.
func (r Rectangle) Contains(lon, lat float64) bool {
	return r.testEastWest(CanonicalLon(lon)) && r.testNorthSouth(lat)
}

// ContainsRecord reports whether a Record lies within the rectangle.
func ContainsRecord[T any](r Rectangle, rec Record[T]) bool {
	return r.Contains(rec.Lon, rec.Lat)
}

// Intersects reports whether r and other overlap. A rectangle whose
// LonRange covers the full circle (>= 360 degrees) always intersects any
// other rectangle on the east/west axis.
func (r Rectangle) Intersects(other Rectangle) bool {
	return r.lonOverlaps(other) && r.latOverlaps(other)
}

func (r Rectangle) lonOverlaps(other Rectangle) bool {
	if r.LonRange() >= 360 || other.LonRange() >= 360 {
		return true
	}
	if !r.crossesAntimeridian() && !other.crossesAntimeridian() {
		return r.West <= other.East && other.West <= r.East
	}
	// At least one of the two spans wraps the antimeridian: the spans overlap
	// iff an endpoint of either one lies within the other.
	return r.testEastWest(other.West) || r.testEastWest(other.East) ||
		other.testEastWest(r.West) || other.testEastWest(r.East)
}

func (r Rectangle) latOverlaps(other Rectangle) bool {
	return r.South <= other.North && other.South <= r.North
}

// Nearby reports whether point (lon, lat) is within dist kilometres of the
// rectangle, using the rectangle's edge distance as a conservative bound:
// if the point is farther than EdgeDist + dist from the centre it cannot be
// within dist of any point in the rectangle.
func (r Rectangle) Nearby(lon, lat, dist float64) bool {
	centreDist := Haversine(r.Lon(), r.Lat(), lon, lat)
	return centreDist <= r.EdgeDist()+dist+distEpsilon
}

// distEpsilon absorbs floating point rounding in the conservative Nearby
// check so that boundary-exact test cases aren't spuriously excluded.
const distEpsilon = 1e-9
