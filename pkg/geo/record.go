package geo

import (
	"fmt"
	"time"
)

// Record is an immutable-after-construction geospatial point, generic over
// a caller-supplied payload type T. Equality ignores the payload: two
// Records are equal if both have a non-empty UID and the UIDs match, or
// otherwise if (Lon, Lat, Datetime) match and both/neither carry a UID.
type Record[T any] struct {
	Lon      float64
	Lat      float64
	Datetime *time.Time
	UID      string
	Data     T
}

// NewRecord constructs a Record, canonicalising Lon into [-180, 180] and
// validating Lat. It returns a *LatitudeError if lat is out of range.
func NewRecord[T any](lon, lat float64, datetime *time.Time, uid string, data T) (Record[T], error) {
	if lat < -90 || lat > 90 {
		return Record[T]{}, newLatitudeError(
			"expected latitude value to be between -90 and 90 degrees, got %v", lat,
		)
	}
	return Record[T]{
		Lon:      CanonicalLon(lon),
		Lat:      lat,
		Datetime: datetime,
		UID:      uid,
		Data:     data,
	}, nil
}

func (r Record[T]) String() string {
	return fmt.Sprintf("Record(lon=%v, lat=%v, datetime=%v, uid=%q)", r.Lon, r.Lat, r.Datetime, r.UID)
}

// Equal reports whether r and other refer to the same record, ignoring the
// Data payload.
func (r Record[T]) Equal(other Record[T]) bool {
	if r.UID != "" && other.UID != "" {
		return r.UID == other.UID
	}
	if (r.UID == "") != (other.UID == "") {
		return false
	}
	return r.Lon == other.Lon && r.Lat == other.Lat && sameDatetime(r.Datetime, other.Datetime)
}

func sameDatetime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// Distance returns the Haversine distance in kilometres between r and other.
func (r Record[T]) Distance(other Record[T]) float64 {
	return Haversine(r.Lon, r.Lat, other.Lon, other.Lat)
}

// SpaceTimeRecord is the space-time analogue of Record: the datetime is
// mandatory rather than optional, for use with OctTree.
type SpaceTimeRecord[T any] struct {
	Lon      float64
	Lat      float64
	Datetime time.Time
	UID      string
	Data     T
}

// NewSpaceTimeRecord constructs a SpaceTimeRecord, canonicalising Lon and
// validating Lat.
func NewSpaceTimeRecord[T any](lon, lat float64, datetime time.Time, uid string, data T) (SpaceTimeRecord[T], error) {
	if lat < -90 || lat > 90 {
		return SpaceTimeRecord[T]{}, newLatitudeError(
			"expected latitude value to be between -90 and 90 degrees, got %v", lat,
		)
	}
	return SpaceTimeRecord[T]{
		Lon:      CanonicalLon(lon),
		Lat:      lat,
		Datetime: datetime,
		UID:      uid,
		Data:     data,
	}, nil
}

func (r SpaceTimeRecord[T]) String() string {
	return fmt.Sprintf("SpaceTimeRecord(lon=%v, lat=%v, datetime=%v, uid=%q)", r.Lon, r.Lat, r.Datetime, r.UID)
}

// Equal reports whether r and other refer to the same record, ignoring the
// Data payload.
func (r SpaceTimeRecord[T]) Equal(other SpaceTimeRecord[T]) bool {
	if r.UID != "" && other.UID != "" {
		return r.UID == other.UID
	}
	if (r.UID == "") != (other.UID == "") {
		return false
	}
	return r.Lon == other.Lon && r.Lat == other.Lat && r.Datetime.Equal(other.Datetime)
}

// Distance returns the Haversine distance in kilometres between r and other.
func (r SpaceTimeRecord[T]) Distance(other SpaceTimeRecord[T]) float64 {
	return Haversine(r.Lon, r.Lat, other.Lon, other.Lat)
}
