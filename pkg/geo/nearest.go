package geo

import (
	"sort"
	"time"
)

// Number is the set of ordered numeric types FindNearest accepts. time.Time
// does not satisfy it (it has no arithmetic operators), so FindNearestTime
// is provided separately for that case.
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// FindNearest returns the index into the ascending-sorted slice vals whose
// value is closest to test. Ties are broken toward the earlier (lower)
// index, matching a bisect-right search followed by an argmin over the two
// candidate neighbours.
func FindNearest[T Number](vals []T, test T) int {
	if len(vals) == 0 {
		return -1
	}
	i := sort.Search(len(vals), func(i int) bool { return vals[i] > test })
	switch {
	case i == 0:
		return 0
	case i == len(vals):
		return len(vals) - 1
	default:
		below, above := vals[i-1], vals[i]
		if absDiff(test, above) < absDiff(test, below) {
			return i
		}
		return i - 1
	}
}

func absDiff[T Number](a, b T) T {
	if a > b {
		return a - b
	}
	return b - a
}

// FindNearestTime is the time.Time specialisation of FindNearest.
func FindNearestTime(vals []time.Time, test time.Time) int {
	if len(vals) == 0 {
		return -1
	}
	i := sort.Search(len(vals), func(i int) bool { return vals[i].After(test) })
	switch {
	case i == 0:
		return 0
	case i == len(vals):
		return len(vals) - 1
	default:
		below, above := vals[i-1], vals[i]
		if absDuration(test.Sub(above)) < absDuration(test.Sub(below)) {
			return i
		}
		return i - 1
	}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
