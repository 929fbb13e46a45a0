// Package geo provides spherical geometry primitives and shapes used to
// build and query the spatial-partition trees in pkg/quadtree, pkg/octtree,
// and pkg/kdtree.
package geo

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// LatitudeError is returned when a latitude value falls outside [-90, 90].
// It is fatal to the construction that raised it.
type LatitudeError struct {
	msg string
}

func (e *LatitudeError) Error() string { return e.msg }

func newLatitudeError(format string, args ...any) error {
	return &LatitudeError{msg: fmt.Sprintf(format, args...)}
}

// warnLog is the structured diagnostic channel used for non-fatal DateWarning
// conditions (a reversed start/end date range, auto-corrected by swapping).
// Logrus is used here rather than the standard library's log package so that
// callers can attach structured fields and control verbosity the same way
// the rest of the retrieval pack's services do.
var warnLog = logrus.New()

func warnDateSwap(start, end any) {
	warnLog.WithFields(logrus.Fields{
		"start": start,
		"end":   end,
	}).Warn("geo: end date precedes start date, swapping")
}
