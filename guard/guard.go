// Package guard rejects conditioning features whose data reaches the
// decision point. A feature may only gate a simulation if every bar it
// consumed is timestamped strictly before the range open.
package guard

import (
	"fmt"
	"time"
)

// TemporalViolation is returned when a feature's data window extends into
// or past the range open. It is always fatal for the run.
type TemporalViolation struct {
	Feature   string
	FeatureAt time.Time // latest timestamp (or exclusive window end) the feature used
	RangeOpen time.Time
	Window    bool // FeatureAt is an exclusive window end rather than a bar time
}

func (e *TemporalViolation) Error() string {
	if e.Window {
		return fmt.Sprintf("temporal violation: feature %q window ends %s, after range open %s",
			e.Feature, e.FeatureAt.UTC().Format(time.RFC3339), e.RangeOpen.UTC().Format(time.RFC3339))
	}
	return fmt.Sprintf("temporal violation: feature %q consumed data at %s, not before range open %s",
		e.Feature, e.FeatureAt.UTC().Format(time.RFC3339), e.RangeOpen.UTC().Format(time.RFC3339))
}

// AssertNoLookahead fails when featureMax >= rangeOpen.
func AssertNoLookahead(feature string, featureMax, rangeOpen time.Time) error {
	if !featureMax.Before(rangeOpen) {
		return &TemporalViolation{Feature: feature, FeatureAt: featureMax, RangeOpen: rangeOpen}
	}
	return nil
}

// CheckWindow fails when a feature's [start, end) window ends after
// rangeOpen. An end equal to rangeOpen is allowed: nothing at or after the
// open is inside the window.
func CheckWindow(feature string, start, end, rangeOpen time.Time) error {
	if end.Before(start) {
		return fmt.Errorf("feature %q: window end %s before start %s", feature,
			end.UTC().Format(time.RFC3339), start.UTC().Format(time.RFC3339))
	}
	if end.After(rangeOpen) {
		return &TemporalViolation{Feature: feature, FeatureAt: end, RangeOpen: rangeOpen, Window: true}
	}
	return nil
}
