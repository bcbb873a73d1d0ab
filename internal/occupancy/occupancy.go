// Package occupancy derives a location's live headcount from its movement
// history. It is a pure computation layer: it never fetches anything and
// does not care which gateway call produced the events it is handed.
package occupancy

import (
	"sort"

	"github.com/turnstileops/turnstilectl/internal/models"
)

// Pressure buckets the utilization ratio for display signaling.
type Pressure string

const (
	PressureNormal   Pressure = "normal"
	PressureWarning  Pressure = "warning"
	PressureCritical Pressure = "critical"
)

// Utilization thresholds for the pressure buckets.
const (
	warningThreshold  = 0.7
	criticalThreshold = 0.9
)

// Source identifies where the occupancy figure came from.
type Source string

const (
	// SourceDerived means the count was recomputed from movement history.
	SourceDerived Source = "derived"
	// SourceSnapshot means no history was available and the server-supplied
	// counter was used as-is.
	SourceSnapshot Source = "snapshot"
)

// Report is the derived occupancy state for one location.
type Report struct {
	Current  int
	Capacity int
	// Ratio is capped at 1.0; over-capacity is reported via OverCapacity,
	// not by letting the ratio run past full.
	Ratio    float64
	Pressure Pressure
	Source   Source
}

// Remaining returns the free slots, never negative.
func (r Report) Remaining() int {
	if r.Current >= r.Capacity {
		return 0
	}
	return r.Capacity - r.Current
}

// OverCapacity reports whether the derived count exceeds the declared
// capacity. This is a valid, displayable state, not an error.
func (r Report) OverCapacity() bool {
	return r.Current > r.Capacity
}

// Sort orders events by (created_at, id) ascending, in place.
func Sort(events []models.MovementEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].CreatedAt.Equal(events[j].CreatedAt) {
			return events[i].ID < events[j].ID
		}
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
}

// Count folds the ordered events into a headcount. A stray exit with no
// matching entry (partial history) clamps at zero rather than driving the
// count negative.
func Count(events []models.MovementEvent) int {
	count := 0
	for _, ev := range events {
		switch ev.Operation {
		case models.OperationEntry:
			count++
		case models.OperationExit:
			if count > 0 {
				count--
			}
		}
	}
	return count
}

// Derive computes the occupancy report for a location from its movement
// history. When no history is available it falls back to the snapshot
// counter carried on the location record; when history is present the
// recomputed value wins. A non-positive declared capacity is a
// data-integrity error.
func Derive(loc models.Location, events []models.MovementEvent) (Report, error) {
	if err := loc.Validate(); err != nil {
		return Report{}, err
	}

	report := Report{Capacity: loc.MaxPeople}
	if len(events) == 0 {
		report.Current = loc.CurrentPeople
		report.Source = SourceSnapshot
	} else {
		sorted := make([]models.MovementEvent, len(events))
		copy(sorted, events)
		Sort(sorted)
		report.Current = Count(sorted)
		report.Source = SourceDerived
	}

	ratio := float64(report.Current) / float64(loc.MaxPeople)
	switch {
	case ratio >= criticalThreshold:
		report.Pressure = PressureCritical
	case ratio >= warningThreshold:
		report.Pressure = PressureWarning
	default:
		report.Pressure = PressureNormal
	}

	if ratio > 1.0 {
		ratio = 1.0
	}
	report.Ratio = ratio

	return report, nil
}
