package commute

import (
	"fmt"
	"time"
)

// Sample is one recorded commute-duration measurement: when it was taken and
// how long the commute took, in minutes.
type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	Duration  float64   `json:"commute_time"` // minutes
}

// TimeOfDay returns the sample's clock time as a zero-padded "HH:MM" string.
// Lexicographic ordering of these strings equals chronological ordering
// within a day, which the aggregation relies on.
func (s Sample) TimeOfDay() string {
	return s.Timestamp.Format("15:04")
}

// WeekdayLabel returns "{1-7} - {WeekdayName}" with 1 = Monday.
func (s Sample) WeekdayLabel() string {
	wd := s.Timestamp.Weekday()
	ordinal := (int(wd)+6)%7 + 1 // time.Weekday counts from Sunday=0
	return fmt.Sprintf("%d - %s", ordinal, wd.String())
}

// OnHalfHour reports whether the sample sits on a :00 or :30 boundary.
func (s Sample) OnHalfHour() bool {
	m := s.Timestamp.Minute()
	return m == 0 || m == 30
}

// FilterHalfHour keeps only the samples taken on the half hour. The collector
// fetches on fixed half-hour slots; anything else is a stray manual fetch and
// would smear the buckets.
func FilterHalfHour(samples []Sample) []Sample {
	filtered := make([]Sample, 0, len(samples))
	for _, s := range samples {
		if s.OnHalfHour() {
			filtered = append(filtered, s)
		}
	}
	return filtered
}
