package commute

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// AggregateRow is one chart-ready bucket: a time-of-day (optionally qualified
// by weekday) with the mean commute duration over the bucket's samples.
// StdDev uses the sample (n-1) formula and is NaN for buckets with fewer than
// two samples, and for the weekday grouping which never computes it.
type AggregateRow struct {
	WeekdayLabel string  `json:"weekday_label,omitempty"`
	TimeOfDay    string  `json:"time_of_day"`
	Mean         float64 `json:"commute_time"`
	StdDev       float64 `json:"-"`
	Count        int     `json:"count"`
}

// HasStdDev reports whether the row carries a defined standard deviation.
func (r AggregateRow) HasStdDev() bool {
	return !math.IsNaN(r.StdDev)
}

// AggregateByTime groups samples by time-of-day and computes the mean and
// sample standard deviation of each group. Rows come back sorted ascending by
// time-of-day regardless of input order.
func AggregateByTime(samples []Sample) []AggregateRow {
	groups := make(map[string][]float64)
	for _, s := range samples {
		key := s.TimeOfDay()
		groups[key] = append(groups[key], s.Duration)
	}

	rows := make([]AggregateRow, 0, len(groups))
	for key, durations := range groups {
		rows = append(rows, AggregateRow{
			TimeOfDay: key,
			Mean:      mean(durations),
			StdDev:    sampleStdDev(durations),
			Count:     len(durations),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].TimeOfDay < rows[j].TimeOfDay
	})
	return rows
}

// AggregateByWeekdayAndTime groups samples by (weekday, time-of-day) and
// computes the mean of each group. Standard deviation is intentionally not
// computed for this grouping; the weekday chart plots means only. Rows sort
// by weekday then time-of-day; the "{1-7} - Name" labels order correctly as
// plain strings.
func AggregateByWeekdayAndTime(samples []Sample) []AggregateRow {
	type bucket struct {
		weekday   string
		timeOfDay string
	}
	groups := make(map[bucket][]float64)
	for _, s := range samples {
		key := bucket{weekday: s.WeekdayLabel(), timeOfDay: s.TimeOfDay()}
		groups[key] = append(groups[key], s.Duration)
	}

	rows := make([]AggregateRow, 0, len(groups))
	for key, durations := range groups {
		rows = append(rows, AggregateRow{
			WeekdayLabel: key.weekday,
			TimeOfDay:    key.timeOfDay,
			Mean:         stat.Mean(durations, nil),
			StdDev:       math.NaN(),
			Count:        len(durations),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].WeekdayLabel != rows[j].WeekdayLabel {
			return rows[i].WeekdayLabel < rows[j].WeekdayLabel
		}
		return rows[i].TimeOfDay < rows[j].TimeOfDay
	})
	return rows
}

func mean(durations []float64) float64 {
	m, err := stats.Mean(durations)
	if err != nil {
		return math.NaN()
	}
	return m
}

// sampleStdDev guards the n<2 case itself so a single-sample bucket reports
// NaN instead of tripping the library's divide-by-zero.
func sampleStdDev(durations []float64) float64 {
	if len(durations) < 2 {
		return math.NaN()
	}
	sd, err := stats.StandardDeviationSample(durations)
	if err != nil {
		return math.NaN()
	}
	return sd
}
