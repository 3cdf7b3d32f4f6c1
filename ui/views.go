package ui

import (
	"commuteboard/app"
	"commuteboard/domain/commute"
)

// chartRow is the wire shape handed to the charting layer: named columns for
// the axis mapping plus the "+/-" spread column, omitted when undefined.
type chartRow struct {
	WeekdayLabel string   `json:"weekday_label,omitempty"`
	TimeOfDay    string   `json:"time_of_day"`
	CommuteTime  float64  `json:"commute_time"`
	PlusMinus    *float64 `json:"+/-,omitempty"`
	Count        int      `json:"count"`
}

func chartRows(rows []commute.AggregateRow) []chartRow {
	out := make([]chartRow, 0, len(rows))
	for _, row := range rows {
		cr := chartRow{
			WeekdayLabel: row.WeekdayLabel,
			TimeOfDay:    row.TimeOfDay,
			CommuteTime:  row.Mean,
			Count:        row.Count,
		}
		if row.HasStdDev() {
			sd := row.StdDev
			cr.PlusMinus = &sd
		}
		out = append(out, cr)
	}
	return out
}

// tabView is what the dashboard template iterates over.
type tabView struct {
	ID          string
	Name        string
	Warning     string
	SampleCount int
}

func tabViews(snap app.Snapshot) []tabView {
	views := make([]tabView, 0, len(snap.Tabs))
	for _, tab := range snap.Tabs {
		views = append(views, tabView{
			ID:          tab.ID,
			Name:        tab.Name,
			Warning:     tab.Warning,
			SampleCount: tab.SampleCount,
		})
	}
	return views
}
