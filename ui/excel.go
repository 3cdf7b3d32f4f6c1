package ui

import (
	"fmt"
	"log"
	"net/http"

	"github.com/xuri/excelize/v2"

	"commuteboard/app"
	"commuteboard/domain/commute"
)

// writeWorkbook streams the current snapshot as an .xlsx workbook, one
// worksheet per itinerary with the by-time rows followed by the by-weekday
// rows.
func writeWorkbook(w http.ResponseWriter, snap app.Snapshot) {
	f := excelize.NewFile()
	defer f.Close()

	for i, tab := range snap.Tabs {
		sheet := sheetName(tab, i)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				log.Printf("[Export] rename sheet: %v", err)
				http.Error(w, "export failed", http.StatusInternalServerError)
				return
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			log.Printf("[Export] new sheet: %v", err)
			http.Error(w, "export failed", http.StatusInternalServerError)
			return
		}

		row := writeRows(f, sheet, 1, []string{"time_of_day", "commute_time", "+/-", "count"}, tab.ByTime, false)
		row++ // blank spacer
		writeRows(f, sheet, row, []string{"weekday_label", "time_of_day", "commute_time", "count"}, tab.ByWeekday, true)
	}

	if len(snap.Tabs) == 0 {
		// Keep the default empty sheet so the workbook still opens.
		f.SetCellValue("Sheet1", "A1", "no itineraries")
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="commute-aggregates.xlsx"`)
	if err := f.Write(w); err != nil {
		log.Printf("[Export] error writing workbook: %v", err)
	}
}

// writeRows writes a header plus aggregate rows starting at startRow and
// returns the next free row.
func writeRows(f *excelize.File, sheet string, startRow int, header []string, rows []commute.AggregateRow, byWeekday bool) int {
	for col, name := range header {
		setCell(f, sheet, col+1, startRow, name)
	}

	r := startRow + 1
	for _, row := range rows {
		col := 1
		if byWeekday {
			setCell(f, sheet, col, r, row.WeekdayLabel)
			col++
		}
		setCell(f, sheet, col, r, row.TimeOfDay)
		setCell(f, sheet, col+1, r, row.Mean)
		if !byWeekday {
			if row.HasStdDev() {
				setCell(f, sheet, col+2, r, row.StdDev)
			}
			setCell(f, sheet, col+3, r, row.Count)
		} else {
			setCell(f, sheet, col+2, r, row.Count)
		}
		r++
	}
	return r
}

func setCell(f *excelize.File, sheet string, col, row int, value interface{}) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		log.Printf("[Export] bad cell coordinates (%d,%d): %v", col, row, err)
		return
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		log.Printf("[Export] set cell %s: %v", cell, err)
	}
}

// sheetName keeps worksheet names unique and inside excelize's 31-character
// limit. Truncation counts runes; itinerary labels can carry multibyte
// characters and a split rune makes excelize reject the name.
func sheetName(tab app.Tab, index int) string {
	name := tab.Name
	if name == "" {
		name = tab.ID
	}
	if runes := []rune(name); len(runes) > 25 {
		name = string(runes[:25])
	}
	return fmt.Sprintf("%d %s", index+1, name)
}
