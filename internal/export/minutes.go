// Package export renders session minutes as an xlsx workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"tutor-scheduling-api/internal/model"
	"tutor-scheduling-api/internal/scheduling"
)

const (
	SummarySheet = "Session"
	ResultsSheet = "Results"
)

// WriteMinutes writes a two-sheet workbook: session details and minutes
// text, then one row per student result.
func WriteMinutes(w io.Writer, a model.Appointment, m model.Minutes) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return err
	}
	summary := [][]any{
		{"Appointment", a.Name},
		{"Tutor", a.TutorName},
		{"Start", scheduling.FormatTime(a.StartTime)},
		{"End", scheduling.FormatTime(a.EndTime)},
		{"Place", a.Place},
		{"Status", string(a.Status)},
		{"Recorded", scheduling.FormatTime(m.CreatedAt)},
		{"File", m.FileLink},
		{"Minutes", m.Content},
	}
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("summary row %d: %w", i+1, err)
		}
	}

	if _, err := f.NewSheet(ResultsSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(ResultsSheet, "A1", &[]any{"Student ID", "Score", "Note"}); err != nil {
		return err
	}
	for i, r := range m.StudentResults {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(ResultsSheet, cell, &[]any{r.StudentID, r.Score, r.Note}); err != nil {
			return fmt.Errorf("result row %d: %w", i+2, err)
		}
	}

	_, err := f.WriteTo(w)
	return err
}
