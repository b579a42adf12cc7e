package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"tutor-scheduling-api/internal/export"
	"tutor-scheduling-api/internal/model"
)

func TestWriteMinutes(t *testing.T) {
	start := time.Date(2025, 1, 1, 10, 0, 0, 0, time.Local)
	a := model.Appointment{
		Name:      "Calculus review",
		TutorName: "Ada",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Place:     "H6-301",
		Status:    model.StatusOpen,
	}
	m := model.Minutes{
		Content:  "Covered limits",
		FileLink: "https://files/min.pdf",
		StudentResults: []model.StudentResult{
			{StudentID: "s1", Score: "9", Note: "good"},
			{StudentID: "s2", Score: "7"},
		},
		CreatedAt: start.Add(2 * time.Hour),
	}

	var buf bytes.Buffer
	if err := export.WriteMinutes(&buf, a, m); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	if v, _ := f.GetCellValue(export.SummarySheet, "B1"); v != "Calculus review" {
		t.Errorf("B1 = %q", v)
	}
	if v, _ := f.GetCellValue(export.SummarySheet, "B3"); v != "2025-01-01 10:00:00" {
		t.Errorf("B3 = %q", v)
	}
	if v, _ := f.GetCellValue(export.SummarySheet, "B9"); v != "Covered limits" {
		t.Errorf("B9 = %q", v)
	}

	rows, err := f.GetRows(export.ResultsSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[1][0] != "s1" || rows[1][1] != "9" || rows[1][2] != "good" {
		t.Errorf("row 2 = %v", rows[1])
	}
	if rows[2][0] != "s2" {
		t.Errorf("row 3 = %v", rows[2])
	}
}
