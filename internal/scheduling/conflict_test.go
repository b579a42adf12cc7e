package scheduling_test

import (
	"errors"
	"testing"
	"time"

	"tutor-scheduling-api/internal/model"
	"tutor-scheduling-api/internal/scheduling"
)

func span(t *testing.T, start, end string) scheduling.Interval {
	t.Helper()
	s, err := scheduling.ParseTime(start)
	if err != nil {
		t.Fatal(err)
	}
	e, err := scheduling.ParseTime(end)
	if err != nil {
		t.Fatal(err)
	}
	return scheduling.Interval{Start: s, End: e}
}

func TestOverlaps(t *testing.T) {
	base := span(t, "2025-01-01 10:00:00", "2025-01-01 11:00:00")

	tests := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"identical", "2025-01-01 10:00:00", "2025-01-01 11:00:00", true},
		{"inside", "2025-01-01 10:15:00", "2025-01-01 10:45:00", true},
		{"covering", "2025-01-01 09:00:00", "2025-01-01 12:00:00", true},
		{"tail", "2025-01-01 10:30:00", "2025-01-01 11:30:00", true},
		{"head", "2025-01-01 09:30:00", "2025-01-01 10:30:00", true},
		{"touching after", "2025-01-01 11:00:00", "2025-01-01 12:00:00", false},
		{"touching before", "2025-01-01 09:00:00", "2025-01-01 10:00:00", false},
		{"disjoint", "2025-01-02 10:00:00", "2025-01-02 11:00:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := span(t, tt.start, tt.end)
			if got := base.Overlaps(other); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := other.Overlaps(base); got != tt.want {
				t.Errorf("Overlaps is not symmetric")
			}
		})
	}
}

func TestFindConflictReturnsFirst(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2025, 1, 1, h, 0, 0, 0, time.Local) }
	existing := []model.Appointment{
		{Name: "early", StartTime: at(7), EndTime: at(8)},
		{Name: "first", StartTime: at(9), EndTime: at(11)},
		{Name: "second", StartTime: at(10), EndTime: at(12)},
	}
	got, ok := scheduling.FindConflict(scheduling.Interval{Start: at(10), End: at(11)}, existing)
	if !ok || got.Name != "first" {
		t.Fatalf("got %q, %v", got.Name, ok)
	}
	if _, ok := scheduling.FindConflict(scheduling.Interval{Start: at(12), End: at(13)}, existing); ok {
		t.Fatal("unexpected conflict")
	}
}

func TestParseTime(t *testing.T) {
	got, err := scheduling.ParseTime("2025-01-01 10:05:09")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Hour() != 10 || got.Minute() != 5 || got.Second() != 9 || got.Location() != time.Local {
		t.Errorf("parsed %v", got)
	}
	if scheduling.FormatTime(got) != "2025-01-01 10:05:09" {
		t.Errorf("format %q", scheduling.FormatTime(got))
	}

	for _, bad := range []string{"", "2025-01-01", "2025-01-01T10:00:00", "2025-13-01 10:00:00", "2025-01-01 25:00:00", "2025-01-01 10:00:00Z", " 2025-01-01 10:00:00", "2025-01-01 10:00:00 "} {
		_, err := scheduling.ParseTime(bad)
		if !errors.Is(err, scheduling.ErrValidation) {
			t.Errorf("%q: expected validation error, got %v", bad, err)
		}
	}
}

func TestCanBook(t *testing.T) {
	open := model.Appointment{Status: model.StatusOpen, MaxSlot: 2, CurrentSlots: []string{"S1"}}

	if !scheduling.CanBook(open, "S2") {
		t.Error("S2 should fit")
	}
	if scheduling.CanBook(open, "S1") {
		t.Error("S1 is already booked")
	}

	full := open.Clone()
	full.CurrentSlots = append(full.CurrentSlots, "S2")
	if scheduling.CanBook(full, "S3") {
		t.Error("appointment is full")
	}

	cancelled := open.Clone()
	cancelled.Status = model.StatusCancelled
	if scheduling.CanBook(cancelled, "S2") {
		t.Error("cancelled appointment is not bookable")
	}
}
