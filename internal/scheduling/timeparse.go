package scheduling

import "time"

// TimeLayout is the only accepted wire format for appointment times.
const TimeLayout = "2006-01-02 15:04:05"

// ParseTime reads a naive local timestamp. No zone suffix is accepted.
func ParseTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(TimeLayout, s, time.Local)
	if err != nil {
		return time.Time{}, validationf("invalid time %q, expected YYYY-MM-DD HH:MM:SS", s)
	}
	return t, nil
}

func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(time.Local).Format(TimeLayout)
}

func parseRange(startText, endText string) (Interval, error) {
	start, err := ParseTime(startText)
	if err != nil {
		return Interval{}, err
	}
	end, err := ParseTime(endText)
	if err != nil {
		return Interval{}, err
	}
	if !start.Before(end) {
		return Interval{}, validationf("end time must be after start time")
	}
	return Interval{Start: start, End: end}, nil
}
