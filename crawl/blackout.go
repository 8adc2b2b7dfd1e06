package crawl

import (
	"fmt"
	"strings"
	"time"
)

// BlackoutFunc reports whether upstream calls must be held back at t.
type BlackoutFunc func(t time.Time) bool

// NoBlackout never holds calls back.
func NoBlackout(time.Time) bool { return false }

// DailyWindow is a quiet window repeating every day, e.g. 14:00-18:00.
// A window whose end is before its start wraps past midnight.
type DailyWindow struct {
	Start    time.Duration // offset from midnight
	End      time.Duration // offset from midnight, exclusive
	Location *time.Location
}

// ParseDailyWindow parses "HH:MM-HH:MM" in the given location.
// A nil location means UTC.
func ParseDailyWindow(s string, loc *time.Location) (DailyWindow, error) {
	if loc == nil {
		loc = time.UTC
	}
	from, to, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return DailyWindow{}, fmt.Errorf("invalid window %q: want HH:MM-HH:MM", s)
	}
	start, err := parseClock(from)
	if err != nil {
		return DailyWindow{}, fmt.Errorf("invalid window start: %w", err)
	}
	end, err := parseClock(to)
	if err != nil {
		return DailyWindow{}, fmt.Errorf("invalid window end: %w", err)
	}
	if start == end {
		return DailyWindow{}, fmt.Errorf("invalid window %q: empty", s)
	}
	return DailyWindow{Start: start, End: end, Location: loc}, nil
}

func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// Contains reports whether t falls inside the window.
func (w DailyWindow) Contains(t time.Time) bool {
	loc := w.Location
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	offset := time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
	if w.Start < w.End {
		return offset >= w.Start && offset < w.End
	}
	return offset >= w.Start || offset < w.End
}

// String formats the window as HH:MM-HH:MM.
func (w DailyWindow) String() string {
	return formatClock(w.Start) + "-" + formatClock(w.End)
}

func formatClock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}
