// Package daterange models the inclusive calendar-day windows used by reports
// and ledger listings. All computations are done in UTC.
package daterange

import (
	"errors"
	"fmt"
	"iter"
	"time"
)

// DayLayout is the layout of a calendar day key.
const DayLayout = "2006-01-02"

// EndOfDayOffset is added to the start of the last day to get the window end.
const EndOfDayOffset = 24*time.Hour - time.Millisecond

var (
	ErrInvalidDate  = errors.New("invalid date")
	ErrInvalidRange = errors.New("start date is later than end date")
)

var layouts = []string{
	DayLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ParseDate parses a calendar day or a timestamp and returns it in UTC.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the last millisecond of the UTC day of t.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).Add(EndOfDayOffset)
}

// DayKey formats the UTC calendar day of t.
func DayKey(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// Window is an inclusive time window that spans whole UTC days:
// [Start 00:00:00, End 23:59:59.999].
type Window struct {
	Start time.Time
	End   time.Time
}

// New builds a window from two instants, widening it to full days.
func New(start, end time.Time) (Window, error) {
	w := Window{Start: StartOfDay(start), End: EndOfDay(end)}
	if w.Start.After(w.End) {
		return Window{}, ErrInvalidRange
	}
	return w, nil
}

// Month returns the window of the calendar month containing now.
func Month(now time.Time) Window {
	y, m, _ := now.UTC().Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return Window{Start: first, End: EndOfDay(last)}
}

// Days yields the midnight of every calendar day in the window, ascending.
func (w Window) Days() iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		last := StartOfDay(w.End)
		for d := StartOfDay(w.Start); !d.After(last); d = d.AddDate(0, 0, 1) {
			if !yield(d) {
				return
			}
		}
	}
}

// DayCount returns the number of calendar days in the window.
func (w Window) DayCount() int {
	if w.Start.After(w.End) {
		return 0
	}
	// UTC days are always 24h long.
	return int(StartOfDay(w.End).Sub(StartOfDay(w.Start))/(24*time.Hour)) + 1
}
