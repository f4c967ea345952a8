package report

import (
	"errors"
	"time"
)

const (
	PeriodToday  Period = "today"
	PeriodWeek   Period = "week"
	PeriodMonth  Period = "month"
	PeriodCustom Period = "custom"
)

type (
	// Period is the named shorthand a caller selects; ResolveWindow turns
	// it into a concrete Range.
	Period string

	// Range is an inclusive [Start, End] window bounding which records
	// are aggregated. Both bounds carry time-of-day: Start is normalized
	// to 00:00:00.000 and End to 23:59:59.999 of their calendar days.
	Range struct {
		Start time.Time
		End   time.Time
	}
)

// ErrInvalidRange is returned when a custom period is requested without
// an explicit range.
var ErrInvalidRange = errors.New("custom period requires an explicit date range")

func (p Period) Valid() bool {
	switch p {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodCustom:
		return true
	}
	return false
}

// Contains reports whether t falls inside the inclusive window.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// ResolveWindow maps a period selector to a concrete day-aligned window
// relative to now:
//
//	today:  the current calendar day
//	week:   7-day window ending today (start = today - 6 days)
//	month:  30-day window ending today (start = today - 29 days)
//	custom: the supplied range, each bound clamped to its day boundaries
//
// A custom period without a range fails with ErrInvalidRange. A custom
// range with start after end is not rejected; it resolves to a window
// that contains no instants.
func ResolveWindow(now time.Time, p Period, custom *Range) (Range, error) {
	switch p {
	case PeriodWeek:
		return Range{
			Start: StartOfDay(now.AddDate(0, 0, -6)),
			End:   EndOfDay(now),
		}, nil
	case PeriodMonth:
		return Range{
			Start: StartOfDay(now.AddDate(0, 0, -29)),
			End:   EndOfDay(now),
		}, nil
	case PeriodCustom:
		if custom == nil {
			return Range{}, ErrInvalidRange
		}
		return Range{
			Start: StartOfDay(custom.Start),
			End:   EndOfDay(custom.End),
		}, nil
	default:
		// today, and the fallback for anything unrecognized
		return Range{
			Start: StartOfDay(now),
			End:   EndOfDay(now),
		}, nil
	}
}

// DayWindow returns the single-day window covering t's calendar day.
func DayWindow(t time.Time) Range {
	return Range{Start: StartOfDay(t), End: EndOfDay(t)}
}

// StartOfDay returns t's calendar day at 00:00:00.000 local time.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns t's calendar day at 23:59:59.999 local time.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}
