// Package calendar holds the date arithmetic used by class scheduling.
//
// Dates are calendar days represented as time.Time values at midnight UTC.
// All arithmetic happens in whole days on those values, so daylight-saving
// transitions or server time zones never shift a weekday.
package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Date returns the UTC midnight for the given year, month and day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf strips the clock and zone from t, keeping the calendar day t shows.
func DateOf(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string into a UTC date.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	return t, nil
}

// Format renders a date as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(DateLayout)
}

// AddDays moves a date by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return DateOf(t).AddDate(0, 0, n)
}

// DayBefore returns the previous calendar day. ok is false when d is the
// first representable day (0001-01-01), in which case d itself is returned.
func DayBefore(d time.Time) (prev time.Time, ok bool) {
	d = DateOf(d)
	if d.Year() <= 1 && d.YearDay() == 1 {
		return d, false
	}
	return AddDays(d, -1), true
}

// WeekdayOffset is the number of days (0-6) from a date falling on from to
// the next date falling on to.
func WeekdayOffset(from, to time.Weekday) int {
	return ((int(to)-int(from))%7 + 7) % 7
}

// WeekdayDates lists every date in [start, end] whose day of week is weekday.
// An empty range yields nil.
func WeekdayDates(start, end time.Time, weekday time.Weekday) []time.Time {
	start, end = DateOf(start), DateOf(end)
	if start.After(end) {
		return nil
	}

	var dates []time.Time
	for d := AddDays(start, WeekdayOffset(start.Weekday(), weekday)); !d.After(end); d = AddDays(d, 7) {
		dates = append(dates, d)
	}
	return dates
}

// Intersect returns the overlap of [aStart, aEnd] and [bStart, bEnd]. A nil
// bEnd means the second range is open-ended. ok is false when they do not overlap.
func Intersect(aStart, aEnd, bStart time.Time, bEnd *time.Time) (start, end time.Time, ok bool) {
	start, end = DateOf(aStart), DateOf(aEnd)
	if b := DateOf(bStart); b.After(start) {
		start = b
	}
	if bEnd != nil {
		if b := DateOf(*bEnd); b.Before(end) {
			end = b
		}
	}
	return start, end, !start.After(end)
}

// NormalizeTime turns a stored time of day into HH:MM:SS. Five-character
// values gain ":00", longer values are cut to eight characters and anything
// else is returned unchanged.
func NormalizeTime(raw string) string {
	switch {
	case len(raw) == 5:
		return raw + ":00"
	case len(raw) >= 8:
		return raw[:8]
	default:
		return raw
	}
}

// ValidTimeOfDay reports whether raw is HH:MM or HH:MM:SS on a 24 hour clock.
func ValidTimeOfDay(raw string) bool {
	if len(raw) != 5 && len(raw) != 8 {
		return false
	}
	for _, layout := range []string{"15:04:05", "15:04"} {
		if _, err := time.Parse(layout, raw); err == nil {
			return true
		}
	}
	return false
}
