// Package recurrence computes the due dates of recurring transaction templates.
//
// Occurrences are anchored on the template start date: occurrence n is the
// start date advanced by n periods. Monthly and yearly steps keep the start
// day-of-month and clamp it to the last day of shorter months, so a schedule
// starting on Jan 31 yields Feb 28 (or 29), Mar 31, Apr 30 and so on.
package recurrence

import (
	"time"
)

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths moves t by n calendar months, clamping the day to the target month.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	if last := DaysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

// Occurrence returns the n-th occurrence (0-based) of a schedule starting on start.
func Occurrence(start time.Time, f Frequency, n int) time.Time {
	start = Day(start)
	switch f {
	case Weekly:
		return start.AddDate(0, 0, 7*n)
	case Monthly:
		return AddMonths(start, n)
	case Yearly:
		return AddMonths(start, 12*n)
	default:
		return start.AddDate(0, 0, n)
	}
}

// daysBetween counts calendar days from start to d. It works on Unix seconds
// because time.Duration saturates after about 292 years.
func daysBetween(start, d time.Time) int {
	return int((Day(d).Unix() - Day(start).Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

// index estimates the occurrence index of d. The estimate is exact for daily
// and weekly schedules and may be one too high for monthly and yearly ones.
func index(start time.Time, f Frequency, d time.Time) int {
	start, d = Day(start), Day(d)
	switch f {
	case Weekly:
		return daysBetween(start, d) / 7
	case Monthly:
		return (d.Year()-start.Year())*12 + int(d.Month()) - int(start.Month())
	case Yearly:
		return d.Year() - start.Year()
	default:
		return daysBetween(start, d)
	}
}

// Schedule is the calendar view of a recurring template.
type Schedule struct {
	Frequency         Frequency
	StartDate         time.Time
	EndDate           *time.Time
	LastGeneratedDate *time.Time
	Active            bool
}

// Validate checks the schedule bounds.
func (s Schedule) Validate() bool {
	if !s.Frequency.Valid() || s.StartDate.IsZero() {
		return false
	}
	if s.EndDate != nil && Day(*s.EndDate).Before(Day(s.StartDate)) {
		return false
	}
	return true
}

// DueOccurrences returns, in ascending order, every occurrence after the last
// generated one and on or before asOf (and the end date, if set).
func DueOccurrences(s Schedule, asOf time.Time) []time.Time {
	if !s.Active || !s.Frequency.Valid() {
		return nil
	}

	start := Day(s.StartDate)
	upper := Day(asOf)
	if upper.Before(start) {
		return nil
	}
	if s.EndDate != nil && Day(*s.EndDate).Before(upper) {
		upper = Day(*s.EndDate)
	}

	n := 0
	var last time.Time
	hasLast := s.LastGeneratedDate != nil
	if hasLast {
		last = Day(*s.LastGeneratedDate)
		if n = index(start, s.Frequency, last) - 1; n < 0 {
			n = 0
		}
	}

	var due []time.Time
	for ; ; n++ {
		occ := Occurrence(start, s.Frequency, n)
		if occ.After(upper) {
			break
		}
		if hasLast && !occ.After(last) {
			continue
		}
		due = append(due, occ)
	}
	return due
}

// IsOccurrence reports whether d falls on the schedule within its bounds.
func IsOccurrence(s Schedule, d time.Time) bool {
	start := Day(s.StartDate)
	d = Day(d)
	if d.Before(start) {
		return false
	}
	if s.EndDate != nil && d.After(Day(*s.EndDate)) {
		return false
	}

	n := index(start, s.Frequency, d)
	for i := n - 1; i <= n+1; i++ {
		if i >= 0 && Occurrence(start, s.Frequency, i).Equal(d) {
			return true
		}
	}
	return false
}
