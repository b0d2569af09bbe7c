package util

import (
	"time"
)

// DateLayout is the date format used in requests, CSV files and the store.
const DateLayout = "2006-01-02"

// YearFraction is the ACT/365 fraction of a year between two dates. Times of
// day are ignored.
func YearFraction(start, end time.Time) float64 {
	return float64(daysBetween(start, end)) / 365
}

func daysBetween(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours() / 24)
}

// ParseDates converts dates in DateLayout to time.Time.
func ParseDates(s []string) ([]time.Time, error) {
	h := make([]time.Time, len(s))
	for i, v := range s {
		d, err := time.Parse(DateLayout, v)
		if err != nil {
			return nil, err
		}
		h[i] = d
	}
	return h, nil
}

func IsHoliday(d time.Time, hols []time.Time) bool {
	for _, v := range hols {
		if d.Equal(v) {
			return true
		}
	}
	return false
}

func IsWeekday(d time.Time) bool {
	return d.Weekday() > time.Sunday && d.Weekday() < time.Saturday
}

// AdjustFollowing moves d forward to the first business day on or after it.
func AdjustFollowing(d time.Time, hols []time.Time) time.Time {
	for IsHoliday(d, hols) || !IsWeekday(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
