package domain

import "time"

// SearchOptions bounds the time entries requested from the service.
// A nil bound is left to the service default.
type SearchOptions struct {
	StartDate *time.Time
	EndDate   *time.Time
}

// LastDays returns options covering the given number of days up to now.
func LastDays(now time.Time, days int) SearchOptions {
	if days <= 0 {
		return SearchOptions{}
	}
	start := now.AddDate(0, 0, -days)
	end := now.Add(24 * time.Hour)
	return SearchOptions{StartDate: &start, EndDate: &end}
}
