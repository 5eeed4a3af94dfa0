// Package datetime parses the date, time and duration strings typed on the
// command line and the ISO 8601 timestamps exchanged with the service.
package datetime

import (
	"math"
	"strconv"
	"strings"
	"time"

	"indicator-toggl/internal/errors"
)

// DefaultDisplayFormat is the layout used when printing instants to the user.
const DefaultDisplayFormat = "2006-01-02 15:04:05"

const (
	expectedDateTime = "YYYY-MM-DD[ HH:MM[:SS]], MM/DD/YYYY, HH:MM[:SS], H[:MM]am|pm, RFC 3339, now, today, yesterday or tomorrow"
	expectedDuration = "[[H:]M:]S"
	expectedISO      = "an ISO 8601 timestamp"
)

var dateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
}

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
}

// matched against lower-cased input
var clockLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04:05pm",
	"3:04pm",
	"3pm",
}

// ParseLocalDateTime turns user input into an instant. Inputs without a zone are
// read in now's location; clock-only inputs are placed on now's date.
func ParseLocalDateTime(text string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(text)
	loc := now.Location()

	switch strings.ToLower(s) {
	case "now":
		return now, nil
	case "today":
		return midnight(now), nil
	case "yesterday":
		return midnight(now).AddDate(0, 0, -1), nil
	case "tomorrow":
		return midnight(now).AddDate(0, 0, 1), nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	lower := strings.ToLower(strings.ReplaceAll(s, " ", ""))
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, lower); err == nil {
			y, m, d := now.Date()
			return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, loc), nil
		}
	}

	return time.Time{}, errors.NewParseError("date/time", text, expectedDateTime)
}

// ParseLocalDateTimeOrNow is ParseLocalDateTime for optional arguments: blank input means now.
func ParseLocalDateTimeOrNow(text string, now time.Time) (time.Time, error) {
	if strings.TrimSpace(text) == "" {
		return now, nil
	}
	return ParseLocalDateTime(text, now)
}

// ParseDuration reads "[[H:]M:]S" into seconds. Every segment must be a
// non-negative integer; segments are not range checked, so "90" and "0:90"
// are both 90 seconds.
// maxDurationSeconds is the longest duration, in seconds, that still fits a time.Duration.
const maxDurationSeconds = int64(math.MaxInt64 / time.Second)

func ParseDuration(text string) (int64, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, errors.NewParseError("duration", text, expectedDuration)
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, errors.NewParseError("duration", text, expectedDuration)
	}

	var total int64
	for _, part := range parts {
		if part == "" || strings.TrimLeft(part, "0123456789") != "" {
			return 0, errors.NewParseError("duration", text, expectedDuration)
		}
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return 0, errors.NewParseError("duration", text, expectedDuration)
		}
		if n > maxDurationSeconds || total > (maxDurationSeconds-n)/60 {
			return 0, errors.NewParseError("duration", text, expectedDuration)
		}
		total = total*60 + n
	}
	return total, nil
}

// FormatDuration renders seconds as H:MM:SS, the inverse of ParseDuration.
func FormatDuration(seconds int64) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return sign + strconv.FormatInt(h, 10) + ":" + pad2(m) + ":" + pad2(s)
}

// FormatTime renders an instant with DefaultDisplayFormat in its own location.
func FormatTime(t time.Time) string {
	return t.Format(DefaultDisplayFormat)
}

// ParseISO parses a wire timestamp such as "2024-01-01T09:00:00+00:00".
func ParseISO(text string) (time.Time, error) {
	s := strings.TrimSpace(text)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	// offsets without a colon, e.g. +0000
	if t, err := time.Parse("2006-01-02T15:04:05Z0700", s); err == nil {
		return t, nil
	}
	return time.Time{}, errors.NewParseError("timestamp", text, expectedISO)
}

// FormatISO renders an instant for the wire, always in UTC.
func FormatISO(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
