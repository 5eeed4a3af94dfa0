package validation

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Defaults applied when no Limits are supplied.
const (
	DefaultDescriptionMaxLength = 3000
	DefaultMaxDuration          = 999 * time.Hour
)

// Limits bounds what the service accepts for a time entry.
type Limits struct {
	DescriptionMaxLength int
	MaxDuration          time.Duration
}

// DefaultLimits returns the limits enforced by the remote service.
func DefaultLimits() Limits {
	return Limits{
		DescriptionMaxLength: DefaultDescriptionMaxLength,
		MaxDuration:          DefaultMaxDuration,
	}
}

// Validator provides common validation utilities
type Validator struct {
	limits Limits
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return NewValidatorWithLimits(DefaultLimits())
}

// NewValidatorWithLimits creates a validator; zero fields fall back to defaults.
func NewValidatorWithLimits(limits Limits) *Validator {
	if limits.DescriptionMaxLength <= 0 {
		limits.DescriptionMaxLength = DefaultDescriptionMaxLength
	}
	if limits.MaxDuration <= 0 {
		limits.MaxDuration = DefaultMaxDuration
	}
	return &Validator{limits: limits}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidDescriptionLength counts characters, not bytes. Empty descriptions are allowed.
func (v *Validator) IsValidDescriptionLength(description string) bool {
	return utf8.RuneCountInString(description) <= v.limits.DescriptionMaxLength
}

// IsValidTimeRange checks that stop is not before start. A nil stop is a running entry.
func (v *Validator) IsValidTimeRange(start time.Time, stop *time.Time) bool {
	if stop == nil {
		return true
	}
	return !stop.Before(start)
}

// IsValidDuration checks if a duration is within the configured bounds
func (v *Validator) IsValidDuration(d time.Duration) bool {
	return d >= 0 && d <= v.limits.MaxDuration
}

// IsValidEntryID checks if an id was assigned by the service
func (v *Validator) IsValidEntryID(id int64) bool {
	return id > 0
}

// IsReasonableDate accepts instants from ten years before now to one year after.
func (v *Validator) IsReasonableDate(t, now time.Time) bool {
	return t.After(now.AddDate(-10, 0, 0)) && t.Before(now.AddDate(1, 0, 0))
}

// IsValidDateRange checks if a date range is logical
func (v *Validator) IsValidDateRange(start, end *time.Time) bool {
	if start == nil || end == nil {
		return true
	}
	return !end.Before(*start)
}
