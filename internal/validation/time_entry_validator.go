package validation

import (
	"time"

	"indicator-toggl/internal/datetime"
	"indicator-toggl/internal/domain"
)

// TimeEntryValidator checks entries before they are sent to the service
type TimeEntryValidator struct {
	validator *Validator
}

// NewTimeEntryValidator creates a new time entry validator
func NewTimeEntryValidator() *TimeEntryValidator {
	return &TimeEntryValidator{validator: NewValidator()}
}

// NewTimeEntryValidatorWithLimits creates a time entry validator with custom limits
func NewTimeEntryValidatorWithLimits(limits Limits) *TimeEntryValidator {
	return &TimeEntryValidator{validator: NewValidatorWithLimits(limits)}
}

func (tev *TimeEntryValidator) checkCommon(ve *ValidationError, entry domain.TimeEntry, now time.Time) {
	if !tev.validator.IsValidDescriptionLength(entry.Description) {
		ve.AddInvalidLengthError("description", entry.Description, tev.validator.limits.DescriptionMaxLength)
	}
	if entry.Start.IsZero() {
		ve.AddRequiredError("start")
	} else if !tev.validator.IsReasonableDate(entry.Start, now) {
		ve.AddInvalidValueError("start", entry.Start, "must be within ten years back and one year ahead")
	}
}

// ValidateForStart validates a running entry about to be created.
func (tev *TimeEntryValidator) ValidateForStart(entry domain.TimeEntry, now time.Time) error {
	ve := NewValidationError()
	tev.checkCommon(ve, entry, now)
	if entry.Stop != nil {
		ve.AddInvalidValueError("stop", *entry.Stop, "a started entry cannot already be stopped")
	}
	return ve.OrNil()
}

// ValidateForAdd validates a completed entry submitted after the fact.
func (tev *TimeEntryValidator) ValidateForAdd(entry domain.TimeEntry, now time.Time) error {
	ve := NewValidationError()
	tev.checkCommon(ve, entry, now)
	if entry.Stop == nil {
		ve.AddRequiredError("stop")
		return ve.OrNil()
	}
	tev.checkRange(ve, entry.Start, *entry.Stop)
	return ve.OrNil()
}

// ValidateStop checks the instant a running entry is stopped at.
func (tev *TimeEntryValidator) ValidateStop(entry domain.TimeEntry, at time.Time) error {
	ve := NewValidationError()
	tev.checkRange(ve, entry.Start, at)
	return ve.OrNil()
}

func (tev *TimeEntryValidator) checkRange(ve *ValidationError, start, stop time.Time) {
	if !tev.validator.IsValidTimeRange(start, &stop) {
		ve.AddInvalidRangeError("stop", map[string]time.Time{
			"start": start,
			"stop":  stop,
		}, "stop "+datetime.FormatTime(stop)+" is before start "+datetime.FormatTime(start))
		return
	}
	if !tev.validator.IsValidDuration(stop.Sub(start)) {
		ve.AddInvalidValueError("duration", stop.Sub(start), "must not exceed "+datetime.FormatDuration(int64(tev.validator.limits.MaxDuration/time.Second)))
	}
}

// ValidateSearchOptions validates the date window of a listing request
func (tev *TimeEntryValidator) ValidateSearchOptions(opts domain.SearchOptions) error {
	ve := NewValidationError()
	if !tev.validator.IsValidDateRange(opts.StartDate, opts.EndDate) {
		ve.AddInvalidRangeError("date_range", map[string]interface{}{
			"start": opts.StartDate,
			"end":   opts.EndDate,
		}, "end date must not be before start date")
	}
	return ve.OrNil()
}

// ValidateTimeEntryID validates a time entry ID
func (tev *TimeEntryValidator) ValidateTimeEntryID(id int64) error {
	if !tev.validator.IsValidEntryID(id) {
		ve := NewValidationError()
		ve.AddInvalidValueError("id", id, "must be a positive integer")
		return ve
	}
	return nil
}
