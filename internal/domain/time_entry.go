package domain

import (
	"time"
)

// RunningDuration is the duration the service expects for an entry that has no stop time yet.
const RunningDuration int64 = -1

// DefaultCreatedWith identifies this client to the service.
const DefaultCreatedWith = "indicator-toggl"

// TimeEntry is one work session. ID is zero until the service has accepted it.
// Duration is in seconds and negative while the entry is running.
type TimeEntry struct {
	ID          int64
	WorkspaceID int64
	ProjectID   *int64
	Description string
	Tags        []string
	Start       time.Time
	Stop        *time.Time
	Duration    int64
	CreatedWith string
}

// NewTimeEntry creates an unsaved, running entry.
func NewTimeEntry(description string, start time.Time) TimeEntry {
	return TimeEntry{
		Description: description,
		Start:       start,
		Duration:    RunningDuration,
		CreatedWith: DefaultCreatedWith,
	}
}

// IsRunning returns true if the entry has no stop time.
func (te TimeEntry) IsRunning() bool {
	return te.Stop == nil
}

// IsSaved reports whether the service has assigned an id.
func (te TimeEntry) IsSaved() bool {
	return te.ID != 0
}

// HasProject reports whether the entry is linked to a project.
func (te TimeEntry) HasProject() bool {
	return te.ProjectID != nil
}

// WithStop returns a copy stopped at the given instant with the duration recomputed.
func (te TimeEntry) WithStop(stop time.Time) TimeEntry {
	te.Stop = &stop
	te.Duration = int64(stop.Sub(te.Start) / time.Second)
	return te
}

// WithDuration returns a copy whose stop is start plus the given seconds.
func (te TimeEntry) WithDuration(seconds int64) TimeEntry {
	return te.WithStop(te.Start.Add(time.Duration(seconds) * time.Second))
}

// Elapsed returns the seconds worked so far. Running entries are measured up to now.
func (te TimeEntry) Elapsed(now time.Time) int64 {
	if te.IsRunning() {
		return int64(now.Sub(te.Start) / time.Second)
	}
	return te.Duration
}

// Continued returns a new unsaved running entry that carries over description,
// project, workspace and tags. The receiver is left untouched.
func (te TimeEntry) Continued(now time.Time) TimeEntry {
	next := NewTimeEntry(te.Description, now)
	next.WorkspaceID = te.WorkspaceID
	if te.ProjectID != nil {
		pid := *te.ProjectID
		next.ProjectID = &pid
	}
	if len(te.Tags) > 0 {
		next.Tags = append([]string(nil), te.Tags...)
	}
	return next
}
