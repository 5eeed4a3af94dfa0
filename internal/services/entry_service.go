package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"indicator-toggl/internal/domain"
	"indicator-toggl/internal/errors"
	"indicator-toggl/internal/validation"
)

// entryServiceImpl implements the EntryService interface
type entryServiceImpl struct {
	remote    TimeEntryRemote
	projects  ProjectLookup
	workspace WorkspaceFunc
	validator *validation.TimeEntryValidator
	now       func() time.Time
	log       *slog.Logger
}

// EntryServiceOption configures an EntryService.
type EntryServiceOption func(*entryServiceImpl)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) EntryServiceOption {
	return func(s *entryServiceImpl) { s.now = now }
}

// WithValidator replaces the default validation limits.
func WithValidator(v *validation.TimeEntryValidator) EntryServiceOption {
	return func(s *entryServiceImpl) { s.validator = v }
}

// NewEntryService creates a new EntryService instance
func NewEntryService(remote TimeEntryRemote, projects ProjectLookup, workspace WorkspaceFunc, log *slog.Logger, opts ...EntryServiceOption) EntryService {
	s := &entryServiceImpl{
		remote:    remote,
		projects:  projects,
		workspace: workspace,
		validator: validation.NewTimeEntryValidator(),
		now:       time.Now,
		log:       log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewEntry builds an unsaved entry from parsed arguments
func (s *entryServiceImpl) NewEntry(ctx context.Context, params EntryParams) (domain.TimeEntry, error) {
	if params.Stop != nil && params.Duration != nil {
		return domain.TimeEntry{}, errors.NewValidationError("give either an end time or a duration, not both", nil)
	}

	start := s.now()
	if params.Start != nil {
		start = *params.Start
	}
	entry := domain.NewTimeEntry(strings.TrimSpace(params.Description), start)
	if len(params.Tags) > 0 {
		entry.Tags = append([]string(nil), params.Tags...)
	}

	if params.Project != "" {
		project, ok, err := s.projects.FindByName(ctx, params.Project)
		if err != nil {
			return domain.TimeEntry{}, err
		}
		if !ok {
			return domain.TimeEntry{}, errors.NewUnknownProjectError(params.Project)
		}
		pid := project.ID
		entry.ProjectID = &pid
		entry.WorkspaceID = project.WorkspaceID
	}

	switch {
	case params.Stop != nil:
		entry = entry.WithStop(*params.Stop)
	case params.Duration != nil:
		if *params.Duration < 0 {
			return domain.TimeEntry{}, errors.NewValidationError("duration cannot be negative", nil)
		}
		entry = entry.WithDuration(*params.Duration)
	}

	return entry, nil
}

// PrepareStart returns the entry as it would be created by Start, with its
// start and workspace filled in. Nothing is sent to the time entry endpoints.
func (s *entryServiceImpl) PrepareStart(ctx context.Context, entry domain.TimeEntry) (domain.TimeEntry, error) {
	if entry.IsSaved() {
		return domain.TimeEntry{}, errors.NewValidationError("entry has already been saved", nil).WithContext("id", entry.ID)
	}
	if entry.Start.IsZero() {
		entry.Start = s.now()
	}
	if err := s.validator.ValidateForStart(entry, s.now()); err != nil {
		return domain.TimeEntry{}, validation.ToAppError(err)
	}
	if err := s.ensureWorkspace(ctx, &entry); err != nil {
		return domain.TimeEntry{}, err
	}
	entry.Duration = domain.RunningDuration
	return entry, nil
}

// Start creates a running entry remotely
func (s *entryServiceImpl) Start(ctx context.Context, entry *domain.TimeEntry) error {
	candidate, err := s.PrepareStart(ctx, *entry)
	if err != nil {
		return err
	}
	entry.Start = candidate.Start

	created, err := s.remote.CreateTimeEntry(ctx, candidate)
	if err != nil {
		return err
	}
	*entry = created
	s.log.Info("started time entry", "id", created.ID, "description", created.Description)
	return nil
}

// Stop ends the running entry. The entry is left untouched when the update fails.
func (s *entryServiceImpl) Stop(ctx context.Context, entry *domain.TimeEntry, at time.Time) error {
	if !entry.IsRunning() {
		return errors.NewValidationError("entry is not running", nil).WithContext("id", entry.ID)
	}
	if !entry.IsSaved() {
		return errors.NewValidationError("entry has not been started", nil)
	}
	if err := s.validator.ValidateStop(*entry, at); err != nil {
		return validation.ToAppError(err)
	}

	updated, err := s.remote.UpdateTimeEntry(ctx, entry.WithStop(at))
	if err != nil {
		return err
	}
	*entry = updated
	s.log.Info("stopped time entry", "id", updated.ID, "duration", updated.Duration)
	return nil
}

// Continue starts a new entry with the description, project and tags of an existing one
func (s *entryServiceImpl) Continue(ctx context.Context, entry domain.TimeEntry) (domain.TimeEntry, error) {
	next := entry.Continued(s.now())
	if err := s.Start(ctx, &next); err != nil {
		return domain.TimeEntry{}, err
	}
	return next, nil
}

// Add submits a completed entry
func (s *entryServiceImpl) Add(ctx context.Context, entry *domain.TimeEntry) error {
	if entry.IsSaved() {
		return errors.NewValidationError("entry has already been saved", nil).WithContext("id", entry.ID)
	}
	if err := s.validator.ValidateForAdd(*entry, s.now()); err != nil {
		return validation.ToAppError(err)
	}

	candidate := *entry
	if err := s.ensureWorkspace(ctx, &candidate); err != nil {
		return err
	}

	created, err := s.remote.CreateTimeEntry(ctx, candidate)
	if err != nil {
		return err
	}
	*entry = created
	s.log.Info("added time entry", "id", created.ID, "duration", created.Duration)
	return nil
}

// Delete removes a saved entry. Unknown ids come back from the service as not-found errors.
func (s *entryServiceImpl) Delete(ctx context.Context, entry domain.TimeEntry) error {
	if err := s.validator.ValidateTimeEntryID(entry.ID); err != nil {
		return validation.ToAppError(err)
	}
	if err := s.ensureWorkspace(ctx, &entry); err != nil {
		return err
	}
	if err := s.remote.DeleteTimeEntry(ctx, entry.WorkspaceID, entry.ID); err != nil {
		return err
	}
	s.log.Info("deleted time entry", "id", entry.ID)
	return nil
}

func (s *entryServiceImpl) ensureWorkspace(ctx context.Context, entry *domain.TimeEntry) error {
	if entry.WorkspaceID != 0 {
		return nil
	}
	wid, err := s.workspace(ctx)
	if err != nil {
		return err
	}
	entry.WorkspaceID = wid
	return nil
}
