package domain

import (
	"indicator-toggl/internal/datetime"
)

// TimeEntryWire is the JSON shape of a time entry in the v9 API.
type TimeEntryWire struct {
	ID          int64    `json:"id,omitempty"`
	WorkspaceID int64    `json:"workspace_id"`
	ProjectID   *int64   `json:"project_id,omitempty"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
	Start       string   `json:"start"`
	Stop        *string  `json:"stop,omitempty"`
	Duration    int64    `json:"duration"`
	CreatedWith string   `json:"created_with,omitempty"`
}

// ProjectWire is the JSON shape of a project.
type ProjectWire struct {
	ID          int64  `json:"id"`
	WorkspaceID int64  `json:"workspace_id"`
	ClientID    *int64 `json:"client_id"`
	Name        string `json:"name"`
	Active      bool   `json:"active"`
}

// ClientWire is the JSON shape of a client. The API still calls the workspace "wid" here.
type ClientWire struct {
	ID          int64  `json:"id"`
	WorkspaceID int64  `json:"wid"`
	Name        string `json:"name"`
}

// UserWire covers both /me and workspace user listings.
type UserWire struct {
	ID                 int64  `json:"id"`
	FullName           string `json:"fullname"`
	Name               string `json:"name,omitempty"`
	Email              string `json:"email"`
	DefaultWorkspaceID int64  `json:"default_workspace_id,omitempty"`
	Timezone           string `json:"timezone,omitempty"`
}

// TimeEntryMapper converts time entries to and from their wire form.
type TimeEntryMapper struct{}

// NewTimeEntryMapper creates a new TimeEntryMapper instance.
func NewTimeEntryMapper() *TimeEntryMapper {
	return &TimeEntryMapper{}
}

// ToWire converts a domain TimeEntry for sending. Running entries carry a
// negative duration and no stop.
func (m *TimeEntryMapper) ToWire(entry TimeEntry) TimeEntryWire {
	w := TimeEntryWire{
		ID:          entry.ID,
		WorkspaceID: entry.WorkspaceID,
		ProjectID:   entry.ProjectID,
		Description: entry.Description,
		Tags:        entry.Tags,
		Start:       datetime.FormatISO(entry.Start),
		Duration:    entry.Duration,
		CreatedWith: entry.CreatedWith,
	}
	if entry.Stop != nil {
		stop := datetime.FormatISO(*entry.Stop)
		w.Stop = &stop
	} else if w.Duration >= 0 {
		w.Duration = RunningDuration
	}
	return w
}

// FromWire converts a received entry. Timestamps that do not parse are reported as ParseError.
func (m *TimeEntryMapper) FromWire(w TimeEntryWire) (TimeEntry, error) {
	start, err := datetime.ParseISO(w.Start)
	if err != nil {
		return TimeEntry{}, err
	}
	entry := TimeEntry{
		ID:          w.ID,
		WorkspaceID: w.WorkspaceID,
		ProjectID:   w.ProjectID,
		Description: w.Description,
		Tags:        w.Tags,
		Start:       start,
		Duration:    w.Duration,
		CreatedWith: w.CreatedWith,
	}
	if w.Stop != nil && *w.Stop != "" {
		stop, err := datetime.ParseISO(*w.Stop)
		if err != nil {
			return TimeEntry{}, err
		}
		entry.Stop = &stop
	}
	return entry, nil
}

// FromWireSlice converts a list of received entries, stopping at the first bad one.
func (m *TimeEntryMapper) FromWireSlice(ws []TimeEntryWire) ([]TimeEntry, error) {
	entries := make([]TimeEntry, 0, len(ws))
	for _, w := range ws {
		entry, err := m.FromWire(w)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ReferenceMapper converts projects, clients and users.
type ReferenceMapper struct{}

// NewReferenceMapper creates a new ReferenceMapper instance.
func NewReferenceMapper() *ReferenceMapper {
	return &ReferenceMapper{}
}

func (m *ReferenceMapper) ProjectFromWire(w ProjectWire) Project {
	return Project{
		ID:          w.ID,
		WorkspaceID: w.WorkspaceID,
		ClientID:    w.ClientID,
		Name:        w.Name,
		Active:      w.Active,
	}
}

func (m *ReferenceMapper) ProjectsFromWire(ws []ProjectWire) []Project {
	projects := make([]Project, len(ws))
	for i, w := range ws {
		projects[i] = m.ProjectFromWire(w)
	}
	return projects
}

func (m *ReferenceMapper) ClientFromWire(w ClientWire) Client {
	return Client{ID: w.ID, WorkspaceID: w.WorkspaceID, Name: w.Name}
}

func (m *ReferenceMapper) ClientsFromWire(ws []ClientWire) []Client {
	clients := make([]Client, len(ws))
	for i, w := range ws {
		clients[i] = m.ClientFromWire(w)
	}
	return clients
}

// UserFromWire prefers the full name; workspace listings sometimes only send name.
func (m *ReferenceMapper) UserFromWire(w UserWire) User {
	name := w.FullName
	if name == "" {
		name = w.Name
	}
	return User{
		ID:                 w.ID,
		Name:               name,
		Email:              w.Email,
		DefaultWorkspaceID: w.DefaultWorkspaceID,
		Timezone:           w.Timezone,
	}
}

func (m *ReferenceMapper) UsersFromWire(ws []UserWire) []User {
	users := make([]User, len(ws))
	for i, w := range ws {
		users[i] = m.UserFromWire(w)
	}
	return users
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	TimeEntry *TimeEntryMapper
	Reference *ReferenceMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		TimeEntry: NewTimeEntryMapper(),
		Reference: NewReferenceMapper(),
	}
}
