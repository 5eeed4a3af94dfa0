package domain

// Named is implemented by the reference records that can be looked up by name.
type Named interface {
	GetID() int64
	GetName() string
}

// Project groups time entries inside a workspace.
type Project struct {
	ID          int64
	WorkspaceID int64
	ClientID    *int64
	Name        string
	Active      bool
}

func (p Project) GetID() int64    { return p.ID }
func (p Project) GetName() string { return p.Name }

// Client owns projects.
type Client struct {
	ID          int64
	WorkspaceID int64
	Name        string
}

func (c Client) GetID() int64    { return c.ID }
func (c Client) GetName() string { return c.Name }

// User is a member of a workspace. DefaultWorkspaceID is only filled for the
// authenticated user.
type User struct {
	ID                 int64
	Name               string
	Email              string
	DefaultWorkspaceID int64
	Timezone           string
}

func (u User) GetID() int64    { return u.ID }
func (u User) GetName() string { return u.Name }
