package sqlite

// Kind names one reference list stored in the snapshots table.
type Kind string

const (
	KindProjects Kind = "projects"
	KindClients  Kind = "clients"
	KindUsers    Kind = "users"
)
