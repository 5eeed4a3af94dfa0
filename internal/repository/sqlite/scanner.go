package sqlite

import (
	"database/sql"

	"indicator-toggl/internal/domain"
)

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanProject scans a single project row
func ScanProject(scanner Scanner) (domain.Project, error) {
	var p domain.Project
	var clientID sql.NullInt64
	if err := scanner.Scan(&p.ID, &p.WorkspaceID, &clientID, &p.Name, &p.Active); err != nil {
		return domain.Project{}, err
	}
	p.ClientID = ParseNullInt64(clientID)
	return p, nil
}

// ScanClient scans a single client row
func ScanClient(scanner Scanner) (domain.Client, error) {
	var c domain.Client
	err := scanner.Scan(&c.ID, &c.WorkspaceID, &c.Name)
	return c, err
}

// ScanUser scans a single user row
func ScanUser(scanner Scanner) (domain.User, error) {
	var u domain.User
	err := scanner.Scan(&u.ID, &u.Name, &u.Email, &u.DefaultWorkspaceID, &u.Timezone)
	return u, err
}

// ScanAll applies scan to every row. An empty result is a non-nil empty slice.
func ScanAll[T any](rows Rows, scan func(Scanner) (T, error)) ([]T, error) {
	items := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
