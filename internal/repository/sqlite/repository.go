package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"indicator-toggl/internal/domain"
	apperrors "indicator-toggl/internal/errors"
	"indicator-toggl/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// Store keeps the last fetched reference lists so that short-lived
// invocations can skip the network.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// New opens (creating if needed) the database at dbPath and migrates it.
func New(ctx context.Context, dbPath string, logger *slog.Logger) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, apperrors.NewDatabaseError("create cache directory", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, apperrors.NewDatabaseError("open database", err)
	}
	// every connection to :memory: is its own database
	db.SetMaxOpenConns(1)

	if err := migrations.RunMigrations(ctx, db, logger); err != nil {
		db.Close()
		return nil, apperrors.NewDatabaseError("run migrations", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// FetchedAt returns when the list of the given kind was stored, or ErrNoSnapshot.
func (s *Store) FetchedAt(ctx context.Context, kind Kind) (time.Time, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT fetched_at FROM snapshots WHERE kind = ?`, string(kind)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrNoSnapshot
	}
	if err != nil {
		return time.Time{}, HandleDatabaseError("read snapshot time", err)
	}
	at, err := ParseTimeFromDB(raw)
	if err != nil {
		return time.Time{}, HandleDatabaseError("parse snapshot time", err)
	}
	return at, nil
}

// ClearAll drops every stored list.
func (s *Store) ClearAll(ctx context.Context) error {
	return WithTx(ctx, s.db, "clear snapshots", func(tx *sql.Tx) error {
		for _, kind := range []Kind{KindProjects, KindClients, KindUsers} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+string(kind)); err != nil {
				return err
			}
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM snapshots`)
		return err
	})
}

// Projects returns the snapshot of the projects list.
func (s *Store) Projects() *ListSnapshot[domain.Project] {
	return &ListSnapshot[domain.Project]{
		store: s,
		kind:  KindProjects,
		query: `SELECT id, workspace_id, client_id, name, active FROM projects ORDER BY name, id`,
		scan:  ScanProject,
		insert: func(ctx context.Context, tx *sql.Tx, p domain.Project) error {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO projects (id, workspace_id, client_id, name, active) VALUES (?, ?, ?, ?, ?)`,
				p.ID, p.WorkspaceID, FormatInt64PtrForDB(p.ClientID), p.Name, p.Active)
			return err
		},
	}
}

// Clients returns the snapshot of the clients list.
func (s *Store) Clients() *ListSnapshot[domain.Client] {
	return &ListSnapshot[domain.Client]{
		store: s,
		kind:  KindClients,
		query: `SELECT id, workspace_id, name FROM clients ORDER BY name, id`,
		scan:  ScanClient,
		insert: func(ctx context.Context, tx *sql.Tx, c domain.Client) error {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO clients (id, workspace_id, name) VALUES (?, ?, ?)`,
				c.ID, c.WorkspaceID, c.Name)
			return err
		},
	}
}

// Users returns the snapshot of the workspace users list.
func (s *Store) Users() *ListSnapshot[domain.User] {
	return &ListSnapshot[domain.User]{
		store: s,
		kind:  KindUsers,
		query: `SELECT id, name, email, default_workspace_id, timezone FROM users ORDER BY name, id`,
		scan:  ScanUser,
		insert: func(ctx context.Context, tx *sql.Tx, u domain.User) error {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO users (id, name, email, default_workspace_id, timezone) VALUES (?, ?, ?, ?, ?)`,
				u.ID, u.Name, u.Email, u.DefaultWorkspaceID, u.Timezone)
			return err
		},
	}
}

// ListSnapshot stores one reference list as a whole; saving replaces the previous rows.
type ListSnapshot[T any] struct {
	store  *Store
	kind   Kind
	query  string
	scan   func(Scanner) (T, error)
	insert func(ctx context.Context, tx *sql.Tx, item T) error
}

// Load returns the stored items and when they were fetched, or ErrNoSnapshot.
func (l *ListSnapshot[T]) Load(ctx context.Context) ([]T, time.Time, error) {
	at, err := l.store.FetchedAt(ctx, l.kind)
	if err != nil {
		return nil, time.Time{}, err
	}
	items, err := QueryMultiple(ctx, l.store.db, l.query, l.scan, string(l.kind))
	if err != nil {
		return nil, time.Time{}, err
	}
	return items, at, nil
}

// Save replaces the stored items.
func (l *ListSnapshot[T]) Save(ctx context.Context, items []T, fetchedAt time.Time) error {
	err := WithTx(ctx, l.store.db, "save "+string(l.kind), func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+string(l.kind)); err != nil {
			return err
		}
		for _, item := range items {
			if err := l.insert(ctx, tx, item); err != nil {
				return err
			}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO snapshots (kind, fetched_at) VALUES (?, ?)
			ON CONFLICT(kind) DO UPDATE SET fetched_at = excluded.fetched_at`,
			string(l.kind), FormatTimeForDB(fetchedAt))
		return err
	})
	if err == nil {
		l.store.logger.Debug("stored snapshot", "kind", l.kind, "count", len(items))
	}
	return err
}

// Clear forgets the stored items.
func (l *ListSnapshot[T]) Clear(ctx context.Context) error {
	return WithTx(ctx, l.store.db, "clear "+string(l.kind), func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+string(l.kind)); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE kind = ?`, string(l.kind))
		return err
	})
}
