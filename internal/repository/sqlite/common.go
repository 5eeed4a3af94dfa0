package sqlite

import (
	"context"
	"database/sql"
	"errors"

	apperrors "indicator-toggl/internal/errors"
)

// ErrNoSnapshot is returned when a reference list has never been stored.
var ErrNoSnapshot = errors.New("no snapshot stored")

// HandleDatabaseError converts database errors to structured app errors
func HandleDatabaseError(operation string, err error) error {
	return apperrors.NewDatabaseError(operation, err)
}

// QueryMultiple executes a query that returns multiple rows and scans them
func QueryMultiple[T any](ctx context.Context, q querier, query string, scan func(Scanner) (T, error), entityType string, args ...interface{}) ([]T, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, HandleDatabaseError("query "+entityType, err)
	}
	defer rows.Close()

	results, err := ScanAll(rows, scan)
	if err != nil {
		return nil, HandleDatabaseError("scan "+entityType, err)
	}
	return results, nil
}

// WithTx runs fn in a transaction, rolling back when it fails
func WithTx(ctx context.Context, db *sql.DB, operation string, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return HandleDatabaseError("begin "+operation, err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		if apperrors.IsAppError(err) {
			return err
		}
		return HandleDatabaseError(operation, err)
	}
	if err := tx.Commit(); err != nil {
		return HandleDatabaseError("commit "+operation, err)
	}
	return nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
