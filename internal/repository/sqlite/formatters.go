package sqlite

import (
	"database/sql"
	"time"
)

// FormatTimeForDB formats a time.Time value as an RFC3339 string in UTC
func FormatTimeForDB(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTimeFromDB parses an RFC3339 formatted time string from the database
func ParseTimeFromDB(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// FormatInt64PtrForDB maps an optional id to a nullable column value
func FormatInt64PtrForDB(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// ParseNullInt64 maps a nullable column back to an optional id
func ParseNullInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}
