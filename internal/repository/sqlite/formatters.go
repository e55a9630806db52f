package sqlite

import (
	"database/sql"
	"time"
)

// FormatTimeForDB formats a time.Time value as RFC3339 string for consistent database storage
func FormatTimeForDB(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// FormatStringPtrForDB returns nil for a nil pointer so the column stores NULL
func FormatStringPtrForDB(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// ParseTimeFromDB parses an RFC3339 formatted time string from the database
func ParseTimeFromDB(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// NullStringPtr converts a nullable column into a pointer.
func NullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// BoolToInt stores booleans as 0/1.
func BoolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
