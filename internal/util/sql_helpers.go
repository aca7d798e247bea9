package util

import (
	"database/sql"
	"time"
)

// StringPtrToNullString converts an optional string to sql.NullString.
// nil is treated as NULL; an empty string is kept.
func StringPtrToNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// NullStringToPtr is the inverse of StringPtrToNullString.
func NullStringToPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// UnixNanoToTime converts a stored BIGINT timestamp back to UTC time.
func UnixNanoToTime(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
