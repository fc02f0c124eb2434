package sqlutil

import (
	"database/sql"
	"time"
)

// Helper functions for converting between Go types and sql.Null* types

// ToSqlTime converts a Go time to sql.NullTime, mapping the zero value to NULL
func ToSqlTime(val time.Time) sql.NullTime {
	if val.IsZero() {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: val, Valid: true}
}

// FromSqlTime converts sql.NullTime to a Go time, mapping NULL to the zero value
func FromSqlTime(val sql.NullTime) time.Time {
	if !val.Valid {
		return time.Time{}
	}
	return val.Time
}
