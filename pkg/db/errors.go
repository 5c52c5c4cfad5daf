package db

import (
	"strings"

	pkgerrors "github.com/campusfound/lostfound-backend/pkg/errors"
)

// IsUniqueViolation reports whether err is a unique constraint violation on
// Postgres or SQLite. When constraintName is set the violation must also name
// that constraint (Postgres) or column list (SQLite).
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	dump := pkgerrors.Dump(err)
	if dump.Violation != pkgerrors.ViolationUnique && !strings.Contains(dump.TopMessage, "duplicate key value") {
		return false
	}
	if constraintName == "" {
		return true
	}
	return dump.PGConstraint == constraintName ||
		strings.Contains(dump.SQLiteTarget, constraintName) ||
		strings.Contains(dump.TopMessage, constraintName)
}
