package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Violation classifies integrity errors independent of the driver.
type Violation string

const (
	ViolationUnique     Violation = "unique"
	ViolationForeignKey Violation = "foreign_key"
	ViolationCheck      Violation = "check"
	ViolationNotNull    Violation = "not_null"
)

var pgViolations = map[string]Violation{
	"23505": ViolationUnique,
	"23503": ViolationForeignKey,
	"23514": ViolationCheck,
	"23502": ViolationNotNull,
}

// sqlite reports constraint failures only through the message text.
var sqliteViolations = []struct {
	prefix    string
	violation Violation
}{
	{"UNIQUE constraint failed: ", ViolationUnique},
	{"FOREIGN KEY constraint failed", ViolationForeignKey},
	{"CHECK constraint failed: ", ViolationCheck},
	{"NOT NULL constraint failed: ", ViolationNotNull},
}

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	Violation Violation `json:"violation,omitempty"`

	PGCode       string `json:"pg_code,omitempty"`
	PGConstraint string `json:"pg_constraint,omitempty"`
	PGTable      string `json:"pg_table,omitempty"`
	PGColumn     string `json:"pg_column,omitempty"`
	PGDetail     string `json:"pg_detail,omitempty"`
	PGMessage    string `json:"pg_message,omitempty"`

	// SQLiteTarget is the "table.column" list sqlite names in constraint errors.
	SQLiteTarget string `json:"sqlite_target,omitempty"`
}

// Dump flattens an error chain for structured logs, pulling out database
// driver details when present.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		d.PGCode = pgxErr.Code
		d.PGConstraint = pgxErr.ConstraintName
		d.PGTable = pgxErr.TableName
		d.PGColumn = pgxErr.ColumnName
		d.PGDetail = pgxErr.Detail
		d.PGMessage = pgxErr.Message
		d.Violation = pgViolations[d.PGCode]
		return d
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		d.PGCode = string(pqErr.Code)
		d.PGConstraint = pqErr.Constraint
		d.PGTable = pqErr.Table
		d.PGColumn = pqErr.Column
		d.PGDetail = pqErr.Detail
		d.PGMessage = pqErr.Message
		d.Violation = pgViolations[d.PGCode]
		return d
	}

	msg := d.TopMessage
	for _, candidate := range sqliteViolations {
		if idx := strings.Index(msg, candidate.prefix); idx >= 0 {
			d.Violation = candidate.violation
			d.SQLiteTarget = strings.TrimSpace(msg[idx+len(candidate.prefix):])
			break
		}
	}
	return d
}
