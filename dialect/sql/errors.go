package sql

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// IsConstraintError returns true if the error resulted from a database constraint violation.
func IsConstraintError(err error) bool {
	return IsUniqueConstraintError(err) ||
		IsForeignKeyConstraintError(err) ||
		IsCheckConstraintError(err) ||
		IsNotNullConstraintError(err)
}

// errorCoder is an interface for database errors that provide error codes.
// Implemented by driver errors that expose their SQLSTATE as Code.
type errorCoder interface {
	Code() string
}

// sqlStateError is an interface for errors that provide SQLSTATE codes.
// Implemented by: pgconn.PgError.
type sqlStateError interface {
	SQLState() string
}

// PostgreSQL SQLSTATE codes for constraint violations (Class 23).
const (
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// MySQL error numbers for constraint violations.
const (
	mysqlNotNull                = 1048
	mysqlDuplicateEntry         = 1062
	mysqlForeignKeyParent       = 1451 // Cannot delete or update a parent row
	mysqlForeignKeyChild        = 1452 // Cannot add or update a child row
	mysqlCheckConstraintViolate = 3819
)

// constraint describes how each driver reports one kind of violation.
type constraint struct {
	sqlState string
	numbers  []uint16
	messages []string
}

func (c constraint) match(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := asError[sqlStateError](err); ok && e.SQLState() == c.sqlState {
		return true
	}
	if e, ok := asError[errorCoder](err); ok && e.Code() == c.sqlState {
		return true
	}
	if e := (*mysql.MySQLError)(nil); errors.As(err, &e) {
		for _, n := range c.numbers {
			if e.Number == n {
				return true
			}
		}
	}
	// Fallback to string matching for drivers that don't implement interfaces.
	return containsAny(err.Error(), c.messages...)
}

var (
	uniqueConstraint = constraint{
		sqlState: pgUniqueViolation,
		numbers:  []uint16{mysqlDuplicateEntry},
		messages: []string{"Error 1062", "violates unique constraint", "UNIQUE constraint failed"},
	}
	foreignKeyConstraint = constraint{
		sqlState: pgForeignKeyViolation,
		numbers:  []uint16{mysqlForeignKeyParent, mysqlForeignKeyChild},
		messages: []string{"Error 1451", "Error 1452", "violates foreign key constraint", "FOREIGN KEY constraint failed"},
	}
	checkConstraint = constraint{
		sqlState: pgCheckViolation,
		numbers:  []uint16{mysqlCheckConstraintViolate},
		messages: []string{"Error 3819", "violates check constraint", "CHECK constraint failed"},
	}
	notNullConstraint = constraint{
		sqlState: pgNotNullViolation,
		numbers:  []uint16{mysqlNotNull},
		messages: []string{"Error 1048", "violates not-null constraint", "NOT NULL constraint failed"},
	}
)

// IsUniqueConstraintError reports if the error resulted from a DB uniqueness constraint violation.
func IsUniqueConstraintError(err error) bool { return uniqueConstraint.match(err) }

// IsForeignKeyConstraintError reports if the error resulted from a database foreign-key constraint violation.
func IsForeignKeyConstraintError(err error) bool { return foreignKeyConstraint.match(err) }

// IsCheckConstraintError reports if the error resulted from a database check constraint violation.
func IsCheckConstraintError(err error) bool { return checkConstraint.match(err) }

// IsNotNullConstraintError reports if the error resulted from writing NULL to a NOT NULL column.
func IsNotNullConstraintError(err error) bool { return notNullConstraint.match(err) }

// asError attempts to extract an error implementing interface T from the error chain.
func asError[T any](err error) (T, bool) {
	var target T
	for err != nil {
		if e, ok := err.(T); ok {
			return e, true
		}
		err = errors.Unwrap(err)
	}
	return target, false
}

// containsAny returns true if s contains any of the substrings.
func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
