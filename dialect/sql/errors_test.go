package sql_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/syssam/persist/dialect/sql"
)

func TestConstraintErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		unique     bool
		foreignKey bool
		check      bool
		notNull    bool
	}{
		{name: "nil"},
		{name: "plain", err: errors.New("connection refused")},
		{name: "pg unique", err: &pgconn.PgError{Code: "23505"}, unique: true},
		{name: "pg fk wrapped", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"}), foreignKey: true},
		{name: "pg not null", err: &pgconn.PgError{Code: "23502"}, notNull: true},
		{name: "mysql duplicate", err: &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, unique: true},
		{name: "mysql fk child", err: &mysql.MySQLError{Number: 1452}, foreignKey: true},
		{name: "mysql check", err: &mysql.MySQLError{Number: 3819}, check: true},
		{name: "sqlite unique", err: errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)"), unique: true},
		{name: "sqlite not null", err: errors.New("NOT NULL constraint failed: users.email"), notNull: true},
		{name: "sqlite check", err: errors.New("CHECK constraint failed: positive"), check: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unique, sql.IsUniqueConstraintError(tt.err))
			assert.Equal(t, tt.foreignKey, sql.IsForeignKeyConstraintError(tt.err))
			assert.Equal(t, tt.check, sql.IsCheckConstraintError(tt.err))
			assert.Equal(t, tt.notNull, sql.IsNotNullConstraintError(tt.err))
			assert.Equal(t, tt.unique || tt.foreignKey || tt.check || tt.notNull, sql.IsConstraintError(tt.err))
		})
	}
}
