package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/syssam/persist/dialect"
)

// validIdentifierRe validates SQL identifiers (alphanumeric, underscores, dots for table.column).
var validIdentifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*$`)

// isValidIdentifier checks if the string is a valid SQL identifier.
func isValidIdentifier(s string) bool {
	return s != "" && len(s) <= 128 && validIdentifierRe.MatchString(s)
}

// Executor runs generated statements. It is implemented by Driver and by
// the StatsDriver and DebugDriver wrappers.
type Executor interface {
	// Exec runs a statement that returns no rows.
	Exec(ctx context.Context, query string) error
	// Insert runs an INSERT statement and returns the identifier the
	// database generated for idColumn.
	Insert(ctx context.Context, query, idColumn string) (int64, error)
	// Query runs a SELECT statement and returns all of its rows.
	Query(ctx context.Context, query string) (*ResultSet, error)
}

// ExecQuerier wraps the standard Exec and Query methods.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Driver is an Executor backed by database/sql.
type Driver struct {
	Conn
	db *sql.DB
}

// Open wraps the database/sql.Open method and returns a Driver.
func Open(driverName, source string) (*Driver, error) {
	db, err := sql.Open(driverName, source)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: open %s: %w", driverName, err)
	}
	return OpenDB(driverName, db), nil
}

// OpenDB wraps the given database/sql.DB with a Driver.
func OpenDB(driverName string, db *sql.DB) *Driver {
	return &Driver{Conn: Conn{ExecQuerier: db, driver: driverName}, db: db}
}

// DB returns the underlying *sql.DB instance.
func (d *Driver) DB() *sql.DB { return d.db }

// Close closes the underlying connection pool.
func (d *Driver) Close() error { return d.db.Close() }

// Ping verifies the database is reachable.
func (d *Driver) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return fmt.Errorf("dialect/sql: ping: %w", err)
	}
	return nil
}

// Conn implements Executor given an ExecQuerier.
type Conn struct {
	ExecQuerier
	driver string
}

// Dialect returns the dialect name of the underlying driver. Driver names
// that are not dialect names (sqlite3, pgx) resolve to their dialect.
func (c Conn) Dialect() string {
	if d, err := dialect.For(c.driver); err == nil {
		return d.Name()
	}
	return c.driver
}

// Exec implements the Executor.Exec method.
func (c Conn) Exec(ctx context.Context, query string) error {
	if _, err := c.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("dialect/sql: exec: %w", err)
	}
	return nil
}

// Insert implements the Executor.Insert method.
func (c Conn) Insert(ctx context.Context, query, idColumn string) (int64, error) {
	if !isValidIdentifier(idColumn) {
		return 0, fmt.Errorf("dialect/sql: insert: invalid identifier column %q", idColumn)
	}
	if c.Dialect() == dialect.Postgres {
		return c.insertReturning(ctx, query, idColumn)
	}
	res, err := c.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("dialect/sql: insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("dialect/sql: insert: last insert id: %w", err)
	}
	return id, nil
}

func (c Conn) insertReturning(ctx context.Context, query, idColumn string) (id int64, rerr error) {
	query = strings.TrimSuffix(strings.TrimSpace(query), ";") + " RETURNING " + idColumn + ";"
	rows, err := c.QueryContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("dialect/sql: insert: %w", err)
	}
	defer func() { rerr = errors.Join(rerr, rows.Close()) }()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, fmt.Errorf("dialect/sql: insert: %w", err)
		}
		return 0, fmt.Errorf("dialect/sql: insert: no %s returned", idColumn)
	}
	if err := rows.Scan(&id); err != nil {
		return 0, fmt.Errorf("dialect/sql: insert: scan %s: %w", idColumn, err)
	}
	return id, nil
}

// Query implements the Executor.Query method.
func (c Conn) Query(ctx context.Context, query string) (*ResultSet, error) {
	rows, err := c.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: query: %w", err)
	}
	rs, err := ScanResultSet(rows)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: query: %w", err)
	}
	return rs, nil
}

var _ Executor = (*Driver)(nil)

type (
	// NullInt64 is an alias to sql.NullInt64.
	NullInt64 = sql.NullInt64
	// NullString is an alias to sql.NullString.
	NullString = sql.NullString
)

// ColumnScanner is the interface that wraps the standard
// sql.Rows methods used for scanning database rows.
type ColumnScanner interface {
	Close() error
	Columns() ([]string, error)
	Err() error
	Next() bool
	Scan(dest ...any) error
}
