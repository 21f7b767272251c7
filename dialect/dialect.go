package dialect

import (
	"fmt"
	"strings"

	"github.com/syssam/persist/schema/field"
)

// Dialect names.
const (
	H2       = "h2"
	MySQL    = "mysql"
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// Dialect is the DDL type table of a database.
type Dialect interface {
	// Name returns the dialect name.
	Name() string
	// ColumnType returns the DDL type of a column. A positive size is
	// applied to sized types (VARCHAR(size)).
	ColumnType(t field.Type, size int) string
	// PrimaryKey returns the option fragment of an identifier column of the
	// given type. Integer identifiers are database assigned.
	PrimaryKey(t field.Type) string
	// NotNull returns the NOT NULL option fragment.
	NotNull() string
	// Unique returns the UNIQUE option fragment.
	Unique() string
}

// typeTable is a table driven Dialect.
type typeTable struct {
	name     string
	types    map[field.Type]string
	sized    map[field.Type]string // format with a single %d verb
	identity string
}

func (d *typeTable) Name() string { return d.name }

func (d *typeTable) ColumnType(t field.Type, size int) string {
	if f, ok := d.sized[t]; ok && size > 0 {
		return fmt.Sprintf(f, size)
	}
	if s, ok := d.types[t]; ok {
		return s
	}
	return "BLOB"
}

func (d *typeTable) PrimaryKey(t field.Type) string {
	if t.Integer() {
		return d.identity
	}
	return "PRIMARY KEY"
}

func (*typeTable) NotNull() string { return "NOT NULL" }

func (*typeTable) Unique() string { return "UNIQUE" }

func ints(types map[field.Type]string, small, big string) map[field.Type]string {
	for _, t := range []field.Type{field.TypeInt8, field.TypeInt16, field.TypeInt32, field.TypeInt, field.TypeUint8, field.TypeUint16} {
		types[t] = small
	}
	for _, t := range []field.Type{field.TypeInt64, field.TypeUint32, field.TypeUint, field.TypeUint64} {
		types[t] = big
	}
	return types
}

var (
	h2 = &typeTable{
		name: H2,
		types: ints(map[field.Type]string{
			field.TypeString:  "VARCHAR",
			field.TypeBool:    "BOOLEAN",
			field.TypeFloat32: "REAL",
			field.TypeFloat64: "DOUBLE",
			field.TypeTime:    "TIMESTAMP",
			field.TypeUUID:    "UUID",
			field.TypeBytes:   "VARBINARY",
		}, "INT", "BIGINT"),
		sized: map[field.Type]string{
			field.TypeString: "VARCHAR(%d)",
			field.TypeBytes:  "VARBINARY(%d)",
		},
		identity: "AUTO_INCREMENT PRIMARY KEY",
	}
	mysql = &typeTable{
		name: MySQL,
		types: ints(map[field.Type]string{
			field.TypeString:  "VARCHAR(255)",
			field.TypeBool:    "BOOLEAN",
			field.TypeFloat32: "FLOAT",
			field.TypeFloat64: "DOUBLE",
			field.TypeTime:    "TIMESTAMP(6)",
			field.TypeUUID:    "CHAR(36)",
			field.TypeBytes:   "BLOB",
		}, "INT", "BIGINT"),
		sized: map[field.Type]string{
			field.TypeString: "VARCHAR(%d)",
			field.TypeBytes:  "VARBINARY(%d)",
		},
		identity: "AUTO_INCREMENT PRIMARY KEY",
	}
	postgres = &typeTable{
		name: Postgres,
		types: ints(map[field.Type]string{
			field.TypeString:  "VARCHAR",
			field.TypeBool:    "BOOLEAN",
			field.TypeFloat32: "REAL",
			field.TypeFloat64: "DOUBLE PRECISION",
			field.TypeTime:    "TIMESTAMP WITH TIME ZONE",
			field.TypeUUID:    "UUID",
			field.TypeBytes:   "BYTEA",
		}, "INTEGER", "BIGINT"),
		sized: map[field.Type]string{
			field.TypeString: "VARCHAR(%d)",
		},
		identity: "GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY",
	}
	// SQLite only accepts AUTOINCREMENT on an INTEGER PRIMARY KEY, so every
	// integer width maps to INTEGER.
	sqlite = &typeTable{
		name: SQLite,
		types: ints(map[field.Type]string{
			field.TypeString:  "VARCHAR",
			field.TypeBool:    "BOOLEAN",
			field.TypeFloat32: "REAL",
			field.TypeFloat64: "REAL",
			field.TypeTime:    "DATETIME",
			field.TypeUUID:    "TEXT",
			field.TypeBytes:   "BLOB",
		}, "INTEGER", "INTEGER"),
		sized: map[field.Type]string{
			field.TypeString: "VARCHAR(%d)",
		},
		identity: "PRIMARY KEY AUTOINCREMENT",
	}
)

var dialects = map[string]Dialect{
	H2:       h2,
	MySQL:    mysql,
	Postgres: postgres,
	SQLite:   sqlite,
}

// For returns the dialect registered under name. Driver names that carry a
// known dialect as prefix (sqlite3, postgresql) and the pgx driver resolve
// to it.
func For(name string) (Dialect, error) {
	if d, ok := dialects[name]; ok {
		return d, nil
	}
	for _, n := range []string{MySQL, SQLite, Postgres} {
		if strings.HasPrefix(name, n) {
			return dialects[n], nil
		}
	}
	if name == "pgx" {
		return postgres, nil
	}
	return nil, fmt.Errorf("dialect: unknown dialect %q", name)
}

// H2Dialect returns the H2 dialect.
func H2Dialect() Dialect { return h2 }

// MySQLDialect returns the MySQL dialect.
func MySQLDialect() Dialect { return mysql }

// PostgresDialect returns the PostgreSQL dialect.
func PostgresDialect() Dialect { return postgres }

// SQLiteDialect returns the SQLite dialect.
func SQLiteDialect() Dialect { return sqlite }
