// Package dialect translates semantic column types to database specific DDL
// fragments.
//
// The statement builder only consults a Dialect while rendering CREATE TABLE
// statements; every other statement is dialect independent.
//
// # Supported Dialects
//
//	dialect.H2       = "h2"
//	dialect.MySQL    = "mysql"
//	dialect.Postgres = "postgres"
//	dialect.SQLite   = "sqlite"
//
// # Usage
//
//	d, err := dialect.For(dialect.SQLite)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	d.ColumnType(field.TypeInt64, 0) // INTEGER
//	d.PrimaryKey(field.TypeInt64)    // PRIMARY KEY AUTOINCREMENT
package dialect
