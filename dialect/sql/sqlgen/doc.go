// Package sqlgen renders the SQL statements of an entity descriptor.
//
// Statements are plain text with values embedded as literals; the package
// never executes anything. Every statement ends with a semicolon:
//
//	d := schema.MustDescribe(Person{})
//	sqlgen.CreateTable(d, dialect.H2Dialect())
//	// CREATE TABLE users (id BIGINT AUTO_INCREMENT PRIMARY KEY,nick_name VARCHAR,old INT,email VARCHAR NOT NULL);
//	q, _ := sqlgen.SelectByID(d, 1)
//	// SELECT users.id, users.nick_name, users.old, users.email FROM users WHERE users.id = 1;
//
// Selects of entities with eager associations join the association tables
// and report the table qualified label of every output column in
// Query.Columns.
package sqlgen
