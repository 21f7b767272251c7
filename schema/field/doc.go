// Package field describes the semantic value types of mapped columns.
//
// A field type is dialect independent. It is derived from the Go type of a
// struct field when the entity descriptor is built, and later translated to a
// DDL fragment by a [dialect.Dialect]:
//
//	string      -> field.TypeString  -> VARCHAR
//	int, int32  -> field.TypeInt     -> INT
//	int64       -> field.TypeInt64   -> BIGINT
//	time.Time   -> field.TypeTime    -> TIMESTAMP
//	uuid.UUID   -> field.TypeUUID    -> UUID
//
// Pointer types map to the type of their element; a nil pointer is the SQL
// NULL of that column.
package field
