// Package schema extracts entity metadata from annotated Go structs.
//
// A struct becomes an entity by embedding the [Entity] marker. Its fields are
// mapped to columns in declaration order; the mapping is tuned with the
// persist struct tag:
//
//	type Person struct {
//		schema.Entity `persist:"table=users"`
//
//		ID       *int64  `persist:"id"`
//		NickName *string // column nick_name
//		Old      *int
//		Email    string `persist:"notnull"`
//		Index    int    `persist:"-"` // transient
//	}
//
// Supported options:
//
//	id                   identifier column (exactly one per entity)
//	column=<name>        explicit column name
//	notnull              NOT NULL in DDL
//	unique               UNIQUE in DDL
//	size=<n>             column size for sized dialect types
//	onetomany            one-to-many association ([]T or []*T)
//	fetch=eager|lazy     association fetch strategy (default lazy)
//	joincolumn=<name>    foreign key column on the child table
//	table=<name>         table name, on the Entity marker only
//
// A field tagged `persist:"-"` is transient and not mapped.
//
// Without an explicit name, columns are named after the field converted to
// snake_case (NickName -> nick_name) and the table is named after the type.
//
// Descriptors are immutable and memoized per type by a [Registry]; the
// package level [Describe] uses a process wide registry.
package schema
