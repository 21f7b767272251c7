// Package edge defines how associations between entities are fetched.
//
// Only one-to-many associations are supported. An association is declared on
// the parent struct as a slice of the child entity type:
//
//	type Order struct {
//		schema.Entity `persist:"table=orders"`
//		ID            *int64       `persist:"id"`
//		OrderItems    []*OrderItem `persist:"onetomany,fetch=eager,joincolumn=order_id"`
//	}
//
// Eager associations are loaded with a JOIN in the same statement as their
// parent. Lazy associations are never loaded.
package edge
