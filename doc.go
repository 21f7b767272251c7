// Package persist maps annotated Go structs to relational tables and tracks
// the entities it loads or stores.
//
// An entity embeds schema.Entity and names its table and identifier with
// persist struct tags:
//
//	type Person struct {
//		schema.Entity `persist:"table=users"`
//
//		ID       *int64 `persist:"id"`
//		NickName *string
//		Email    string `persist:"notnull"`
//	}
//
// An EntityManager runs the generated statements through an Executor and
// keeps every entity it touches in its PersistenceContext together with a
// snapshot of the column values last seen in the database. Merge writes only
// the columns that changed since that snapshot.
//
//	drv, err := sql.Open("sqlite", "file:app.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	em := persist.New(drv)
//	p := &Person{Email: "a@b.c"}
//	if err := em.Persist(ctx, p); err != nil {
//	    log.Fatal(err)
//	}
//	p.NickName = &name
//	err = em.Merge(ctx, p) // UPDATE users SET nick_name = ... WHERE users.id = 1;
//
//	found, err := persist.Find[Person](ctx, em, *p.ID)
//
// An EntityManager and its PersistenceContext belong to a single session and
// are not safe for concurrent use. Entity descriptors are shared and are safe
// for concurrent use.
package persist
