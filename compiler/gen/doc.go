// Package gen generates static field accessors for mapped entities.
//
// The accessor file of an entity implements schema.FieldAccessor with a
// switch over its column names, so the descriptor reads and writes fields
// without reflection:
//
//	g, err := gen.New(gen.Config{Dir: "internal/domain"}, domain.Account{})
//	if err != nil {
//		return err
//	}
//	err = g.Generate(ctx)
//
// Files are rendered with jennifer, formatted with goimports and written
// atomically next to the entity source as <entity>_persist.go.
package gen
