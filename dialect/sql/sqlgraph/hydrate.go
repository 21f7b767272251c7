// Package sqlgraph turns result sets into entity graphs.
package sqlgraph

import (
	"fmt"

	"github.com/syssam/persist/dialect/sql"
	"github.com/syssam/persist/schema"
)

// Hydrate materializes the rows of rs as entities of d, in arrival order.
//
// Without eager associations every row is one entity. With eager
// associations rows are grouped by parent identifier: the parent is built
// from the first row of its group and every row of the group contributes
// one child per eager association, unless that association already holds a
// child with the same identifier. Rows whose child identifier is NULL
// contribute no child.
func Hydrate(rs *sql.ResultSet, d *schema.Descriptor) ([]any, error) {
	if !d.HasEager() {
		entities := make([]any, 0, rs.Len())
		for _, row := range rs.Rows() {
			e, err := build(row, d)
			if err != nil {
				return nil, err
			}
			entities = append(entities, e)
		}
		return entities, nil
	}
	var (
		entities []any
		parents  = make(map[any]any)
		seen     = make(map[childKey]bool)
		eager    = d.EagerAssociations()
	)
	for i, row := range rs.Rows() {
		id, err := value(row, d, d.ID)
		if err != nil {
			return nil, err
		}
		if id == nil {
			return nil, fmt.Errorf("sqlgraph: row %d: %s.%s is NULL", i, d.Table, d.ID.Name)
		}
		key := identityKey(id)
		parent, ok := parents[key]
		if !ok {
			if parent, err = build(row, d); err != nil {
				return nil, err
			}
			parents[key] = parent
			entities = append(entities, parent)
		}
		for j, a := range eager {
			childID, err := value(row, a.Target, a.Target.ID)
			if err != nil {
				return nil, err
			}
			if childID == nil {
				continue
			}
			ck := childKey{parent: key, assoc: j, child: identityKey(childID)}
			if seen[ck] {
				continue
			}
			seen[ck] = true
			child, err := build(row, a.Target)
			if err != nil {
				return nil, err
			}
			if err := a.Append(parent, child); err != nil {
				return nil, err
			}
		}
	}
	return entities, nil
}

// childKey identifies a child within one association of one parent.
type childKey struct {
	parent, child any
	assoc         int
}

// HydrateOne returns the first entity of rs, or nil if rs has no rows.
func HydrateOne(rs *sql.ResultSet, d *schema.Descriptor) (any, error) {
	if rs.Len() == 0 {
		return nil, nil
	}
	entities, err := Hydrate(rs, d)
	if err != nil {
		return nil, err
	}
	return entities[0], nil
}

// build creates an entity of d from the columns of row.
func build(row sql.Row, d *schema.Descriptor) (any, error) {
	e := d.New()
	for _, c := range d.Columns {
		v, err := value(row, d, c)
		if err != nil {
			return nil, err
		}
		if err := c.Set(e, v); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// value looks up a column by its table qualified label first, then by its
// bare name.
func value(row sql.Row, d *schema.Descriptor, c *schema.Column) (any, error) {
	if v, ok := row.Get(d.Table + "." + c.Name); ok {
		return v, nil
	}
	if v, ok := row.Get(c.Name); ok {
		return v, nil
	}
	return nil, fmt.Errorf("sqlgraph: column %s.%s not in result", d.Table, c.Name)
}

// identityKey returns a comparable map key for an identifier value.
func identityKey(id any) any {
	if b, ok := id.([]byte); ok {
		return string(b)
	}
	return id
}

// HydrateRow builds an entity of d from the columns of the first row of rs,
// leaving associations empty. It returns nil if rs has no rows.
func HydrateRow(rs *sql.ResultSet, d *schema.Descriptor) (any, error) {
	if rs.Len() == 0 {
		return nil, nil
	}
	return build(rs.Row(0), d)
}
