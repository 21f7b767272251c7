package schema

import (
	"fmt"
	"reflect"

	"github.com/syssam/persist/schema/edge"
	"github.com/syssam/persist/schema/field"
)

// Entity is the marker embedded by every mapped struct. The table name can be
// set on the embedded field with the table option:
//
//	type Person struct {
//		schema.Entity `persist:"table=users"`
//		...
//	}
type Entity struct{}

var entityType = reflect.TypeOf(Entity{})

// Descriptor holds the immutable mapping metadata of an entity type.
// It is built once per type and is safe for concurrent use.
type Descriptor struct {
	// Type is the struct type of the entity.
	Type reflect.Type
	// Name is the Go name of the entity type.
	Name string
	// Table is the database table name.
	Table string
	// Columns lists the mapped columns in declaration order, the identifier included.
	Columns []*Column
	// ID is the identifier column.
	ID *Column
	// Associations lists the one-to-many associations in declaration order.
	Associations []*Association

	static  bool
	columns map[string]*Column
}

// Column describes a mapped struct field.
type Column struct {
	// Name is the column name.
	Name string
	// Field is the Go struct field name.
	Field string
	// Type is the semantic type of the column.
	Type field.Type
	// GoType is the declared Go type of the struct field.
	GoType reflect.Type
	// Primary reports if this is the identifier column.
	Primary bool
	// NotNull reports if the column is declared NOT NULL.
	NotNull bool
	// Unique reports if the column is declared UNIQUE.
	Unique bool
	// Size is the optional declared column size.
	Size int

	index []int
	desc  *Descriptor
}

// Association describes a one-to-many relation from a parent entity to a
// child entity.
type Association struct {
	// Field is the Go struct field holding the children.
	Field string
	// Target is the descriptor of the child entity.
	Target *Descriptor
	// Fetch is the fetch strategy.
	Fetch edge.Fetch
	// JoinColumn is the foreign key column on the child table.
	JoinColumn string

	index   []int
	elemPtr bool
	desc    *Descriptor
}

// New returns a pointer to a new zero instance of the entity.
func (d *Descriptor) New() any {
	return reflect.New(d.Type).Interface()
}

// Column returns the column with the given name.
func (d *Descriptor) Column(name string) (*Column, bool) {
	c, ok := d.columns[name]
	return c, ok
}

// EagerAssociations returns the associations fetched with a join.
func (d *Descriptor) EagerAssociations() []*Association {
	var eager []*Association
	for _, a := range d.Associations {
		if a.Fetch == edge.Eager {
			eager = append(eager, a)
		}
	}
	return eager
}

// HasEager reports if the entity has at least one eager association.
func (d *Descriptor) HasEager() bool {
	for _, a := range d.Associations {
		if a.Fetch == edge.Eager {
			return true
		}
	}
	return false
}

// IDValue returns the identifier value of the entity, or nil if unset.
func (d *Descriptor) IDValue(entity any) (any, error) {
	return d.ID.Get(entity)
}

// SetID assigns the identifier of the entity.
func (d *Descriptor) SetID(entity any, id any) error {
	return d.ID.Set(entity, id)
}

// HasID reports if the entity carries a non-null, non-zero identifier.
func (d *Descriptor) HasID(entity any) (bool, error) {
	v, err := d.ID.Get(entity)
	if err != nil {
		return false, err
	}
	return v != nil && !reflect.ValueOf(v).IsZero(), nil
}

// Check verifies that entity is a non-nil pointer to the descriptor's type.
func (d *Descriptor) Check(entity any) error {
	_, err := d.root(entity, "get", "")
	return err
}

// root returns the addressable struct value of the entity.
func (d *Descriptor) root(entity any, op, fieldName string) (reflect.Value, error) {
	rv := reflect.ValueOf(entity)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, &AccessError{Type: d.Name, Field: fieldName, Op: op, Err: fmt.Errorf("expect non-nil *%s, got %T", d.Name, entity)}
	}
	if rv.Elem().Type() != d.Type {
		return reflect.Value{}, &AccessError{Type: d.Name, Field: fieldName, Op: op, Err: fmt.Errorf("expect *%s, got %T", d.Name, entity)}
	}
	return rv.Elem(), nil
}

// raw returns the field value with its declared Go type.
func (c *Column) raw(entity any) (reflect.Value, error) {
	root, err := c.desc.root(entity, "get", c.Field)
	if err != nil {
		return reflect.Value{}, err
	}
	if c.desc.static {
		v, ok := entity.(FieldAccessor).PersistField(c.Name)
		if !ok {
			return reflect.Value{}, &AccessError{Type: c.desc.Name, Field: c.Field, Op: "get", Err: fmt.Errorf("accessor has no column %q", c.Name)}
		}
		rv := reflect.ValueOf(v)
		if !rv.IsValid() {
			return reflect.Zero(c.GoType), nil
		}
		if rv.Type() != c.GoType {
			return reflect.Value{}, &AccessError{Type: c.desc.Name, Field: c.Field, Op: "get", Err: fmt.Errorf("accessor returned %s, expect %s", rv.Type(), c.GoType)}
		}
		return rv, nil
	}
	return fieldByIndex(root, c.index), nil
}

// Get returns the value of the column on the entity. Pointer fields are
// dereferenced; nil is returned for SQL NULL (nil pointers and nil byte slices).
func (c *Column) Get(entity any) (any, error) {
	rv, err := c.raw(entity)
	if err != nil {
		return nil, err
	}
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	case reflect.Slice:
		if rv.IsNil() {
			return nil, nil
		}
	}
	return rv.Interface(), nil
}

// Set assigns a value to the column on the entity, converting driver values
// (int64, []byte, string, time.Time) to the field type. A nil value resets
// the field to its zero value.
func (c *Column) Set(entity any, value any) error {
	root, err := c.desc.root(entity, "set", c.Field)
	if err != nil {
		return err
	}
	fv, err := c.fieldValue(value)
	if err != nil {
		return &AccessError{Type: c.desc.Name, Field: c.Field, Op: "set", Err: err}
	}
	if c.desc.static {
		if err := entity.(FieldAccessor).SetPersistField(c.Name, fv.Interface()); err != nil {
			return &AccessError{Type: c.desc.Name, Field: c.Field, Op: "set", Err: err}
		}
		return nil
	}
	fieldByIndex(root, c.index).Set(fv)
	return nil
}

// fieldValue converts value to the declared Go type of the column.
func (c *Column) fieldValue(value any) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(c.GoType), nil
	}
	if c.GoType.Kind() != reflect.Pointer {
		return convert(value, c.GoType)
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return reflect.Zero(c.GoType), nil
	}
	v, err := convert(value, c.GoType.Elem())
	if err != nil {
		return reflect.Value{}, err
	}
	p := reflect.New(c.GoType.Elem())
	p.Elem().Set(v)
	return p, nil
}

// Append adds child to the association slice of parent. The child must be a
// pointer to the target entity type.
func (a *Association) Append(parent, child any) error {
	root, err := a.desc.root(parent, "append", a.Field)
	if err != nil {
		return err
	}
	cv := reflect.ValueOf(child)
	if cv.Kind() != reflect.Pointer || cv.IsNil() || cv.Elem().Type() != a.Target.Type {
		return &AccessError{Type: a.desc.Name, Field: a.Field, Op: "append", Err: fmt.Errorf("expect non-nil *%s, got %T", a.Target.Name, child)}
	}
	if !a.elemPtr {
		cv = cv.Elem()
	}
	f := fieldByIndex(root, a.index)
	f.Set(reflect.Append(f, cv))
	return nil
}

// Len returns the number of children currently held by parent.
func (a *Association) Len(parent any) (int, error) {
	root, err := a.desc.root(parent, "get", a.Field)
	if err != nil {
		return 0, err
	}
	return fieldByIndex(root, a.index).Len(), nil
}

// Children returns the children currently held by parent as pointers to the
// target entities. Nil elements are skipped.
func (a *Association) Children(parent any) ([]any, error) {
	root, err := a.desc.root(parent, "get", a.Field)
	if err != nil {
		return nil, err
	}
	f := fieldByIndex(root, a.index)
	children := make([]any, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		c := f.Index(i)
		switch {
		case !a.elemPtr:
			c = c.Addr()
		case c.IsNil():
			continue
		}
		children = append(children, c.Interface())
	}
	return children, nil
}
