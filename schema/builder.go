package schema

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/syssam/persist/schema/edge"
	"github.com/syssam/persist/schema/field"
)

// builder builds the descriptor of a type and of every association target
// reachable from it. Targets are built inline, not through the registry,
// so that cycles resolve to the descriptor under construction instead of
// deadlocking. A cycle made only of eager associations is an error.
type builder struct {
	reg  *Registry
	path []*Descriptor
	// eager[i] reports whether path[i] reaches path[i+1] through an eager
	// association.
	eager []bool
	built []*Descriptor
}

func newBuilder(reg *Registry) *builder {
	return &builder{reg: reg}
}

func (b *builder) describe(t reflect.Type) (*Descriptor, error) {
	if d, ok := b.reg.lookup(t); ok {
		return d, nil
	}
	for _, d := range b.built {
		if d.Type == t {
			return d, nil
		}
	}
	for i, d := range b.path {
		if d.Type != t {
			continue
		}
		if !slices.Contains(b.eager[i:], false) {
			return nil, &ConfigurationError{Type: d.Name, Err: fmt.Errorf("%w: cyclic eager association", ErrInvalidAssociation)}
		}
		return d, nil
	}

	d := &Descriptor{
		Type:    t,
		Name:    t.Name(),
		columns: make(map[string]*Column),
		static:  reflect.PointerTo(t).Implements(fieldAccessorType),
	}
	if d.Name == "" {
		d.Name = t.String()
	}
	marker, err := b.marker(d)
	if err != nil {
		return nil, err
	}
	if !marker {
		return nil, &ConfigurationError{Type: d.Name, Err: ErrMissingMarker}
	}
	b.path = append(b.path, d)
	err = b.fields(d, t, nil)
	b.path = b.path[:len(b.path)-1]
	if err != nil {
		return nil, err
	}
	if d.ID == nil {
		return nil, &ConfigurationError{Type: d.Name, Err: ErrMissingID}
	}
	b.built = append(b.built, d)
	return d, nil
}

// marker looks up the schema.Entity field and applies its table option.
func (b *builder) marker(d *Descriptor) (bool, error) {
	for i := 0; i < d.Type.NumField(); i++ {
		sf := d.Type.Field(i)
		if !sf.Anonymous || sf.Type != entityType {
			continue
		}
		opts, err := parseTag(sf.Tag.Get(TagName), true)
		if err != nil {
			return false, &ConfigurationError{Type: d.Name, Field: sf.Name, Err: err}
		}
		d.Table = d.Name
		if opts.table != "" {
			d.Table = opts.table
		}
		return true, nil
	}
	return false, nil
}

// fields maps the fields of t, flattening embedded structs.
func (b *builder) fields(d *Descriptor, t reflect.Type, prefix []int) error {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Type == entityType {
			continue
		}
		index := append(append(make([]int, 0, len(prefix)+1), prefix...), i)
		tag := sf.Tag.Get(TagName)
		opts, err := parseTag(tag, false)
		if err != nil {
			return &ConfigurationError{Type: d.Name, Field: sf.Name, Err: err}
		}
		switch {
		case opts.skip:
		case opts.oneToMany:
			if err := b.association(d, sf, index, opts); err != nil {
				return err
			}
		case sf.Anonymous && tag == "" && sf.Type.Kind() == reflect.Struct && field.TypeOf(sf.Type) == field.TypeInvalid:
			if err := b.fields(d, sf.Type, index); err != nil {
				return err
			}
		default:
			if err := b.column(d, sf, index, opts); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *builder) column(d *Descriptor, sf reflect.StructField, index []int, opts tagOptions) error {
	ft := field.TypeOf(sf.Type)
	if ft == field.TypeInvalid {
		return &ConfigurationError{Type: d.Name, Field: sf.Name, Err: fmt.Errorf("%w: %s", ErrUnsupportedType, sf.Type)}
	}
	c := &Column{
		Name:    opts.column,
		Field:   sf.Name,
		Type:    ft,
		GoType:  sf.Type,
		Primary: opts.id,
		NotNull: opts.notNull,
		Unique:  opts.unique,
		Size:    opts.size,
		index:   index,
		desc:    d,
	}
	if c.Name == "" {
		c.Name = SnakeCase(sf.Name)
	}
	if _, ok := d.columns[c.Name]; ok {
		return &ConfigurationError{Type: d.Name, Field: sf.Name, Err: fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name)}
	}
	if c.Primary {
		if d.ID != nil {
			return &ConfigurationError{Type: d.Name, Field: sf.Name, Err: ErrDuplicateID}
		}
		d.ID = c
	}
	d.columns[c.Name] = c
	d.Columns = append(d.Columns, c)
	return nil
}

func (b *builder) association(d *Descriptor, sf reflect.StructField, index []int, opts tagOptions) error {
	if sf.Type.Kind() != reflect.Slice {
		return &ConfigurationError{Type: d.Name, Field: sf.Name, Err: fmt.Errorf("%w: expect a slice, got %s", ErrInvalidAssociation, sf.Type)}
	}
	elem := sf.Type.Elem()
	elemPtr := elem.Kind() == reflect.Pointer
	if elemPtr {
		elem = elem.Elem()
	}
	if elem.Kind() != reflect.Struct {
		return &ConfigurationError{Type: d.Name, Field: sf.Name, Err: fmt.Errorf("%w: expect a slice of entities, got %s", ErrInvalidAssociation, sf.Type)}
	}
	b.eager = append(b.eager, opts.fetch == edge.Eager)
	target, err := b.describe(elem)
	b.eager = b.eager[:len(b.eager)-1]
	if err != nil {
		return &ConfigurationError{Type: d.Name, Field: sf.Name, Err: fmt.Errorf("%w: target %s: %w", ErrInvalidAssociation, elem, err)}
	}
	a := &Association{
		Field:      sf.Name,
		Target:     target,
		Fetch:      opts.fetch,
		JoinColumn: opts.joinColumn,
		index:      index,
		elemPtr:    elemPtr,
		desc:       d,
	}
	if a.JoinColumn == "" {
		a.JoinColumn = SnakeCase(sf.Name)
	}
	d.Associations = append(d.Associations, a)
	return nil
}
