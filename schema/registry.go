package schema

import (
	"fmt"
	"reflect"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Registry memoizes descriptors by type. A descriptor is built on first use
// and read-only afterwards; concurrent first requests for the same type share
// one build. The zero value is not usable, use NewRegistry.
type Registry struct {
	types sync.Map // reflect.Type => *Descriptor
	group singleflight.Group
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process wide registry.
func DefaultRegistry() *Registry { return defaultRegistry }

// Describe returns the descriptor of an entity using the process wide registry.
// v is an entity value, a pointer to one, or its reflect.Type.
func Describe(v any) (*Descriptor, error) {
	return defaultRegistry.Describe(v)
}

// MustDescribe is like Describe but panics on configuration errors.
func MustDescribe(v any) *Descriptor {
	d, err := Describe(v)
	if err != nil {
		panic(err)
	}
	return d
}

// Describe returns the descriptor of an entity.
// v is an entity value, a pointer to one, or its reflect.Type.
func (r *Registry) Describe(v any) (*Descriptor, error) {
	var t reflect.Type
	switch v := v.(type) {
	case nil:
		return nil, &ConfigurationError{Err: fmt.Errorf("%w: nil entity", ErrMissingMarker)}
	case reflect.Type:
		t = v
	default:
		t = reflect.TypeOf(v)
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, &ConfigurationError{Type: t.String(), Err: ErrMissingMarker}
	}
	if d, ok := r.lookup(t); ok {
		return d, nil
	}
	res, err, _ := r.group.Do(typeKey(t), func() (any, error) {
		if d, ok := r.lookup(t); ok {
			return d, nil
		}
		b := newBuilder(r)
		if _, err := b.describe(t); err != nil {
			return nil, err
		}
		for _, d := range b.built {
			r.types.LoadOrStore(d.Type, d)
		}
		d, _ := r.lookup(t)
		return d, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*Descriptor), nil
}

// Len returns the number of memoized descriptors.
func (r *Registry) Len() int {
	n := 0
	r.types.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (r *Registry) lookup(t reflect.Type) (*Descriptor, bool) {
	d, ok := r.types.Load(t)
	if !ok {
		return nil, false
	}
	return d.(*Descriptor), true
}

// typeKey returns a string identifying t for singleflight.
func typeKey(t reflect.Type) string {
	if t.Name() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}
