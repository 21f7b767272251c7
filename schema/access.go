package schema

import (
	"reflect"
	"unsafe"
)

// FieldAccessor is implemented by entities that carry a static accessor
// table, usually emitted by compiler/gen. When the pointer type of an entity
// implements it, column values are read and written through these methods
// instead of reflection.
//
// PersistField returns the raw field value of the column (a typed nil for
// unset pointer fields). SetPersistField receives a value that already has
// the exact Go type of the field.
type FieldAccessor interface {
	PersistField(column string) (any, bool)
	SetPersistField(column string, value any) error
}

var fieldAccessorType = reflect.TypeOf((*FieldAccessor)(nil)).Elem()

// fieldByIndex returns the addressable struct field at index, reaching
// unexported fields through their address. All unsafe field access in this
// module goes through this function.
func fieldByIndex(v reflect.Value, index []int) reflect.Value {
	f := v.FieldByIndex(index)
	if f.CanSet() {
		return f
	}
	return reflect.NewAt(f.Type(), unsafe.Pointer(f.UnsafeAddr())).Elem()
}
