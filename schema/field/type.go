package field

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Type is the semantic type of a column.
type Type uint8

// Column types.
const (
	TypeInvalid Type = iota
	TypeBool
	TypeTime
	TypeUUID
	TypeBytes
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt
	TypeInt64
	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint
	TypeUint64
	TypeFloat32
	TypeFloat64
	TypeString
	endTypes
)

var typeNames = [...]string{
	TypeInvalid: "invalid",
	TypeBool:    "bool",
	TypeTime:    "time.Time",
	TypeUUID:    "uuid.UUID",
	TypeBytes:   "[]byte",
	TypeInt8:    "int8",
	TypeInt16:   "int16",
	TypeInt32:   "int32",
	TypeInt:     "int",
	TypeInt64:   "int64",
	TypeUint8:   "uint8",
	TypeUint16:  "uint16",
	TypeUint32:  "uint32",
	TypeUint:    "uint",
	TypeUint64:  "uint64",
	TypeFloat32: "float32",
	TypeFloat64: "float64",
	TypeString:  "string",
}

// String returns the Go name of the type.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// Valid reports if the given type is a known column type.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// Numeric reports if the given type is a numeric type.
func (t Type) Numeric() bool {
	return t >= TypeInt8 && t < TypeString
}

// Integer reports if the given type is an integer type.
func (t Type) Integer() bool {
	return t >= TypeInt8 && t <= TypeUint64
}

// Float reports if the given type is a floating point type.
func (t Type) Float() bool {
	return t == TypeFloat32 || t == TypeFloat64
}

// Quoted reports if literal values of this type are rendered as quoted text.
func (t Type) Quoted() bool {
	switch t {
	case TypeString, TypeTime, TypeUUID:
		return true
	}
	return false
}

var (
	timeType  = reflect.TypeOf(time.Time{})
	uuidType  = reflect.TypeOf(uuid.UUID{})
	bytesType = reflect.TypeOf([]byte(nil))
)

// TypeOf returns the column type of the given Go type. Pointers are unwrapped
// once. TypeInvalid is returned for types that cannot be stored in a single
// column (structs, maps, slices other than []byte, etc).
func TypeOf(t reflect.Type) Type {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t {
	case timeType:
		return TypeTime
	case uuidType:
		return TypeUUID
	case bytesType:
		return TypeBytes
	}
	switch t.Kind() {
	case reflect.Bool:
		return TypeBool
	case reflect.Int8:
		return TypeInt8
	case reflect.Int16:
		return TypeInt16
	case reflect.Int32:
		return TypeInt32
	case reflect.Int:
		return TypeInt
	case reflect.Int64:
		return TypeInt64
	case reflect.Uint8:
		return TypeUint8
	case reflect.Uint16:
		return TypeUint16
	case reflect.Uint32:
		return TypeUint32
	case reflect.Uint:
		return TypeUint
	case reflect.Uint64:
		return TypeUint64
	case reflect.Float32:
		return TypeFloat32
	case reflect.Float64:
		return TypeFloat64
	case reflect.String:
		return TypeString
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return TypeBytes
		}
	}
	return TypeInvalid
}
