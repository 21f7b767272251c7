package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// timeLayouts are the textual time formats returned by drivers that store
// timestamps as text (SQLite, MySQL without parseTime).
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

var (
	timeType = reflect.TypeOf(time.Time{})
	uuidType = reflect.TypeOf(uuid.UUID{})
)

// convert converts a driver value to the non-pointer Go type t.
func convert(value any, t reflect.Type) (reflect.Value, error) {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Zero(t), nil
		}
		rv = rv.Elem()
	}
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}
	switch t {
	case timeType:
		return convertTime(rv)
	case uuidType:
		return convertUUID(rv)
	}
	switch t.Kind() {
	case reflect.String:
		switch {
		case rv.Kind() == reflect.String:
			return rv.Convert(t), nil
		case isBytes(rv):
			return reflect.ValueOf(string(rv.Bytes())).Convert(t), nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return convertNumber(rv, t)
	case reflect.Bool:
		return convertBool(rv, t)
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			switch {
			case isBytes(rv):
				return reflect.ValueOf(append([]byte(nil), rv.Bytes()...)).Convert(t), nil
			case rv.Kind() == reflect.String:
				return reflect.ValueOf([]byte(rv.String())).Convert(t), nil
			}
		}
	}
	return reflect.Value{}, fmt.Errorf("cannot convert %s to %s", rv.Type(), t)
}

func isBytes(rv reflect.Value) bool {
	return rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8
}

// textOf returns the textual content of string and []byte values.
func textOf(rv reflect.Value) (string, bool) {
	switch {
	case rv.Kind() == reflect.String:
		return rv.String(), true
	case isBytes(rv):
		return string(rv.Bytes()), true
	}
	return "", false
}

func isNumberKind(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Float64
}

func convertNumber(rv reflect.Value, t reflect.Type) (reflect.Value, error) {
	if isNumberKind(rv.Kind()) {
		return rv.Convert(t), nil
	}
	if rv.Kind() == reflect.Bool {
		if rv.Bool() {
			return reflect.ValueOf(1).Convert(t), nil
		}
		return reflect.Zero(t), nil
	}
	s, ok := textOf(rv)
	if !ok {
		return reflect.Value{}, fmt.Errorf("cannot convert %s to %s", rv.Type(), t)
	}
	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetFloat(f)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(s, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetUint(u)
	default:
		i, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetInt(i)
	}
	return v, nil
}

func convertBool(rv reflect.Value, t reflect.Type) (reflect.Value, error) {
	v := reflect.New(t).Elem()
	switch {
	case rv.Kind() == reflect.Bool:
		v.SetBool(rv.Bool())
	case rv.CanInt():
		v.SetBool(rv.Int() != 0)
	case rv.CanUint():
		v.SetBool(rv.Uint() != 0)
	default:
		s, ok := textOf(rv)
		if !ok {
			return reflect.Value{}, fmt.Errorf("cannot convert %s to %s", rv.Type(), t)
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetBool(b)
	}
	return v, nil
}

func convertTime(rv reflect.Value) (reflect.Value, error) {
	if rv.CanInt() {
		return reflect.ValueOf(time.Unix(rv.Int(), 0).UTC()), nil
	}
	s, ok := textOf(rv)
	if !ok {
		return reflect.Value{}, fmt.Errorf("cannot convert %s to time.Time", rv.Type())
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return reflect.ValueOf(t), nil
		}
	}
	return reflect.Value{}, fmt.Errorf("cannot parse %q as time.Time", s)
}

func convertUUID(rv reflect.Value) (reflect.Value, error) {
	switch {
	case rv.Kind() == reflect.String:
		u, err := uuid.Parse(rv.String())
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(u), nil
	case isBytes(rv):
		b := rv.Bytes()
		if len(b) == 16 {
			u, err := uuid.FromBytes(b)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(u), nil
		}
		u, err := uuid.ParseBytes(b)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(u), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot convert %s to uuid.UUID", rv.Type())
}
