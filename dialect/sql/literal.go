package sql

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimeLayout is the layout of time literals.
const TimeLayout = "2006-01-02 15:04:05.999999999-07:00"

// Literal renders v as a SQL literal. Pointers are dereferenced and a nil
// value renders as NULL. Strings, times and UUIDs are single quoted with
// embedded quotes doubled. Numbers are unquoted, booleans render as TRUE or
// FALSE and byte slices as hex literals. NaN and infinite floats are an
// error.
func Literal(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "NULL", nil
	case string:
		return Quote(v), nil
	case []byte:
		if v == nil {
			return "NULL", nil
		}
		return "X'" + strings.ToUpper(hex.EncodeToString(v)) + "'", nil
	case bool:
		if v {
			return "TRUE", nil
		}
		return "FALSE", nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return formatFloat(v, 64)
	case time.Time:
		return Quote(v.Format(TimeLayout)), nil
	case uuid.UUID:
		return Quote(v.String()), nil
	case driver.Valuer:
		dv, err := v.Value()
		if err != nil {
			return "", fmt.Errorf("dialect/sql: literal %T: %w", v, err)
		}
		return Literal(dv)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return "NULL", nil
		}
		return Literal(rv.Elem().Interface())
	case reflect.String:
		return Quote(rv.String()), nil
	case reflect.Bool:
		return Literal(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32:
		return formatFloat(rv.Float(), 32)
	case reflect.Float64:
		return formatFloat(rv.Float(), 64)
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Literal(rv.Bytes())
		}
	}
	return "", fmt.Errorf("dialect/sql: unsupported literal type %T", v)
}

// Quote single quotes s, doubling embedded quotes.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// formatFloat rejects NaN and infinities, which have no SQL literal form.
func formatFloat(f float64, bits int) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("dialect/sql: non-finite float literal %v", f)
	}
	return strconv.FormatFloat(f, 'g', -1, bits), nil
}
