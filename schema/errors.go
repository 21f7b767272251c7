package schema

import (
	"errors"
	"strings"
)

// Sentinel errors wrapped by ConfigurationError.
var (
	// ErrConfiguration matches any ConfigurationError.
	ErrConfiguration = errors.New("persist: invalid entity configuration")
	// ErrMissingMarker indicates a type that does not embed schema.Entity.
	ErrMissingMarker = errors.New("missing schema.Entity marker")
	// ErrMissingID indicates an entity without an identifier field.
	ErrMissingID = errors.New("missing identifier field")
	// ErrDuplicateID indicates an entity with more than one identifier field.
	ErrDuplicateID = errors.New("more than one identifier field")
	// ErrDuplicateColumn indicates two fields mapped to the same column.
	ErrDuplicateColumn = errors.New("duplicate column name")
	// ErrUnsupportedType indicates a field type that cannot be mapped.
	ErrUnsupportedType = errors.New("unsupported field type")
	// ErrInvalidTag indicates a malformed persist struct tag.
	ErrInvalidTag = errors.New("invalid persist tag")
	// ErrInvalidAssociation indicates an association that cannot be resolved.
	ErrInvalidAssociation = errors.New("invalid association")
)

// ConfigurationError reports an entity type whose declaration cannot be mapped.
// It is raised while building a Descriptor and is never recovered internally.
type ConfigurationError struct {
	Type  string // Go type name
	Field string // struct field, if applicable
	Err   error  // one of the sentinel errors above, possibly wrapped
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("persist: configuration error")
	if e.Type != "" {
		b.WriteString(" on type ")
		b.WriteString(e.Type)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Is reports whether the target is ErrConfiguration.
func (e *ConfigurationError) Is(err error) bool {
	return err == ErrConfiguration
}

// IsConfigurationError returns true if the error is a ConfigurationError.
func IsConfigurationError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConfigurationError
	return errors.As(err, &e)
}

// AccessError reports a failure to read or write a mapped field. It indicates
// a mismatch between a Descriptor and the value handed to it, which never
// happens with a correct configuration.
type AccessError struct {
	Type  string // Go type name of the descriptor
	Field string // struct field
	Op    string // "get", "set" or "append"
	Err   error
}

// Error implements the error interface.
func (e *AccessError) Error() string {
	var b strings.Builder
	b.WriteString("persist: cannot ")
	b.WriteString(e.Op)
	b.WriteString(" field ")
	if e.Type != "" {
		b.WriteString(e.Type)
		b.WriteString(".")
	}
	b.WriteString(e.Field)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *AccessError) Unwrap() error {
	return e.Err
}

// IsAccessError returns true if the error is an AccessError.
func IsAccessError(err error) bool {
	if err == nil {
		return false
	}
	var e *AccessError
	return errors.As(err, &e)
}
