package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/syssam/persist/schema/edge"
)

// TagName is the struct tag key read by the descriptor builder.
const TagName = "persist"

// tagOptions is the parsed form of a persist struct tag.
type tagOptions struct {
	skip       bool
	id         bool
	column     string
	notNull    bool
	unique     bool
	size       int
	oneToMany  bool
	fetch      edge.Fetch
	joinColumn string
	table      string
	hasTable   bool
}

// parseTag parses a persist tag value. The marker flag enables the
// options that are only valid on the schema.Entity field.
func parseTag(tag string, marker bool) (tagOptions, error) {
	var opts tagOptions
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return opts, nil
	}
	if tag == "-" {
		opts.skip = true
		return opts, nil
	}
	for _, part := range strings.Split(tag, ",") {
		key, value, hasValue := strings.Cut(strings.TrimSpace(part), "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" {
			continue
		}
		if marker && key != "table" {
			return opts, fmt.Errorf("%w: option %q is not allowed on schema.Entity", ErrInvalidTag, key)
		}
		switch key {
		case "table":
			if !marker {
				return opts, fmt.Errorf("%w: option %q is only allowed on schema.Entity", ErrInvalidTag, key)
			}
			opts.table, opts.hasTable = value, true
		case "id":
			opts.id = true
		case "column":
			if value == "" {
				return opts, fmt.Errorf("%w: empty column name", ErrInvalidTag)
			}
			opts.column = value
		case "notnull":
			opts.notNull = true
		case "unique":
			opts.unique = true
		case "size":
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return opts, fmt.Errorf("%w: invalid size %q", ErrInvalidTag, value)
			}
			opts.size = n
		case "onetomany":
			opts.oneToMany = true
		case "fetch":
			f, err := edge.ParseFetch(value)
			if err != nil {
				return opts, fmt.Errorf("%w: %v", ErrInvalidTag, err)
			}
			opts.fetch = f
		case "joincolumn":
			if value == "" {
				return opts, fmt.Errorf("%w: empty join column", ErrInvalidTag)
			}
			opts.joinColumn = value
		default:
			return opts, fmt.Errorf("%w: unknown option %q", ErrInvalidTag, key)
		}
		if hasValue && (key == "id" || key == "notnull" || key == "unique" || key == "onetomany") {
			return opts, fmt.Errorf("%w: option %q takes no value", ErrInvalidTag, key)
		}
	}
	if !opts.oneToMany && (opts.joinColumn != "" || opts.fetch != edge.Lazy) {
		return opts, fmt.Errorf("%w: fetch and joincolumn require onetomany", ErrInvalidTag)
	}
	if opts.oneToMany && (opts.id || opts.column != "") {
		return opts, fmt.Errorf("%w: onetomany cannot be combined with id or column", ErrInvalidTag)
	}
	return opts, nil
}
