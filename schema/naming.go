package schema

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lower = cases.Lower(language.Und)

// SnakeCase converts a camelCase or PascalCase identifier to snake_case.
// An underscore is inserted between a lowercase letter and a following
// uppercase letter, then the result is lower-cased:
//
//	nickName  -> nick_name
//	OrderID   -> order_id
//	ID        -> id
func SnakeCase(s string) string {
	var (
		b    strings.Builder
		prev rune
	)
	b.Grow(len(s) + 4)
	for i, r := range s {
		if i > 0 && unicode.IsLower(prev) && unicode.IsUpper(r) {
			b.WriteByte('_')
		}
		b.WriteRune(r)
		prev = r
	}
	return lower.String(b.String())
}
