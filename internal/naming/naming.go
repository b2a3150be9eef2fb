// Package naming converts JSON keys into Python class, attribute and
// variable names.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
	"github.com/mcncl/pytyper/internal/errors"
	"github.com/mcncl/pytyper/internal/models"
)

// reserved holds Python keywords plus names the generated code already
// binds inside a class body (self, cls, json).
var reserved = map[string]struct{}{
	"False": {}, "None": {}, "True": {}, "and": {}, "as": {}, "assert": {},
	"async": {}, "await": {}, "break": {}, "class": {}, "continue": {},
	"def": {}, "del": {}, "elif": {}, "else": {}, "except": {}, "finally": {},
	"for": {}, "from": {}, "global": {}, "if": {}, "import": {}, "in": {},
	"is": {}, "lambda": {}, "nonlocal": {}, "not": {}, "or": {}, "pass": {},
	"raise": {}, "return": {}, "try": {}, "while": {}, "with": {}, "yield": {},
	"self": {}, "cls": {}, "json": {},
}

func isASCIILetter(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func isASCIIUpper(b byte) bool {
	return 'A' <= b && b <= 'Z'
}

// ToCamelCase removes every underscore that follows the first character and
// precedes an ASCII letter, upper-casing that letter: catch_phrase becomes
// catchPhrase. A leading underscore is kept.
func ToCamelCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' && i > 0 && i+1 < len(s) && isASCIILetter(s[i+1]) {
			b.WriteByte(s[i+1] &^ 0x20)
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// ToSnakeCase inserts an underscore before every ASCII upper-case letter
// after the first character and lower-cases the result: catchPhrase becomes
// catch_phrase. Runs of capitals are split letter by letter.
func ToSnakeCase(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		if i > 0 && isASCIIUpper(s[i]) {
			b.WriteByte('_')
		}
		b.WriteByte(s[i])
	}
	return strings.ToLower(b.String())
}

// Capitalize upper-cases the first character of s.
func Capitalize(s string) (string, error) {
	return mapFirst(s, unicode.ToUpper, "cannot capitalize an empty string")
}

// Lowercase lower-cases the first character of s.
func Lowercase(s string) (string, error) {
	return mapFirst(s, unicode.ToLower, "cannot lowercase an empty string")
}

func mapFirst(s string, fn func(rune) rune, msg string) (string, error) {
	if s == "" {
		return "", errors.NewInvalidArgumentError(msg)
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(fn(r)) + s[size:], nil
}

// Identifier turns s into a legal Python identifier. Characters outside
// letters, digits and underscore become underscores, a leading digit gets an
// underscore prefix, and reserved words get an underscore suffix.
func Identifier(s string) (string, error) {
	if s == "" {
		return "", errors.NewInvalidArgumentError("cannot build an identifier from an empty string")
	}
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
			b.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	id := b.String()
	if _, ok := reserved[id]; ok {
		id += "_"
	}
	return id, nil
}

// TypeName derives a class name from the key of the field holding an
// object: shipping_address becomes ShippingAddress.
func TypeName(key string) (string, error) {
	c, err := Capitalize(key)
	if err != nil {
		return "", err
	}
	return Identifier(ToCamelCase(c))
}

// NormalizeKey applies the casing of style to key without making it a
// legal identifier.
func NormalizeKey(key string, style models.Style) string {
	if style == models.StyleCamelCase {
		return ToCamelCase(key)
	}
	return ToSnakeCase(key)
}

// FieldName rewrites a JSON key into the attribute name for style.
func FieldName(key string, style models.Style) (string, error) {
	if key == "" {
		return "", errors.NewInvalidArgumentError("cannot derive a field name from an empty key")
	}
	return Identifier(NormalizeKey(key, style))
}

// ItemName is the loop variable used when mapping from_json over a list of
// typeName values, e.g. Address gives address. Class names that have no
// upper case to drop, such as _id, fall back to item so the loop variable
// never hides the class it calls.
func ItemName(typeName string) string {
	name := "item"
	if id, err := Identifier(strcase.ToSnake(typeName)); err == nil && id != typeName {
		name = id
	}
	for name == typeName {
		name += "_"
	}
	return name
}

// ListVar is the local that holds the mapped value of a list-of-class field
// inside from_json. The leading underscore keeps it clear of the json and
// cls parameters; further underscores are added while the name is in taken.
func ListVar(fieldName string, taken map[string]struct{}) string {
	name := "_" + fieldName
	for {
		if _, ok := taken[name]; !ok {
			return name
		}
		name += "_"
	}
}
