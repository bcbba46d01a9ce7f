package locate

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/entrhq/pagekit/pkg/driver"
)

// Struct tag keys of the declarative vocabulary.
const (
	TagFind      = "find"
	TagFindAny   = "findAny"
	TagFindChain = "findChain"
	TagOptional  = "optional"
	TagCache     = "cache"
)

// Parse reads a "strategy=value" locator such as "id=login" or
// "css=form > input". The value may itself contain "=".
func Parse(s string) (Single, error) {
	strategy, value, ok := strings.Cut(strings.TrimSpace(s), "=")
	if !ok {
		return Single{}, fmt.Errorf("locator %q: expected strategy=value", s)
	}
	st, err := driver.ParseStrategy(strategy)
	if err != nil {
		return Single{}, fmt.Errorf("locator %q: %w", s, err)
	}
	if strings.TrimSpace(value) == "" {
		return Single{}, fmt.Errorf("locator %q: empty value", s)
	}
	return By(st, value), nil
}

// ParseList reads locators separated by ";".
func ParseList(s string) ([]Locator, error) {
	var locs []Locator
	for _, part := range strings.Split(s, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		loc, err := Parse(part)
		if err != nil {
			return nil, err
		}
		locs = append(locs, loc)
	}
	if len(locs) == 0 {
		return nil, fmt.Errorf("locator list %q is empty", s)
	}
	return locs, nil
}

// Declaration is the parsed locator tags of one field.
type Declaration struct {
	Locator  Locator
	Optional bool
	Cache    bool
	// Skip is set by find:"-".
	Skip bool
}

// FromTag reads the locator declaration of a struct field. Precedence is
// findChain, then findAny, then find, then the id-or-name default built
// from the field name.
func FromTag(tag reflect.StructTag, fieldName string) (Declaration, error) {
	decl := Declaration{Cache: true}

	if v, ok := tag.Lookup(TagOptional); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return decl, fmt.Errorf("field %s: invalid optional tag %q", fieldName, v)
		}
		decl.Optional = b
	}
	if v, ok := tag.Lookup(TagCache); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return decl, fmt.Errorf("field %s: invalid cache tag %q", fieldName, v)
		}
		decl.Cache = b
	}

	if v, ok := tag.Lookup(TagFindChain); ok {
		locs, err := ParseList(v)
		if err != nil {
			return decl, fmt.Errorf("field %s: %w", fieldName, err)
		}
		decl.Locator = Chained(locs...)
		return decl, nil
	}
	if v, ok := tag.Lookup(TagFindAny); ok {
		locs, err := ParseList(v)
		if err != nil {
			return decl, fmt.Errorf("field %s: %w", fieldName, err)
		}
		decl.Locator = AnyOf(locs...)
		return decl, nil
	}
	if v, ok := tag.Lookup(TagFind); ok {
		if v == "-" {
			decl.Skip = true
			return decl, nil
		}
		loc, err := Parse(v)
		if err != nil {
			return decl, fmt.Errorf("field %s: %w", fieldName, err)
		}
		decl.Locator = loc
		return decl, nil
	}

	decl.Locator = IDOrName(lowerFirst(fieldName))
	return decl, nil
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
