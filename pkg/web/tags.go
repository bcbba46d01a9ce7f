package web

import (
	"fmt"
	"reflect"
	"strconv"
	"sync"
	"time"

	"github.com/entrhq/pagekit/pkg/element"
	"github.com/entrhq/pagekit/pkg/errs"
	"github.com/entrhq/pagekit/pkg/locate"
)

type fieldKind int

const (
	fieldElement fieldKind = iota
	fieldList
	fieldModule
)

type fieldPlan struct {
	index []int
	name  string
	kind  fieldKind
	decl  locate.Declaration
}

// typePlan is the binding plan of one context object type, derived from
// its struct tags.
type typePlan struct {
	fields []fieldPlan
	// page holds the descriptor tags of an embedded Page, if any.
	page *pageOptions
}

type planEntry struct {
	plan *typePlan
	err  error
}

// plans caches typePlans by type. Reads dominate after warm-up.
var plans = struct {
	mu    sync.RWMutex
	cache map[reflect.Type]planEntry
}{cache: make(map[reflect.Type]planEntry)}

var (
	elementType     = reflect.TypeOf((**element.Element)(nil)).Elem()
	listType        = reflect.TypeOf((**element.List)(nil)).Elem()
	moduleFieldType = reflect.TypeOf((*moduleField)(nil)).Elem()
	pageType        = reflect.TypeOf((*Page)(nil)).Elem()
)

// embedded base types that carry no bindable fields.
var baseTypes = map[reflect.Type]bool{
	pageType:                               true,
	reflect.TypeOf((*Module)(nil)).Elem():  true,
	reflect.TypeOf((*Logic)(nil)).Elem():   true,
	reflect.TypeOf((*Context)(nil)).Elem(): true,
	reflect.TypeOf((*Hooks)(nil)).Elem():   true,
}

// Descriptor tag keys on an embedded Page field.
const (
	tagURI          = "uri"
	tagBaseURL      = "baseUrl"
	tagVerifyURL    = "verifyUrl"
	tagRegex        = "regex"
	tagTimeout      = "timeout"
	tagPoll         = "poll"
	tagPreInitDelay = "preinitDelay"
)

// planFor returns the cached plan of t, building it on first use.
func planFor(t reflect.Type) (*typePlan, error) {
	plans.mu.RLock()
	entry, ok := plans.cache[t]
	plans.mu.RUnlock()
	if ok {
		return entry.plan, entry.err
	}

	plan, err := buildPlan(t)
	plans.mu.Lock()
	plans.cache[t] = planEntry{plan: plan, err: err}
	plans.mu.Unlock()
	return plan, err
}

func buildPlan(t reflect.Type) (*typePlan, error) {
	if t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		return nil, errs.ConstructFailed(t.String(), errNotStructPointer)
	}
	st := t.Elem()
	plan := &typePlan{}

	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)

		if f.Anonymous && baseTypes[f.Type] {
			if f.Type == pageType {
				opts, err := pageTags(f.Tag)
				if err != nil {
					return nil, errs.ConstructFailed(t.String(), err)
				}
				plan.page = opts
			}
			continue
		}

		kind, bindable := kindOf(f.Type)
		declared := hasLocatorTag(f.Tag)
		switch {
		case !bindable && declared:
			return nil, errs.ConstructFailed(t.String(),
				fmt.Errorf("field %s: locator tags on unsupported type %s", f.Name, f.Type))
		case !bindable:
			continue
		case !f.IsExported():
			if declared {
				return nil, errs.ConstructFailed(t.String(),
					fmt.Errorf("field %s: locator tags on unexported field", f.Name))
			}
			continue
		}

		decl, err := locate.FromTag(f.Tag, f.Name)
		if err != nil {
			return nil, errs.ConstructFailed(t.String(), err)
		}
		if decl.Skip {
			continue
		}
		plan.fields = append(plan.fields, fieldPlan{index: f.Index, name: f.Name, kind: kind, decl: decl})
	}
	return plan, nil
}

func kindOf(t reflect.Type) (fieldKind, bool) {
	switch {
	case t == elementType:
		return fieldElement, true
	case t == listType:
		return fieldList, true
	case t.Kind() == reflect.Struct && reflect.PointerTo(t).Implements(moduleFieldType):
		return fieldModule, true
	default:
		return 0, false
	}
}

func hasLocatorTag(tag reflect.StructTag) bool {
	for _, key := range []string{locate.TagFind, locate.TagFindAny, locate.TagFindChain} {
		if _, ok := tag.Lookup(key); ok {
			return true
		}
	}
	return false
}

func pageTags(tag reflect.StructTag) (*pageOptions, error) {
	o := &pageOptions{}
	if v, ok := tag.Lookup(tagURI); ok {
		o.uri = &v
	}
	if v, ok := tag.Lookup(tagBaseURL); ok {
		o.baseURL = &v
	}
	if v, ok := tag.Lookup(tagRegex); ok {
		o.regex = &v
	}
	if v, ok := tag.Lookup(tagVerifyURL); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s tag %q", tagVerifyURL, v)
		}
		o.verify = &b
	}
	for key, dst := range map[string]**time.Duration{
		tagTimeout:      &o.timeout,
		tagPoll:         &o.poll,
		tagPreInitDelay: &o.preInitDelay,
	} {
		v, ok := tag.Lookup(key)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s tag %q: %w", key, v, err)
		}
		*dst = &d
	}
	return o, nil
}
