package web

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/entrhq/pagekit/pkg/element"
	"github.com/entrhq/pagekit/pkg/errs"
	"github.com/entrhq/pagekit/pkg/locate"
)

// BindOption modifies one binding.
type BindOption func(*bindOptions)

type bindOptions struct {
	optional bool
	uncached bool
}

// Optional marks an element or module whose absence is only an error when
// it is used.
func Optional() BindOption {
	return func(o *bindOptions) { o.optional = true }
}

// Uncached resolves the element again on every call.
func Uncached() BindOption {
	return func(o *bindOptions) { o.uncached = true }
}

func collectOptions(opts []BindOption) bindOptions {
	var o bindOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Binding assigns one field of a context object. Build bindings with
// ElementField, ListField, ModuleField and ModulesField.
type Binding struct {
	field string
	bind  func(c *Context) error
}

// Binder is implemented by context objects that declare their fields with
// an explicit table instead of struct tags. The table is evaluated once
// per initialization, during the field binding step.
type Binder interface {
	Bindings() []Binding
}

var errNilField = errors.New("nil field pointer")

// ElementField binds *dst to a proxy for the first match of loc.
func ElementField(dst **element.Element, loc locate.Locator, opts ...BindOption) Binding {
	return Binding{field: loc.String(), bind: func(c *Context) error {
		if dst == nil {
			return errNilField
		}
		*dst = c.Find(loc, opts...)
		return nil
	}}
}

// ListField binds *dst to the list of matches of loc.
func ListField(dst **element.List, loc locate.Locator, opts ...BindOption) Binding {
	return Binding{field: loc.String(), bind: func(c *Context) error {
		if dst == nil {
			return errNilField
		}
		*dst = c.FindAll(loc, opts...)
		return nil
	}}
}

// ModuleField binds a lazily initialized module rooted at the first match
// of loc.
func ModuleField[T ModuleObject](dst *Lazy[T], loc locate.Locator, opts ...BindOption) Binding {
	return Binding{field: loc.String(), bind: func(c *Context) error {
		if dst == nil {
			return errNilField
		}
		dst.attach(c, loc, collectOptions(opts))
		return nil
	}}
}

// ModulesField binds one module per match of loc.
func ModulesField[T ModuleObject](dst *Modules[T], loc locate.Locator, opts ...BindOption) Binding {
	return Binding{field: loc.String(), bind: func(c *Context) error {
		if dst == nil {
			return errNilField
		}
		dst.attach(c, loc, collectOptions(opts))
		return nil
	}}
}

// moduleField is implemented by *Lazy[T] and *Modules[T].
type moduleField interface {
	attach(c *Context, loc locate.Locator, o bindOptions)
}

// bindFields assigns the element fields of obj from its binding table or,
// without one, from its struct tags.
func bindFields(obj Node) error {
	c := obj.node()
	if b, ok := obj.(Binder); ok {
		for _, binding := range b.Bindings() {
			if binding.bind == nil {
				return errs.ConstructFailed(c.typ, errors.New("empty binding"))
			}
			if err := binding.bind(c); err != nil {
				return errs.ConstructFailed(c.typ, fmt.Errorf("binding %s: %w", binding.field, err))
			}
		}
		return nil
	}

	plan, err := planFor(reflect.TypeOf(obj))
	if err != nil {
		return err
	}
	v := reflect.ValueOf(obj).Elem()
	for _, f := range plan.fields {
		fv := v.FieldByIndex(f.index)
		o := bindOptions{optional: f.decl.Optional, uncached: !f.decl.Cache}
		switch f.kind {
		case fieldElement:
			fv.Set(reflect.ValueOf(element.New(c.root, f.decl.Locator, c.elementOptions(o))))
		case fieldList:
			fv.Set(reflect.ValueOf(element.NewList(c.root, f.decl.Locator, c.elementOptions(o))))
		case fieldModule:
			fv.Addr().Interface().(moduleField).attach(c, f.decl.Locator, o)
		}
	}
	return nil
}
