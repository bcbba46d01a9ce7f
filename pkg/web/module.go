package web

import (
	"errors"

	"github.com/entrhq/pagekit/pkg/driver"
	"github.com/entrhq/pagekit/pkg/element"
	"github.com/entrhq/pagekit/pkg/errs"
	"github.com/entrhq/pagekit/pkg/locate"
)

// Module is embedded by composite elements: a group of elements below one
// root element, with its own lifecycle. Its fields are searched within
// the root element.
type Module struct {
	Context
	Hooks

	elem *element.Element
}

// ModuleObject is a struct pointer embedding Module.
type ModuleObject interface {
	Lifecycle

	// IsPresent reports whether the module is on the page. Override it
	// to require more than the root element, e.g. a child module.
	IsPresent() bool

	module() *Module
}

func (m *Module) module() *Module { return m }

func (m *Module) verifyLocation() error { return nil }

// Element returns the root element of the module.
func (m *Module) Element() *element.Element { return m.elem }

// IsPresent reports whether the root element matches right now.
func (m *Module) IsPresent() bool {
	return m.elem != nil && m.elem.IsPresent()
}

var errUnbound = errors.New("module field is not bound")

// newModule constructs T rooted at elem, with fields bound but no
// lifecycle run.
func newModule[T ModuleObject](parent *Context, elem *element.Element) (T, error) {
	obj, err := construct[T](parent, func() (driver.Searcher, error) { return elem.Handle() })
	if err != nil {
		return obj, err
	}
	obj.module().elem = elem
	return obj, nil
}

// initModule waits for elem, then constructs T and runs its lifecycle.
func initModule[T ModuleObject](parent *Context, elem *element.Element) (T, error) {
	if _, err := elem.Handle(); err != nil {
		var zero T
		return zero, err
	}
	obj, err := newModule[T](parent, elem)
	if err != nil {
		return obj, err
	}
	return obj, runLifecycle(obj, nil)
}

// standIn builds the inert module returned for an absent optional module:
// its fields are bound so they can be called, and every call fails with
// the NotFound stored in elem. Its lifecycle never runs.
func standIn[T ModuleObject](parent *Context, elem *element.Element) (T, error) {
	obj, err := newModule[T](parent, elem)
	if err != nil {
		return obj, err
	}
	if err := bindFields(obj); err != nil {
		return obj, err
	}
	return obj, nil
}

// Lazy is a module field. The module is constructed and initialized when
// Get is first called, not when the enclosing object initializes.
type Lazy[T ModuleObject] struct {
	owner *Context
	elem  *element.Element
	opts  bindOptions

	value    T
	resolved bool
}

// NewLazy binds a module rooted at the first match of loc within parent.
func NewLazy[T ModuleObject](parent Node, loc locate.Locator, opts ...BindOption) *Lazy[T] {
	l := &Lazy[T]{}
	l.attach(parent.node(), loc, collectOptions(opts))
	return l
}

func (l *Lazy[T]) attach(c *Context, loc locate.Locator, o bindOptions) {
	var zero T
	l.owner = c
	l.elem = element.New(c.root, loc, c.elementOptions(o))
	l.opts = o
	l.value = zero
	l.resolved = false
}

// Element returns the root element proxy.
func (l *Lazy[T]) Element() *element.Element { return l.elem }

// Get returns the initialized module.
//
// A required module waits for its root element and returns NotFound when
// it never appears. An optional module that is absent, by its root
// element or by its own IsPresent, resolves to an inert stand-in without
// error and its lifecycle never runs; use IsPresent to tell the two apart.
// Resolved modules are cached unless the field is uncached.
func (l *Lazy[T]) Get() (T, error) {
	var zero T
	if l.owner == nil {
		return zero, errs.ConstructFailed(typeName[T](), errUnbound)
	}
	if l.resolved && !l.opts.uncached {
		return l.value, nil
	}
	if l.opts.optional && !l.IsPresent() {
		return standIn[T](l.owner, l.elem)
	}

	obj, err := initModule[T](l.owner, l.elem)
	if err != nil {
		return obj, err
	}
	if !l.opts.uncached {
		l.value = obj
		l.resolved = true
	}
	return obj, nil
}

// IsPresent reports whether the root element matches and the module's own
// presence check holds. It does not initialize or cache anything.
func (l *Lazy[T]) IsPresent() bool {
	if l.owner == nil || !l.elem.IsPresent() {
		return false
	}
	probe, err := standIn[T](l.owner, l.elem)
	if err != nil {
		return false
	}
	return probe.IsPresent()
}

// Modules is a list of modules, one per match of its locator. Like
// element lists it is never cached.
type Modules[T ModuleObject] struct {
	owner *Context
	list  *element.List
}

func (m *Modules[T]) attach(c *Context, loc locate.Locator, o bindOptions) {
	m.owner = c
	m.list = element.NewList(c.root, loc, c.elementOptions(o))
}

// Size returns the current number of matches.
func (m *Modules[T]) Size() (int, error) {
	if m.owner == nil {
		return 0, errs.ConstructFailed(typeName[T](), errUnbound)
	}
	return m.list.Size()
}

// Get initializes the module at index i.
func (m *Modules[T]) Get(i int) (T, error) {
	if m.owner == nil {
		var zero T
		return zero, errs.ConstructFailed(typeName[T](), errUnbound)
	}
	return initModule[T](m.owner, m.list.Get(i))
}

// All initializes one module per current match.
func (m *Modules[T]) All() ([]T, error) {
	n, err := m.Size()
	if err != nil {
		return nil, err
	}
	all := make([]T, 0, n)
	for i := 0; i < n; i++ {
		mod, err := m.Get(i)
		if err != nil {
			return nil, err
		}
		all = append(all, mod)
	}
	return all, nil
}
