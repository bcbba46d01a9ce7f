// Package element implements the lazy element proxy and its list variant.
//
// An Element wraps a locator and a search root and resolves the underlying
// driver handle on first use. Required elements wait for the handle with
// the implicit wait of their Poller; optional elements look once and, when
// nothing matches, fail every capability call with the same stored
// NotFound error.
package element

import (
	"github.com/entrhq/pagekit/pkg/driver"
	"github.com/entrhq/pagekit/pkg/errs"
	"github.com/entrhq/pagekit/pkg/locate"
	"github.com/entrhq/pagekit/pkg/wait"
)

// Root returns the searcher an element is located under. It is called on
// every resolution so that roots which are themselves lazy (parent
// elements, modules) resolve in turn.
type Root func() (driver.Searcher, error)

// Static returns a Root that always yields s.
func Static(s driver.Searcher) Root {
	return func() (driver.Searcher, error) { return s, nil }
}

// Options configures an Element or a List.
type Options struct {
	// Optional elements do not wait and report absence through the
	// missing stand-in.
	Optional bool

	// NoCache re-resolves the handle on every capability call.
	NoCache bool

	// Wait is the implicit wait of required lookups. A zero Timeout
	// means a single lookup.
	Wait wait.Poller
}

// Element is a lazy proxy for one UI element.
//
// Elements are not safe for concurrent use.
type Element struct {
	root Root
	loc  locate.Locator
	opts Options

	handle  driver.Handle
	missing *errs.NotFoundError
}

// New creates a proxy for the first match of loc under root. Nothing is
// looked up until a capability is used.
func New(root Root, loc locate.Locator, opts Options) *Element {
	return &Element{root: root, loc: loc, opts: opts}
}

// Locator returns the element locator.
func (e *Element) Locator() locate.Locator { return e.loc }

// Optional reports whether the element is optional.
func (e *Element) Optional() bool { return e.opts.Optional }

// String describes the element.
func (e *Element) String() string { return e.loc.String() }

// Handle resolves the element. A cached handle is returned as is.
func (e *Element) Handle() (driver.Handle, error) {
	if e.handle != nil && !e.opts.NoCache {
		return e.handle, nil
	}

	root, err := e.root()
	if err != nil {
		return nil, err
	}

	if e.opts.Optional {
		h, err := e.lookup(root)
		if errs.IsNotFound(err) && !errs.IsListener(err) {
			return nil, e.missingErr()
		}
		if err != nil {
			return nil, err
		}
		e.keep(h)
		return h, nil
	}

	p := e.opts.Wait
	if p.Message == "" {
		p.Message = "waiting for " + e.loc.String()
	}
	h, err := wait.Get(p, func() (driver.Handle, error) {
		return e.lookup(root)
	})
	if err != nil {
		if errs.IsNotFound(err) && !errs.IsListener(err) {
			return nil, errs.NotFound(e.loc.String(), err)
		}
		return nil, err
	}
	e.keep(h)
	return h, nil
}

// Refresh drops the cached handle so the next call resolves again.
func (e *Element) Refresh() {
	e.handle = nil
}

// IsPresent performs a fresh lookup and reports whether anything matches.
// It neither waits nor touches the cached handle or the missing stand-in.
func (e *Element) IsPresent() bool {
	root, err := e.root()
	if err != nil {
		return false
	}
	_, err = e.lookup(root)
	return err == nil
}

func (e *Element) lookup(root driver.Searcher) (driver.Handle, error) {
	found, err := e.loc.FindAll(root)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, errs.NotFound(e.loc.String(), nil)
	}
	return found[0], nil
}

func (e *Element) keep(h driver.Handle) {
	if !e.opts.NoCache {
		e.handle = h
	}
}

// missingErr returns the stored NotFound of the stand-in, creating it on
// first use.
func (e *Element) missingErr() *errs.NotFoundError {
	if e.missing == nil {
		e.missing = errs.NotFound(e.loc.String(), nil)
	}
	return e.missing
}

// FindElements searches below the resolved element, which makes an
// Element usable as the root of child proxies.
func (e *Element) FindElements(by driver.By) ([]driver.Handle, error) {
	h, err := e.Handle()
	if err != nil {
		return nil, err
	}
	return h.FindElements(by)
}

// Find returns a child proxy searched within this element.
func (e *Element) Find(loc locate.Locator, opts Options) *Element {
	return New(e.asRoot(), loc, opts)
}

// FindAll returns a child list searched within this element.
func (e *Element) FindAll(loc locate.Locator, opts Options) *List {
	return NewList(e.asRoot(), loc, opts)
}

func (e *Element) asRoot() Root {
	return func() (driver.Searcher, error) { return e.Handle() }
}

// Click resolves the element and clicks it.
func (e *Element) Click() error {
	h, err := e.Handle()
	if err != nil {
		return err
	}
	return h.Click()
}

// Text returns the visible text of the element.
func (e *Element) Text() (string, error) {
	h, err := e.Handle()
	if err != nil {
		return "", err
	}
	return h.Text()
}

// Attribute returns the value of the named attribute.
func (e *Element) Attribute(name string) (string, error) {
	h, err := e.Handle()
	if err != nil {
		return "", err
	}
	return h.Attribute(name)
}

// Type sends text to the element.
func (e *Element) Type(text string) error {
	h, err := e.Handle()
	if err != nil {
		return err
	}
	return h.Type(text)
}

// Clear empties an input or textarea.
func (e *Element) Clear() error {
	h, err := e.Handle()
	if err != nil {
		return err
	}
	return h.Clear()
}

// SetValue clears the element and types text.
func (e *Element) SetValue(text string) error {
	h, err := e.Handle()
	if err != nil {
		return err
	}
	if err := h.Clear(); err != nil {
		return err
	}
	return h.Type(text)
}

// Submit submits the form the element belongs to.
func (e *Element) Submit() error {
	h, err := e.Handle()
	if err != nil {
		return err
	}
	return h.Submit()
}

// TagName returns the lower-case tag name.
func (e *Element) TagName() (string, error) {
	h, err := e.Handle()
	if err != nil {
		return "", err
	}
	return h.TagName()
}

// IsDisplayed reports whether the element is rendered visibly.
func (e *Element) IsDisplayed() (bool, error) {
	h, err := e.Handle()
	if err != nil {
		return false, err
	}
	return h.IsDisplayed()
}

// IsEnabled reports whether the element accepts interaction.
func (e *Element) IsEnabled() (bool, error) {
	h, err := e.Handle()
	if err != nil {
		return false, err
	}
	return h.IsEnabled()
}
