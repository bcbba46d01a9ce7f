package web

import (
	"time"

	"github.com/entrhq/pagekit/pkg/driver"
	"github.com/entrhq/pagekit/pkg/element"
	"github.com/entrhq/pagekit/pkg/event"
	"github.com/entrhq/pagekit/pkg/locate"
	"github.com/entrhq/pagekit/pkg/wait"
)

// Node is anything that owns a Context: the browser, pages, modules,
// logic objects and the Context itself.
type Node interface {
	node() *Context
}

// Context is the state shared by every node of the tree below a Browser.
// It is embedded in Browser, Page, Module and Logic, which gives them
// element lookup, waiting and a small data map.
type Context struct {
	parent  *Context
	browser *Browser
	root    element.Root
	label   string
	typ     string
	poller  wait.Poller
	cache   bool
	data    map[string]any
	state   State
}

func (c *Context) node() *Context { return c }

// Parent returns the enclosing context, nil for the browser.
func (c *Context) Parent() *Context { return c.parent }

// Browser returns the root of the tree.
func (c *Context) Browser() *Browser { return c.browser }

// Label returns the short name of the node, e.g. "LoginPage".
func (c *Context) Label() string { return c.label }

// TypeName returns the concrete type of the node, e.g. "*pages.LoginPage".
func (c *Context) TypeName() string { return c.typ }

// State returns the lifecycle state.
func (c *Context) State() State { return c.state }

// Driver returns the event-firing driver of the browser.
func (c *Context) Driver() driver.Driver { return c.browser.driver }

// Find returns a lazy proxy for the first match of loc within this node.
func (c *Context) Find(loc locate.Locator, opts ...BindOption) *element.Element {
	return element.New(c.root, loc, c.elementOptions(collectOptions(opts)))
}

// FindAll returns the list of matches of loc within this node.
func (c *Context) FindAll(loc locate.Locator, opts ...BindOption) *element.List {
	return element.NewList(c.root, loc, c.elementOptions(collectOptions(opts)))
}

// Has reports whether loc matches within this node right now.
func (c *Context) Has(loc locate.Locator) bool {
	return element.New(c.root, loc, element.Options{Optional: true, NoCache: true}).IsPresent()
}

// Waiting polls cond every interval until it holds, it returns an error
// other than NotFound, or timeout expires.
func (c *Context) Waiting(timeout, interval time.Duration, cond wait.Condition) error {
	p := c.poller
	p.Timeout = timeout
	p.Interval = interval
	p.Message = "waiting in " + c.label
	return p.Until(cond)
}

// Wait polls cond with the implicit timeout and interval of this node.
func (c *Context) Wait(cond wait.Condition) error {
	return c.Waiting(c.poller.Timeout, c.poller.Interval, cond)
}

// Set stores a value on this node.
func (c *Context) Set(key string, value any) {
	if c.data == nil {
		c.data = make(map[string]any)
	}
	c.data[key] = value
}

// Value returns the value stored under key on this node or the closest
// ancestor holding it.
func (c *Context) Value(key string) (any, bool) {
	for n := c; n != nil; n = n.parent {
		if v, ok := n.data[key]; ok {
			return v, true
		}
	}
	return nil, false
}

func (c *Context) elementOptions(o bindOptions) element.Options {
	return element.Options{
		Optional: o.optional,
		NoCache:  o.uncached || !c.cache,
		Wait:     c.poller,
	}
}

func (c *Context) origin() event.Origin {
	return event.Origin{Label: c.label, Type: c.typ}
}

func (c *Context) emit(kind event.Kind, payload event.Payload) error {
	return c.browser.bus.Emit(kind, c.origin(), payload)
}

// adopt initializes c as a child of parent searching under root.
func (c *Context) adopt(parent *Context, root element.Root, label, typ string) {
	c.parent = parent
	c.browser = parent.browser
	c.root = root
	c.label = label
	c.typ = typ
	c.poller = parent.poller
	c.cache = parent.cache
	c.state = StateConstructed
}
