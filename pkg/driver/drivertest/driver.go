// Package drivertest provides an in-memory driver.Driver backed by parsed
// HTML documents, for testing page objects without a browser.
//
// Pages are registered per URL with Serve; Navigate swaps in a fresh parse
// of the registered document. Tests mutate the live DOM with SetHTML,
// Remove or Append to simulate a changing page, and inspect Lookups,
// Clicks and Navigations to assert how the code under test used the
// driver.
package drivertest

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/entrhq/pagekit/pkg/driver"
)

// ErrStale is returned by handles whose node is no longer in the document.
var ErrStale = errors.New("stale element reference")

// ErrQuit is returned by every call after Quit.
var ErrQuit = errors.New("session has been quit")

// ScriptFunc answers ExecuteScript calls.
type ScriptFunc func(script string, args []any) (any, error)

// Driver is an in-memory browser session.
type Driver struct {
	mu          sync.Mutex
	id          string
	routes      map[string]string
	url         string
	doc         *html.Node
	lookups     []driver.By
	clicks      []string
	navigations []string
	script      ScriptFunc
	lookupErr   error
	quit        bool
}

// New returns a driver showing an empty document at about:blank.
func New() *Driver {
	d := &Driver{
		id:     uuid.New().String(),
		routes: make(map[string]string),
		url:    "about:blank",
	}
	d.doc = mustParse("<html><head></head><body></body></html>")
	return d
}

// NewWithHTML returns a driver showing doc at rawURL.
func NewWithHTML(rawURL, doc string) *Driver {
	d := New()
	d.Serve(rawURL, doc)
	d.url = rawURL
	d.doc = mustParse(doc)
	return d
}

// Serve registers the document returned for rawURL. Query strings and
// fragments are ignored when routing.
func (d *Driver) Serve(rawURL, doc string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.routes[routeKey(rawURL)] = doc
}

// SetHTML replaces the live document without changing the URL. Handles
// resolved before the call become stale.
func (d *Driver) SetHTML(doc string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.doc = mustParse(doc)
}

// SetURL changes the reported URL without loading anything, like a client
// side route change.
func (d *Driver) SetURL(rawURL string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.url = rawURL
}

// Remove detaches every element matching the CSS selector.
func (d *Driver) Remove(css string) error {
	sel, err := compileCSS(css)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, n := range below(d.doc, sel.MatchAll(d.doc)) {
		n.Parent.RemoveChild(n)
	}
	return nil
}

// Append parses fragment and appends it to the first element matching the
// CSS selector.
func (d *Driver) Append(css, fragment string) error {
	sel, err := compileCSS(css)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	targets := below(d.doc, sel.MatchAll(d.doc))
	if len(targets) == 0 {
		return fmt.Errorf("no element matches %q", css)
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), targets[0])
	if err != nil {
		return fmt.Errorf("failed to parse fragment: %w", err)
	}
	for _, n := range nodes {
		targets[0].AppendChild(n)
	}
	return nil
}

// OnScript installs the function answering ExecuteScript.
func (d *Driver) OnScript(fn ScriptFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.script = fn
}

// FailLookups makes every FindElements call return err until called again
// with nil.
func (d *Driver) FailLookups(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lookupErr = err
}

// Lookups returns every locator looked up so far, including nested ones.
func (d *Driver) Lookups() []driver.By {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]driver.By(nil), d.lookups...)
}

// Clicks returns a description of every clicked element.
func (d *Driver) Clicks() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.clicks...)
}

// Navigations returns every URL passed to Navigate.
func (d *Driver) Navigations() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.navigations...)
}

// FindElements implements driver.Searcher over the whole document.
func (d *Driver) FindElements(by driver.By) ([]driver.Handle, error) {
	return d.find(d.doc, by)
}

// Navigate loads the document registered for rawURL, or an empty one.
func (d *Driver) Navigate(rawURL string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.quit {
		return ErrQuit
	}
	d.navigations = append(d.navigations, rawURL)
	d.load(rawURL)
	return nil
}

func (d *Driver) load(rawURL string) {
	d.url = rawURL
	doc, ok := d.routes[routeKey(rawURL)]
	if !ok {
		doc = "<html><head></head><body></body></html>"
	}
	d.doc = mustParse(doc)
}

// CurrentURL returns the URL of the current document.
func (d *Driver) CurrentURL() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.quit {
		return "", ErrQuit
	}
	return d.url, nil
}

// Title returns the text of the title element.
func (d *Driver) Title() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.quit {
		return "", ErrQuit
	}
	titles := collect(d.doc, func(n *html.Node) bool { return n.Type == html.ElementNode && n.Data == "title" })
	if len(titles) == 0 {
		return "", nil
	}
	return textOf(titles[0]), nil
}

// ExecuteScript delegates to the function installed with OnScript.
func (d *Driver) ExecuteScript(script string, args ...any) (any, error) {
	d.mu.Lock()
	fn, quit := d.script, d.quit
	d.mu.Unlock()
	if quit {
		return nil, ErrQuit
	}
	if fn == nil {
		return nil, nil
	}
	return fn(script, args)
}

// Screenshot returns a PNG signature followed by the current URL, enough
// for artifact tests to tell captures apart.
func (d *Driver) Screenshot() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.quit {
		return nil, ErrQuit
	}
	return append([]byte("\x89PNG\r\n\x1a\n"), d.url...), nil
}

// PageSource renders the live document.
func (d *Driver) PageSource() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.quit {
		return "", ErrQuit
	}
	var b strings.Builder
	if err := html.Render(&b, d.doc); err != nil {
		return "", err
	}
	return b.String(), nil
}

// SessionID returns the random session identifier.
func (d *Driver) SessionID() string {
	return d.id
}

// Quit ends the session.
func (d *Driver) Quit() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.quit {
		return ErrQuit
	}
	d.quit = true
	return nil
}

func (d *Driver) find(scope *html.Node, by driver.By) ([]driver.Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.quit {
		return nil, ErrQuit
	}
	d.lookups = append(d.lookups, by)
	if d.lookupErr != nil {
		return nil, d.lookupErr
	}

	nodes, err := query(scope, by)
	if err != nil {
		return nil, err
	}
	handles := make([]driver.Handle, 0, len(nodes))
	for _, n := range nodes {
		handles = append(handles, &Handle{d: d, n: n})
	}
	return handles, nil
}

func routeKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

func mustParse(doc string) *html.Node {
	n, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		panic(fmt.Sprintf("drivertest: invalid html: %v", err))
	}
	return n
}
