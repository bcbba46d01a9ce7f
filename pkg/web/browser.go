// Package web implements page objects: the browser controller, pages,
// modules and logic objects, the field binder that wires their element
// fields, and the fixed-order lifecycle that initializes them.
//
// A page is a struct embedding Page:
//
//	type LoginPage struct {
//		web.Page `uri:"/login"`
//
//		User   *element.Element `find:"id=user"`
//		Submit *element.Element `find:"css=button[type=submit]"`
//		Banner web.Lazy[*Banner] `find:"id=banner" optional:"true"`
//	}
//
// Open[*LoginPage](b) navigates, binds the fields and runs the lifecycle
// hooks the page overrides. Every lifecycle step and every driver call is
// published on the browser's event bus.
package web

import (
	"fmt"

	"github.com/entrhq/pagekit/pkg/config"
	"github.com/entrhq/pagekit/pkg/driver"
	"github.com/entrhq/pagekit/pkg/event"
	"github.com/entrhq/pagekit/pkg/logging"
	"github.com/entrhq/pagekit/pkg/wait"
)

const browserLabel = "Browser"

// Browser is the root of a context tree. It owns the driver session, the
// event bus and the current page.
//
// A Browser and everything below it must be used from one goroutine.
type Browser struct {
	Context

	raw      driver.Driver
	driver   driver.Driver
	bus      *event.Bus
	settings config.Settings
	clock    wait.Clock
	log      *logging.Logger
	current  PageObject
	quit     bool

	// initializing holds the nodes whose lifecycle is running, innermost
	// last.
	initializing []*Context
}

// BrowserOption configures a Browser.
type BrowserOption func(*Browser)

// WithSettings sets the configuration, config.Defaults() otherwise.
func WithSettings(s config.Settings) BrowserOption {
	return func(b *Browser) {
		b.settings = s
	}
}

// WithBus shares an existing event bus.
func WithBus(bus *event.Bus) BrowserOption {
	return func(b *Browser) {
		b.bus = bus
	}
}

// WithClock sets the time source of waits and delays.
func WithClock(clock wait.Clock) BrowserOption {
	return func(b *Browser) {
		b.clock = clock
	}
}

// WithLogger sets the logger, which discards by default.
func WithLogger(l *logging.Logger) BrowserOption {
	return func(b *Browser) {
		b.log = l
	}
}

// WithListeners registers listeners before the construct event is
// published.
func WithListeners(ls ...event.Listener) BrowserOption {
	return func(b *Browser) {
		for _, l := range ls {
			b.bus.Register(l)
		}
	}
}

// NewBrowser wraps an open driver session.
func NewBrowser(d driver.Driver, opts ...BrowserOption) (*Browser, error) {
	b := &Browser{
		raw:      d,
		bus:      event.NewBus(),
		settings: config.Defaults(),
		clock:    wait.RealClock{},
		log:      logging.Discard(),
	}
	// Options run in order; WithBus must precede WithListeners.
	for _, opt := range opts {
		opt(b)
	}
	b.driver = &eventingDriver{Driver: d, b: b}

	b.Context = Context{
		browser: b,
		root:    rootOf(b.driver),
		label:   browserLabel,
		typ:     fmt.Sprintf("%T", b),
		poller: wait.Poller{
			Timeout:  b.settings.Timeout,
			Interval: b.settings.PollInterval,
			Session:  d.SessionID(),
			Clock:    b.clock,
		},
		cache: b.settings.ElementCache,
		state: StateVerified,
	}

	b.log.Infof("browser session %s constructed", d.SessionID())
	if err := b.emit(event.KindBrowserConstruct, event.Payload{Value: d.SessionID()}); err != nil {
		return nil, err
	}
	return b, nil
}

// Launch starts a Playwright browser described by s and wraps it.
func Launch(s config.Settings, opts ...BrowserOption) (*Browser, error) {
	d, err := driver.Launch(driver.LaunchOptions{
		Browser:  s.Browser,
		Headless: s.Headless,
		Install:  true,
	})
	if err != nil {
		return nil, err
	}
	b, err := NewBrowser(d, append([]BrowserOption{WithSettings(s)}, opts...)...)
	if err != nil {
		_ = d.Quit()
		return nil, err
	}
	return b, nil
}

// Driver returns the event-firing driver.
func (b *Browser) Driver() driver.Driver { return b.driver }

// Raw returns the driver without event publication.
func (b *Browser) Raw() driver.Driver { return b.raw }

// Bus returns the event bus.
func (b *Browser) Bus() *event.Bus { return b.bus }

// Settings returns the configuration the browser was built with.
func (b *Browser) Settings() config.Settings { return b.settings }

// Clock returns the time source.
func (b *Browser) Clock() wait.Clock { return b.clock }

// Logger returns the browser logger.
func (b *Browser) Logger() *logging.Logger { return b.log }

// SessionID returns the driver session ID.
func (b *Browser) SessionID() string { return b.raw.SessionID() }

// Listen registers a listener on the browser's bus.
func (b *Browser) Listen(l event.Listener) *event.Registration {
	return b.bus.Register(l)
}

// Navigate loads url without initializing a page.
func (b *Browser) Navigate(url string) error {
	b.log.Debugf("navigate %s", url)
	return b.driver.Navigate(url)
}

// CurrentURL returns the URL of the document shown.
func (b *Browser) CurrentURL() (string, error) {
	return b.driver.CurrentURL()
}

// CurrentPage returns the last page that completed its lifecycle, nil if
// none has.
func (b *Browser) CurrentPage() PageObject { return b.current }

// Quit publishes the quit event and closes the session. Later calls do
// nothing.
func (b *Browser) Quit() error {
	if b.quit {
		return nil
	}
	b.quit = true
	b.log.Infof("browser session %s quit", b.SessionID())
	if err := b.emit(event.KindBrowserQuit, event.Payload{Value: b.SessionID()}); err != nil {
		_ = b.raw.Quit()
		return err
	}
	return b.raw.Quit()
}

// activate publishes PageActivated for p, then commits it as the current
// page. On failure the previous current page stays.
func (b *Browser) activate(p PageObject) error {
	c := p.node()
	url, err := b.raw.CurrentURL()
	if err != nil {
		return err
	}
	if err := c.emit(event.KindPageActivated, event.Payload{URL: url, Subject: c.typ}); err != nil {
		return err
	}
	b.current = p
	b.log.Infof("page %s active at %s", c.label, url)
	return nil
}

// Current returns the current page when it is a T.
func Current[T PageObject](b *Browser) (T, bool) {
	p, ok := b.current.(T)
	return p, ok
}

// activeOrigin is the origin of driver events: the innermost page or
// module being initialized, else the current page, else the browser.
func (b *Browser) activeOrigin() event.Origin {
	if n := len(b.initializing); n > 0 {
		return b.initializing[n-1].origin()
	}
	if b.current != nil {
		return b.current.node().origin()
	}
	return b.origin()
}
