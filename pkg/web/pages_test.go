package web_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/entrhq/pagekit/pkg/config"
	"github.com/entrhq/pagekit/pkg/driver/drivertest"
	"github.com/entrhq/pagekit/pkg/element"
	"github.com/entrhq/pagekit/pkg/event"
	"github.com/entrhq/pagekit/pkg/locate"
	"github.com/entrhq/pagekit/pkg/wait"
	"github.com/entrhq/pagekit/pkg/web"
)

const homeHTML = `<html><head><title>Home</title></head><body>
<h1 id="title">Welcome</h1>
<form id="search"><input name="q"><button id="go">Search</button></form>
<nav id="menu"><a href="/home">Home</a><a href="/about">About</a></nav>
<ul id="results"><li class="row"><span class="name">a</span></li><li class="row"><span class="name">b</span></li></ul>
</body></html>`

// fixture is a browser over an in-memory driver serving homeHTML at
// http://x/home, with every event recorded.
type fixture struct {
	d      *drivertest.Driver
	b      *web.Browser
	clock  *wait.FakeClock
	events []*event.Event
}

func newFixture(t *testing.T, opts ...web.BrowserOption) *fixture {
	t.Helper()
	f := &fixture{
		d:     drivertest.New(),
		clock: wait.NewFakeClock(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)),
	}
	f.d.Serve("http://x/home", homeHTML)

	settings := config.Defaults()
	settings.Timeout = 2 * time.Second
	settings.PollInterval = 500 * time.Millisecond

	recorder := event.Func(func(e *event.Event) error {
		f.events = append(f.events, e)
		return nil
	})
	all := append([]web.BrowserOption{
		web.WithSettings(settings),
		web.WithClock(f.clock),
		web.WithListeners(recorder),
	}, opts...)

	b, err := web.NewBrowser(f.d, all...)
	require.NoError(t, err)
	f.b = b
	return f
}

// labels returns the labels of recorded events whose kind is in kinds,
// prefixed with the origin label.
func (f *fixture) labels(kinds ...event.Kind) []string {
	keep := make(map[event.Kind]bool, len(kinds))
	for _, k := range kinds {
		keep[k] = true
	}
	var out []string
	for _, e := range f.events {
		if keep[e.Kind()] {
			out = append(out, e.Origin().Label+":"+e.Label())
		}
	}
	return out
}

var lifecycleKinds = []event.Kind{
	event.KindBeforeInit, event.KindBeforeInitElements, event.KindAfterInitElements,
	event.KindBeforeSetup, event.KindAfterSetup, event.KindBeforeVerify,
	event.KindAfterVerify, event.KindPageActivated, event.KindAfterInit,
	event.KindInitException,
}

// HomePage declares its elements with struct tags.
type HomePage struct {
	web.Page `uri:"/home" baseUrl:"http://x" verifyUrl:"true"`

	Title   *element.Element   `find:"id=title"`
	Query   *element.Element   `find:"name=q"`
	Go      *element.Element   // id-or-name "go"
	Login   *element.Element   `find:"id=login" optional:"true"`
	Rows    *element.List      `find:"css=#results > li"`
	Names   *element.List      `findChain:"id=results;class=name"`
	Links   *element.List      `findAny:"css=nav a;id=title"`
	Menu    web.Lazy[*Menu]    `find:"id=menu"`
	Footer  web.Lazy[*Menu]    `find:"id=footer" optional:"true"`
	Results web.Modules[*Row]  `find:"css=li.row"`
	Skipped *element.Element   `find:"-"`
	Note    string
}

// Menu is a module with one link list.
type Menu struct {
	web.Module

	Links *element.List    `find:"tag=a"`
	First *element.Element `find:"tag=a"`
	setup int
}

func (m *Menu) Setup() error {
	m.setup++
	return nil
}

// Row is a module per result row.
type Row struct {
	web.Module

	Name *element.Element `find:"class=name"`
}

// TablePage declares the same elements with an explicit binding table.
type TablePage struct {
	web.Page `uri:"/home" baseUrl:"http://x"`

	Title *element.Element
	Rows  *element.List
	Menu  web.Lazy[*Menu]
	Items web.Modules[*Row]
	Login *element.Element
}

func (p *TablePage) Bindings() []web.Binding {
	return []web.Binding{
		web.ElementField(&p.Title, locate.ID("title")),
		web.ListField(&p.Rows, locate.CSS("li.row")),
		web.ModuleField(&p.Menu, locate.ID("menu")),
		web.ModulesField(&p.Items, locate.CSS("li.row")),
		web.ElementField(&p.Login, locate.ID("login"), web.Optional(), web.Uncached()),
	}
}

// HookPage records every hook it runs.
type HookPage struct {
	web.Page `uri:"/home" baseUrl:"http://x"`

	Title *element.Element `find:"id=title"`
	calls []string
}

func (p *HookPage) record(name string) error {
	p.calls = append(p.calls, name)
	return nil
}

func (p *HookPage) BeforeInit() error { return p.record("beforeInit") }
func (p *HookPage) BeforeInitElements() error {
	return p.record(fmt.Sprintf("beforeInitElements bound=%t", p.Title != nil))
}
func (p *HookPage) AfterInitElements() error {
	return p.record(fmt.Sprintf("afterInitElements bound=%t", p.Title != nil))
}
func (p *HookPage) BeforeSetup() error  { return p.record("beforeSetup") }
func (p *HookPage) Setup() error        { return p.record("setup") }
func (p *HookPage) AfterSetup() error   { return p.record("afterSetup") }
func (p *HookPage) BeforeVerify() error { return p.record("beforeVerify") }
func (p *HookPage) Verify() error       { return p.record("verify") }
func (p *HookPage) AfterVerify() error {
	return p.record(fmt.Sprintf("afterVerify current=%t", p.Browser().CurrentPage() != nil))
}
func (p *HookPage) AfterInit() error {
	return p.record(fmt.Sprintf("afterInit current=%t", p.Browser().CurrentPage() == web.PageObject(p)))
}

// AboutPage lives at /about and fails to verify anywhere else.
type AboutPage struct {
	web.Page `uri:"/about" baseUrl:"http://x"`
}

// FailingPage fails its setup with errSetup.
type FailingPage struct {
	web.Page `uri:"/home" baseUrl:"http://x"`
}

var errSetup = errors.New("setup broke")

func (p *FailingPage) Setup() error { return errSetup }

// CrashingPage fails with an error outside the automation family.
type CrashingPage struct {
	web.Page `uri:"/home" baseUrl:"http://x"`
}

var errCrash = errors.New("crash")

func (p *CrashingPage) BeforeInit() error { return errCrash }

// BadTagPage has a malformed locator.
type BadTagPage struct {
	web.Page `uri:"/home" baseUrl:"http://x"`

	Broken *element.Element `find:"nonsense"`
}

// WrongTypePage puts a locator on a field that cannot hold an element.
type WrongTypePage struct {
	web.Page `uri:"/home" baseUrl:"http://x"`

	Count int `find:"id=count"`
}

// SearchFlow is a logic object over the home page.
type SearchFlow struct {
	web.Logic

	Query *element.Element `find:"name=q"`
	Go    *element.Element `find:"id=go"`
}

func (s *SearchFlow) Search(q string) error {
	if err := s.Query.SetValue(q); err != nil {
		return err
	}
	return s.Go.Click()
}

// BarePage declares no location at all.
type BarePage struct {
	web.Page
}

var nowhere = locate.ID("nowhere")

// CollapsedMenu only counts as present when expanded, which the home page
// menu never is.
type CollapsedMenu struct {
	web.Module

	setup int
}

func (m *CollapsedMenu) IsPresent() bool {
	return m.Module.IsPresent() && m.Has(locate.CSS(".expanded"))
}

func (m *CollapsedMenu) Setup() error {
	m.setup++
	return nil
}

// CollapsedMenuPage binds the home page menu as an optional CollapsedMenu.
type CollapsedMenuPage struct {
	web.Page `uri:"/home" baseUrl:"http://x"`

	Menu web.Lazy[*CollapsedMenu] `find:"id=menu" optional:"true"`
}

// TitleCheckPage reads the title during setup.
type TitleCheckPage struct {
	web.Page `uri:"/home" baseUrl:"http://x"`

	Title *element.Element `find:"id=title"`
}

func (p *TitleCheckPage) Setup() error {
	_, err := p.Title.Text()
	return err
}

var errBrokenListener = errors.New("broken listener")

// failingOn registers a listener failing with errBrokenListener on kind
// only.
func failingOn(t *testing.T, b *web.Browser, kind event.Kind) {
	t.Helper()
	reg := b.Listen(event.Func(func(*event.Event) error { return errBrokenListener }))
	require.NoError(t, reg.Enable(kind))
}
