package driver

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
)

// Default values for launching a browser
const (
	DefaultTimeout        = 30000.0 // 30 seconds in milliseconds
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
)

// LaunchOptions configures a new Playwright browser session.
type LaunchOptions struct {
	// Browser selects the engine: "chromium" (default), "firefox" or "webkit"
	Browser string

	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Install downloads the browser binaries before launching
	Install bool

	// Viewport sets the initial viewport size, zero means default
	Width  int
	Height int

	// Timeout sets the default timeout for operations (in milliseconds)
	Timeout float64
}

// Playwright is a Driver backed by one Playwright browser, context and page.
type Playwright struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	id      string
}

// Launch starts Playwright and opens a new browser session.
func Launch(opts LaunchOptions) (*Playwright, error) {
	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}
	if opts.Browser != "" {
		runOpts.Browsers = []string{opts.Browser}
	}

	if opts.Install {
		if err := playwright.Install(runOpts); err != nil {
			return nil, fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	var browserType playwright.BrowserType
	switch opts.Browser {
	case "", "chromium", "chrome":
		browserType = pw.Chromium
	case "firefox":
		browserType = pw.Firefox
	case "webkit":
		browserType = pw.WebKit
	default:
		_ = pw.Stop()
		return nil, fmt.Errorf("unsupported browser %q", opts.Browser)
	}

	if opts.Width == 0 || opts.Height == 0 {
		opts.Width, opts.Height = DefaultViewportWidth, DefaultViewportHeight
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	browser, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: &opts.Headless,
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.Width,
			Height: opts.Height,
		},
	})
	if err != nil {
		browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(opts.Timeout)

	return &Playwright{
		pw:      pw,
		browser: browser,
		context: context,
		page:    page,
		id:      uuid.New().String(),
	}, nil
}

// FindElements runs the locator against the whole document.
func (p *Playwright) FindElements(by By) ([]Handle, error) {
	sel, err := selector(by)
	if err != nil {
		return nil, err
	}
	found, err := p.page.QuerySelectorAll(sel)
	if err != nil {
		return nil, fmt.Errorf("query %s failed: %w", by, err)
	}
	return wrapHandles(found), nil
}

// Navigate navigates the page to the specified URL.
func (p *Playwright) Navigate(url string) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	})
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// CurrentURL returns the URL of the current document.
func (p *Playwright) CurrentURL() (string, error) {
	return p.page.URL(), nil
}

// Title returns the page title.
func (p *Playwright) Title() (string, error) {
	return p.page.Title()
}

// ExecuteScript evaluates script in the page. A single argument is passed
// as is, several are passed as an array.
func (p *Playwright) ExecuteScript(script string, args ...any) (any, error) {
	switch len(args) {
	case 0:
		return p.page.Evaluate(script)
	case 1:
		return p.page.Evaluate(script, args[0])
	default:
		return p.page.Evaluate(script, args)
	}
}

// Screenshot captures the viewport.
func (p *Playwright) Screenshot() ([]byte, error) {
	return p.page.Screenshot()
}

// PageSource returns the serialized document.
func (p *Playwright) PageSource() (string, error) {
	return p.page.Content()
}

// SessionID returns the identifier generated at launch.
func (p *Playwright) SessionID() string {
	return p.id
}

// Quit closes the page, context and browser, then stops Playwright.
func (p *Playwright) Quit() error {
	var errs []error
	if err := p.page.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := p.context.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := p.browser.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := p.pw.Stop(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing session %s: %v", p.id, errs)
	}
	return nil
}

type playwrightHandle struct {
	el playwright.ElementHandle
}

func wrapHandles(found []playwright.ElementHandle) []Handle {
	handles := make([]Handle, 0, len(found))
	for _, el := range found {
		handles = append(handles, &playwrightHandle{el: el})
	}
	return handles
}

func (h *playwrightHandle) FindElements(by By) ([]Handle, error) {
	sel, err := selector(by)
	if err != nil {
		return nil, err
	}
	found, err := h.el.QuerySelectorAll(sel)
	if err != nil {
		return nil, fmt.Errorf("query %s failed: %w", by, err)
	}
	return wrapHandles(found), nil
}

func (h *playwrightHandle) Click() error {
	if err := h.el.Click(); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

func (h *playwrightHandle) Text() (string, error) {
	return h.el.InnerText()
}

func (h *playwrightHandle) Attribute(name string) (string, error) {
	return h.el.GetAttribute(name)
}

func (h *playwrightHandle) Type(text string) error {
	if err := h.el.Type(text); err != nil {
		return fmt.Errorf("type failed: %w", err)
	}
	return nil
}

func (h *playwrightHandle) Clear() error {
	if err := h.el.Fill(""); err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}
	return nil
}

func (h *playwrightHandle) Submit() error {
	_, err := h.el.Evaluate(`el => el.form ? el.form.requestSubmit() : el.click()`)
	if err != nil {
		return fmt.Errorf("submit failed: %w", err)
	}
	return nil
}

func (h *playwrightHandle) TagName() (string, error) {
	v, err := h.el.Evaluate(`el => el.tagName.toLowerCase()`)
	if err != nil {
		return "", err
	}
	tag, _ := v.(string)
	return tag, nil
}

func (h *playwrightHandle) IsDisplayed() (bool, error) {
	return h.el.IsVisible()
}

func (h *playwrightHandle) IsEnabled() (bool, error) {
	return h.el.IsEnabled()
}

// selector translates a locator into a Playwright selector.
func selector(by By) (string, error) {
	switch by.Strategy {
	case ByID:
		return "[id=" + strconv.Quote(by.Value) + "]", nil
	case ByName:
		return "[name=" + strconv.Quote(by.Value) + "]", nil
	case ByClass:
		return "[class~=" + strconv.Quote(by.Value) + "]", nil
	case ByCSS, ByTag:
		return "css=" + by.Value, nil
	case ByXPath:
		return "xpath=" + by.Value, nil
	case ByLinkText:
		return "a:text-is(" + strconv.Quote(by.Value) + ")", nil
	case ByPartialLinkText:
		return "a:has-text(" + strconv.Quote(by.Value) + ")", nil
	default:
		return "", fmt.Errorf("unsupported locator strategy %q", strings.TrimSpace(string(by.Strategy)))
	}
}
