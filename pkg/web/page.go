package web

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/entrhq/pagekit/pkg/errs"
)

// Page is embedded by page objects. Struct tags on the embedded field
// declare the page descriptor:
//
//	web.Page `uri:"/home" baseUrl:"http://x" verifyUrl:"true"`
//
// Recognized keys are uri, baseUrl, verifyUrl, regex, timeout, poll and
// preinitDelay.
type Page struct {
	Context
	Hooks

	desc Descriptor
}

// PageObject is a struct pointer embedding Page.
type PageObject interface {
	Lifecycle
	page() *Page
}

func (p *Page) page() *Page { return p }

// Descriptor returns the resolved page descriptor.
func (p *Page) Descriptor() Descriptor { return p.desc }

// URL returns the current URL of the browser.
func (p *Page) URL() (string, error) { return p.Driver().CurrentURL() }

// Title returns the document title.
func (p *Page) Title() (string, error) { return p.Driver().Title() }

// verifyLocation matches the current URL against the descriptor regex.
// It passes when verification is off or no regex could be resolved.
func (p *Page) verifyLocation() error {
	if !p.desc.Verify || p.desc.Regex == "" {
		return nil
	}
	re, err := regexp.Compile(p.desc.Regex)
	if err != nil {
		return fmt.Errorf("invalid url regex %q: %w", p.desc.Regex, err)
	}
	url, err := p.URL()
	if err != nil {
		return err
	}
	if !re.MatchString(url) {
		return fmt.Errorf("current url %s does not match %s", url, p.desc.Regex)
	}
	return nil
}

// Descriptor is the resolved location and timing of a page.
type Descriptor struct {
	URI     string
	BaseURL string

	// Verify enables the URL check.
	Verify bool

	// Regex is matched against the current URL during verification.
	Regex string

	// Timeout and PollInterval are the implicit wait of the page's
	// elements.
	Timeout      time.Duration
	PollInterval time.Duration

	// PreInitDelay is slept after navigation.
	PreInitDelay time.Duration
}

// URL joins the base URL and the URI. An absolute URI is returned as is.
func (d Descriptor) URL() string {
	switch {
	case d.URI == "":
		return d.BaseURL
	case d.BaseURL == "" || strings.Contains(d.URI, "://"):
		return d.URI
	default:
		return strings.TrimRight(d.BaseURL, "/") + "/" + strings.TrimLeft(d.URI, "/")
	}
}

// PageOption overrides part of a page descriptor.
type PageOption func(*pageOptions)

type pageOptions struct {
	url          string
	uri          *string
	baseURL      *string
	regex        *string
	verify       *bool
	timeout      *time.Duration
	poll         *time.Duration
	preInitDelay *time.Duration
}

// WithURL opens url instead of the descriptor URL. Verification still
// uses the descriptor.
func WithURL(url string) PageOption {
	return func(o *pageOptions) { o.url = url }
}

// WithURI overrides the page URI.
func WithURI(uri string) PageOption {
	return func(o *pageOptions) { o.uri = &uri }
}

// WithBaseURL overrides the base URL.
func WithBaseURL(base string) PageOption {
	return func(o *pageOptions) { o.baseURL = &base }
}

// WithRegex overrides the verification regex.
func WithRegex(regex string) PageOption {
	return func(o *pageOptions) { o.regex = &regex }
}

// WithVerify turns URL verification on or off.
func WithVerify(verify bool) PageOption {
	return func(o *pageOptions) { o.verify = &verify }
}

// WithTimeout overrides the implicit wait timeout of the page.
func WithTimeout(d time.Duration) PageOption {
	return func(o *pageOptions) { o.timeout = &d }
}

// WithPollInterval overrides the poll interval of the page.
func WithPollInterval(d time.Duration) PageOption {
	return func(o *pageOptions) { o.poll = &d }
}

// WithPreInitDelay overrides the delay slept after navigation.
func WithPreInitDelay(d time.Duration) PageOption {
	return func(o *pageOptions) { o.preInitDelay = &d }
}

func (o *pageOptions) apply(d *Descriptor) {
	if o.uri != nil {
		d.URI = *o.uri
	}
	if o.baseURL != nil {
		d.BaseURL = *o.baseURL
	}
	if o.regex != nil {
		d.Regex = *o.regex
	}
	if o.verify != nil {
		d.Verify = *o.verify
	}
	if o.timeout != nil {
		d.Timeout = *o.timeout
	}
	if o.poll != nil {
		d.PollInterval = *o.poll
	}
	if o.preInitDelay != nil {
		d.PreInitDelay = *o.preInitDelay
	}
}

// resolveDescriptor layers explicit options over tags over the browser
// settings. The regex follows the same precedence, and is derived from
// the page URL when none is given anywhere.
func resolveDescriptor(b *Browser, tags *pageOptions, opts []PageOption) (Descriptor, string) {
	s := b.settings
	d := Descriptor{
		BaseURL:      s.BaseURL,
		Verify:       s.VerifyURL,
		Regex:        s.URLRegex,
		Timeout:      s.Timeout,
		PollInterval: s.PollInterval,
		PreInitDelay: s.PreInitDelay,
	}
	if tags != nil {
		tags.apply(&d)
	}
	explicit := &pageOptions{}
	for _, opt := range opts {
		opt(explicit)
	}
	explicit.apply(&d)

	if d.Regex == "" {
		if url := d.URL(); url != "" {
			d.Regex = "^" + regexp.QuoteMeta(url)
		}
	}

	target := explicit.url
	if target == "" {
		target = d.URL()
	}
	return d, target
}

var errNoURL = errors.New("page has no url to open")

// newPage constructs T below the browser with its descriptor resolved.
func newPage[T PageObject](b *Browser, opts []PageOption) (T, string, error) {
	obj, err := construct[T](&b.Context, rootOf(b.driver))
	if err != nil {
		return obj, "", err
	}
	plan, err := planFor(reflect.TypeOf(obj))
	if err != nil {
		return obj, "", obj.node().fail(err)
	}

	desc, target := resolveDescriptor(b, plan.page, opts)
	p := obj.page()
	p.desc = desc
	p.poller.Timeout = desc.Timeout
	p.poller.Interval = desc.PollInterval
	return obj, target, nil
}

// Open navigates to the page URL, sleeps the pre-init delay and runs the
// lifecycle of a new T. On success the page is the browser's current
// page.
func Open[T PageObject](b *Browser, opts ...PageOption) (T, error) {
	return openPage[T](b, true, opts)
}

// Init runs the lifecycle of a new T on the document currently shown,
// without navigating.
func Init[T PageObject](b *Browser, opts ...PageOption) (T, error) {
	return openPage[T](b, false, opts)
}

func openPage[T PageObject](b *Browser, navigate bool, opts []PageOption) (T, error) {
	obj, target, err := newPage[T](b, opts)
	if err != nil {
		return obj, err
	}
	if navigate {
		if err := navigateTo(obj, target); err != nil {
			return obj, err
		}
	}
	err = runLifecycle(obj, func() error { return b.activate(obj) })
	return obj, err
}

// navigateTo is the pre-lifecycle phase of Open. Failures are published
// like lifecycle failures.
func navigateTo(obj PageObject, target string) error {
	c := obj.node()
	b := c.browser
	err := func() error {
		if target == "" {
			return errs.ConstructFailed(c.typ, errNoURL)
		}
		b.log.Infof("open %s at %s", c.label, target)
		if err := b.driver.Navigate(target); err != nil {
			return err
		}
		if delay := obj.page().desc.PreInitDelay; delay > 0 {
			b.clock.Sleep(delay)
		}
		return nil
	}()
	if err != nil {
		return c.fail(err)
	}
	return nil
}
