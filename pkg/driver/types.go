package driver

import (
	"fmt"
	"strings"
)

// Strategy names a single way of locating elements.
type Strategy string

const (
	// ByID matches the element id attribute
	ByID Strategy = "id"

	// ByName matches the element name attribute
	ByName Strategy = "name"

	// ByCSS matches a CSS selector
	ByCSS Strategy = "css"

	// ByXPath matches an XPath expression
	ByXPath Strategy = "xpath"

	// ByClass matches a single class name
	ByClass Strategy = "class"

	// ByTag matches the tag name
	ByTag Strategy = "tag"

	// ByLinkText matches anchors whose visible text equals the value
	ByLinkText Strategy = "link"

	// ByPartialLinkText matches anchors whose visible text contains the value
	ByPartialLinkText Strategy = "partial-link"
)

// Strategies lists every supported strategy in declaration order.
var Strategies = []Strategy{ByID, ByName, ByCSS, ByXPath, ByClass, ByTag, ByLinkText, ByPartialLinkText}

// By is one strategy and its value.
type By struct {
	Strategy Strategy
	Value    string
}

// String renders the locator as "strategy=value".
func (b By) String() string {
	return string(b.Strategy) + "=" + b.Value
}

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, known := range Strategies {
		if string(known) == s {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown locator strategy %q", s)
}

// Searcher is anything elements can be looked up from: the driver itself
// or an element handle acting as search root.
type Searcher interface {
	// FindElements returns every match in document order. No match is an
	// empty slice and a nil error.
	FindElements(by By) ([]Handle, error)
}

// Handle is a raw, already resolved remote element.
type Handle interface {
	Searcher

	// Click clicks the element
	Click() error

	// Text returns the visible text
	Text() (string, error)

	// Attribute returns the named attribute, or "" when absent
	Attribute(name string) (string, error)

	// Type types text into the element
	Type(text string) error

	// Clear clears an input value
	Clear() error

	// Submit submits the form the element belongs to
	Submit() error

	// TagName returns the lower-case tag name
	TagName() (string, error)

	// IsDisplayed reports visibility
	IsDisplayed() (bool, error)

	// IsEnabled reports whether the element accepts interaction
	IsEnabled() (bool, error)
}

// Driver is one browser session.
type Driver interface {
	Searcher

	// Navigate loads the URL in the current tab
	Navigate(url string) error

	// CurrentURL returns the URL of the current document
	CurrentURL() (string, error)

	// Title returns the document title
	Title() (string, error)

	// ExecuteScript evaluates a script in the page
	ExecuteScript(script string, args ...any) (any, error)

	// Screenshot captures the viewport as PNG
	Screenshot() ([]byte, error)

	// PageSource returns the serialized DOM
	PageSource() (string, error)

	// SessionID identifies the session in diagnostics
	SessionID() string

	// Quit ends the session and releases the browser
	Quit() error
}
