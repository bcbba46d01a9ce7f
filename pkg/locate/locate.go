// Package locate composes driver locator strategies into the locators used
// by page objects: single strategies, chains, any-of groups, the id-or-name
// default and indexed access.
package locate

import (
	"fmt"
	"strings"

	"github.com/entrhq/pagekit/pkg/driver"
)

// Locator finds elements below a search root.
type Locator interface {
	// FindAll returns every match in document order.
	FindAll(root driver.Searcher) ([]driver.Handle, error)

	// String describes the locator for diagnostics and events.
	String() string
}

// Single wraps one driver strategy.
type Single driver.By

// By returns a locator for one strategy.
func By(strategy driver.Strategy, value string) Single {
	return Single{Strategy: strategy, Value: value}
}

// ID locates by id attribute.
func ID(v string) Single { return By(driver.ByID, v) }

// Name locates by name attribute.
func Name(v string) Single { return By(driver.ByName, v) }

// CSS locates by CSS selector.
func CSS(v string) Single { return By(driver.ByCSS, v) }

// XPath locates by XPath expression.
func XPath(v string) Single { return By(driver.ByXPath, v) }

// Class locates by class name.
func Class(v string) Single { return By(driver.ByClass, v) }

// Tag locates by tag name.
func Tag(v string) Single { return By(driver.ByTag, v) }

// LinkText locates anchors by exact text.
func LinkText(v string) Single { return By(driver.ByLinkText, v) }

// PartialLinkText locates anchors containing the text.
func PartialLinkText(v string) Single { return By(driver.ByPartialLinkText, v) }

func (s Single) FindAll(root driver.Searcher) ([]driver.Handle, error) {
	return root.FindElements(driver.By(s))
}

func (s Single) String() string {
	return driver.By(s).String()
}

// Chain searches each locator within the matches of the previous one, like
// a nested path through the document.
type Chain []Locator

// Chained returns a chain locator.
func Chained(locs ...Locator) Chain { return Chain(locs) }

func (c Chain) FindAll(root driver.Searcher) ([]driver.Handle, error) {
	if len(c) == 0 {
		return nil, nil
	}
	current, err := c[0].FindAll(root)
	if err != nil {
		return nil, err
	}
	for _, loc := range c[1:] {
		var next []driver.Handle
		for _, h := range current {
			found, err := loc.FindAll(h)
			if err != nil {
				return nil, err
			}
			next = appendUnique(next, found)
		}
		current = next
		if len(current) == 0 {
			break
		}
	}
	return current, nil
}

func (c Chain) String() string {
	return "chain(" + join(c) + ")"
}

// Any matches everything any of its locators matches, in locator order,
// without duplicates.
type Any []Locator

// AnyOf returns an any-of locator.
func AnyOf(locs ...Locator) Any { return Any(locs) }

func (a Any) FindAll(root driver.Searcher) ([]driver.Handle, error) {
	var all []driver.Handle
	for _, loc := range a {
		found, err := loc.FindAll(root)
		if err != nil {
			return nil, err
		}
		all = appendUnique(all, found)
	}
	return all, nil
}

func (a Any) String() string {
	return "any(" + join(a) + ")"
}

// IDOrName matches by id first and falls back to name. It is the default
// locator of a declared field without a locator tag.
type IDOrName string

func (v IDOrName) FindAll(root driver.Searcher) ([]driver.Handle, error) {
	found, err := ID(string(v)).FindAll(root)
	if err != nil || len(found) > 0 {
		return found, err
	}
	return Name(string(v)).FindAll(root)
}

func (v IDOrName) String() string {
	return "id-or-name=" + string(v)
}

// Indexed selects the i-th match of its parent locator.
type Indexed struct {
	Of    Locator
	Index int
}

// Index returns a locator for the i-th match of loc.
func Index(loc Locator, i int) Indexed {
	return Indexed{Of: loc, Index: i}
}

func (x Indexed) FindAll(root driver.Searcher) ([]driver.Handle, error) {
	found, err := x.Of.FindAll(root)
	if err != nil {
		return nil, err
	}
	if x.Index < 0 || x.Index >= len(found) {
		return nil, nil
	}
	return found[x.Index : x.Index+1], nil
}

func (x Indexed) String() string {
	return fmt.Sprintf("%s[%d]", x.Of, x.Index)
}

// appendUnique appends handles not already present. Handles are compared
// by identity, which is enough for drivers returning one handle value per
// node and harmless for the others.
func appendUnique(dst, src []driver.Handle) []driver.Handle {
	for _, h := range src {
		dup := false
		for _, existing := range dst {
			if sameHandle(existing, h) {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, h)
		}
	}
	return dst
}

// Identifiable handles expose a stable identity for de-duplication.
type Identifiable interface {
	Same(other driver.Handle) bool
}

func sameHandle(a, b driver.Handle) bool {
	if id, ok := a.(Identifiable); ok {
		return id.Same(b)
	}
	return a == b
}

func join(locs []Locator) string {
	parts := make([]string, len(locs))
	for i, l := range locs {
		parts[i] = l.String()
	}
	return strings.Join(parts, "; ")
}
