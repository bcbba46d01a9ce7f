package drivertest

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/entrhq/pagekit/pkg/driver"
)

// query returns the elements below scope matched by by, in document order.
// CSS selectors and XPath expressions see the whole document, as in a
// browser, but scope itself is never part of the result.
func query(scope *html.Node, by driver.By) ([]*html.Node, error) {
	switch by.Strategy {
	case driver.ByCSS:
		sel, err := compileCSS(by.Value)
		if err != nil {
			return nil, err
		}
		return below(scope, sel.MatchAll(scope)), nil
	case driver.ByXPath:
		found, err := htmlquery.QueryAll(scope, by.Value)
		if err != nil {
			return nil, fmt.Errorf("drivertest: invalid xpath %q: %w", by.Value, err)
		}
		return below(scope, found), nil
	}

	match, err := matcher(by)
	if err != nil {
		return nil, err
	}
	return collect(scope, match), nil
}

func compileCSS(css string) (cascadia.Selector, error) {
	sel, err := cascadia.Compile(css)
	if err != nil {
		return nil, fmt.Errorf("drivertest: invalid css %q: %w", css, err)
	}
	return sel, nil
}

func matcher(by driver.By) (func(*html.Node) bool, error) {
	isElement := func(n *html.Node) bool { return n.Type == html.ElementNode }
	switch by.Strategy {
	case driver.ByID:
		return func(n *html.Node) bool { return isElement(n) && attr(n, "id") == by.Value }, nil
	case driver.ByName:
		return func(n *html.Node) bool { return isElement(n) && attr(n, "name") == by.Value }, nil
	case driver.ByClass:
		return func(n *html.Node) bool { return isElement(n) && hasClass(n, by.Value) }, nil
	case driver.ByTag:
		tag := strings.ToLower(by.Value)
		return func(n *html.Node) bool { return isElement(n) && n.Data == tag }, nil
	case driver.ByLinkText:
		return func(n *html.Node) bool { return isElement(n) && n.Data == "a" && textOf(n) == by.Value }, nil
	case driver.ByPartialLinkText:
		return func(n *html.Node) bool {
			return isElement(n) && n.Data == "a" && strings.Contains(textOf(n), by.Value)
		}, nil
	default:
		return nil, fmt.Errorf("drivertest: locator strategy %q is not supported", by.Strategy)
	}
}

// below keeps the element nodes of found that are strict descendants of
// scope.
func below(scope *html.Node, found []*html.Node) []*html.Node {
	out := make([]*html.Node, 0, len(found))
	for _, n := range found {
		if n.Type == html.ElementNode && n != scope && contains(scope, n) {
			out = append(out, n)
		}
	}
	return out
}

func contains(ancestor, n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

// collect returns the descendants of root accepted by match, in document
// order. root itself is never included.
func collect(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if match(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(root)
	return out
}

func attr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, value string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

func hasClass(n *html.Node, cls string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == cls {
			return true
		}
	}
	return false
}

// textOf returns the text content with whitespace collapsed.
func textOf(n *html.Node) string {
	return strings.Join(strings.Fields(htmlquery.InnerText(n)), " ")
}
