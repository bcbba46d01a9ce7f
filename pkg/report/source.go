package report

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// CleanedSource is a page source reduced to what helps locating elements.
type CleanedSource struct {
	HTML      string
	Title     string
	Truncated bool
}

var (
	droppedTags = map[string]bool{
		"script": true, "style": true, "noscript": true, "template": true,
		"svg": true, "iframe": true, "object": true, "embed": true,
	}
	blockTags = map[string]bool{
		"html": true, "head": true, "body": true, "div": true, "p": true,
		"section": true, "article": true, "header": true, "footer": true,
		"nav": true, "main": true, "aside": true, "form": true, "fieldset": true,
		"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
		"ul": true, "ol": true, "li": true, "table": true, "thead": true,
		"tbody": true, "tr": true, "td": true, "th": true, "pre": true,
	}
	voidTags = map[string]bool{
		"area": true, "base": true, "br": true, "col": true, "hr": true,
		"img": true, "input": true, "link": true, "meta": true, "source": true,
		"track": true, "wbr": true,
	}
	// locatorAttrs are the attributes locator strategies and readers rely on.
	locatorAttrs = map[string]bool{
		"id": true, "name": true, "class": true, "role": true, "type": true,
		"href": true, "value": true, "placeholder": true, "for": true,
		"alt": true, "title": true, "aria-label": true, "disabled": true,
		"action": true, "method": true,
	}
)

// CleanSource parses src and rewrites it without scripts, styles,
// comments and attributes no locator uses, one block element per line.
// Output stops once maxLength bytes of markup have been written.
func CleanSource(src string, maxLength int) (*CleanedSource, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page source: %w", err)
	}
	c := &cleaner{max: maxLength}
	c.walk(doc, 0)
	return &CleanedSource{
		HTML:      strings.TrimLeft(c.out.String(), "\n"),
		Title:     titleOf(doc),
		Truncated: c.truncated,
	}, nil
}

type cleaner struct {
	out       strings.Builder
	max       int
	truncated bool
}

func (c *cleaner) full() bool {
	if c.out.Len() >= c.max {
		c.truncated = true
	}
	return c.truncated
}

func (c *cleaner) walk(n *html.Node, depth int) {
	if c.full() {
		return
	}
	switch n.Type {
	case html.CommentNode, html.DoctypeNode:
		return
	case html.TextNode:
		c.text(n.Data)
		return
	case html.ElementNode:
		c.element(n, depth)
		return
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.walk(child, depth)
	}
}

func (c *cleaner) text(data string) {
	text := strings.Join(strings.Fields(data), " ")
	if text == "" {
		return
	}
	if room := c.max - c.out.Len(); len(text) > room {
		c.out.WriteString(text[:max(room, 0)])
		c.out.WriteString("...")
		c.truncated = true
		return
	}
	c.out.WriteString(html.EscapeString(text))
}

func (c *cleaner) element(n *html.Node, depth int) {
	tag := strings.ToLower(n.Data)
	if droppedTags[tag] {
		return
	}
	block := blockTags[tag]
	if block {
		c.newline(depth)
	}

	c.out.WriteString("<" + tag)
	for _, a := range n.Attr {
		key := strings.ToLower(a.Key)
		if locatorAttrs[key] || strings.HasPrefix(key, "data-") {
			fmt.Fprintf(&c.out, ` %s="%s"`, key, html.EscapeString(a.Val))
		}
	}
	c.out.WriteString(">")
	if voidTags[tag] {
		return
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.walk(child, depth+1)
	}
	if block && n.LastChild != nil && n.LastChild.Type == html.ElementNode {
		c.newline(depth)
	}
	c.out.WriteString("</" + tag + ">")
}

func (c *cleaner) newline(depth int) {
	c.out.WriteString("\n")
	c.out.WriteString(strings.Repeat("  ", depth))
}

func titleOf(doc *html.Node) string {
	var find func(*html.Node) string
	find = func(n *html.Node) string {
		if n.Type == html.ElementNode && n.Data == "title" {
			var b strings.Builder
			for t := n.FirstChild; t != nil; t = t.NextSibling {
				if t.Type == html.TextNode {
					b.WriteString(t.Data)
				}
			}
			return strings.TrimSpace(b.String())
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if title := find(child); title != "" {
				return title
			}
		}
		return ""
	}
	return find(doc)
}
