package drivertest

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/entrhq/pagekit/pkg/driver"
)

// Handle is an element of a Driver document.
type Handle struct {
	d *Driver
	n *html.Node
}

// attached must be called with d.mu held.
func (h *Handle) attached() error {
	if h.d.quit {
		return ErrQuit
	}
	for p := h.n; p != nil; p = p.Parent {
		if p == h.d.doc {
			return nil
		}
	}
	return ErrStale
}

// FindElements searches the descendants of the element.
func (h *Handle) FindElements(by driver.By) ([]driver.Handle, error) {
	h.d.mu.Lock()
	err := h.attached()
	h.d.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return h.d.find(h.n, by)
}

// Click records the click. Anchors with an href navigate.
func (h *Handle) Click() error {
	h.d.mu.Lock()
	defer h.d.mu.Unlock()
	if err := h.attached(); err != nil {
		return err
	}
	if _, disabled := lookupAttr(h.n, "disabled"); disabled {
		return fmt.Errorf("element %s is disabled", describe(h.n))
	}
	h.d.clicks = append(h.d.clicks, describe(h.n))

	if href, ok := lookupAttr(h.n, "href"); ok && h.n.Data == "a" {
		target, err := resolve(h.d.url, href)
		if err != nil {
			return err
		}
		h.d.navigations = append(h.d.navigations, target)
		h.d.load(target)
	}
	return nil
}

// Text returns the collapsed text content.
func (h *Handle) Text() (string, error) {
	h.d.mu.Lock()
	defer h.d.mu.Unlock()
	if err := h.attached(); err != nil {
		return "", err
	}
	return textOf(h.n), nil
}

// Attribute returns the attribute value, "" when absent.
func (h *Handle) Attribute(name string) (string, error) {
	h.d.mu.Lock()
	defer h.d.mu.Unlock()
	if err := h.attached(); err != nil {
		return "", err
	}
	return attr(h.n, name), nil
}

// Type appends text to the value attribute.
func (h *Handle) Type(text string) error {
	h.d.mu.Lock()
	defer h.d.mu.Unlock()
	if err := h.attached(); err != nil {
		return err
	}
	setAttr(h.n, "value", attr(h.n, "value")+text)
	return nil
}

// Clear empties the value attribute.
func (h *Handle) Clear() error {
	h.d.mu.Lock()
	defer h.d.mu.Unlock()
	if err := h.attached(); err != nil {
		return err
	}
	setAttr(h.n, "value", "")
	return nil
}

// Submit records a submit of the enclosing form.
func (h *Handle) Submit() error {
	h.d.mu.Lock()
	defer h.d.mu.Unlock()
	if err := h.attached(); err != nil {
		return err
	}
	for p := h.n; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == "form" {
			h.d.clicks = append(h.d.clicks, "submit "+describe(p))
			return nil
		}
	}
	return fmt.Errorf("element %s is not inside a form", describe(h.n))
}

// TagName returns the lower-case tag name.
func (h *Handle) TagName() (string, error) {
	h.d.mu.Lock()
	defer h.d.mu.Unlock()
	if err := h.attached(); err != nil {
		return "", err
	}
	return h.n.Data, nil
}

// IsDisplayed is false when the element or an ancestor is hidden.
func (h *Handle) IsDisplayed() (bool, error) {
	h.d.mu.Lock()
	defer h.d.mu.Unlock()
	if err := h.attached(); err != nil {
		return false, err
	}
	for p := h.n; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		if _, hidden := lookupAttr(p, "hidden"); hidden {
			return false, nil
		}
		style := strings.ReplaceAll(attr(p, "style"), " ", "")
		if strings.Contains(style, "display:none") {
			return false, nil
		}
	}
	return true, nil
}

// IsEnabled is false when the element carries a disabled attribute.
func (h *Handle) IsEnabled() (bool, error) {
	h.d.mu.Lock()
	defer h.d.mu.Unlock()
	if err := h.attached(); err != nil {
		return false, err
	}
	_, disabled := lookupAttr(h.n, "disabled")
	return !disabled, nil
}

func describe(n *html.Node) string {
	desc := n.Data
	if id := attr(n, "id"); id != "" {
		desc += "#" + id
	}
	for _, cls := range strings.Fields(attr(n, "class")) {
		desc += "." + cls
	}
	return desc
}

func resolve(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", base, err)
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid href %q: %w", ref, err)
	}
	return b.ResolveReference(r).String(), nil
}

// Same reports whether other refers to the same node.
func (h *Handle) Same(other driver.Handle) bool {
	o, ok := other.(*Handle)
	return ok && o.n == h.n
}
