package element

import (
	"github.com/entrhq/pagekit/pkg/locate"
)

// List is the element binding of a list field. It never caches matches:
// Size looks up again on every call and Get wraps the index in a new
// proxy, so a list never goes stale when the document changes.
type List struct {
	root Root
	loc  locate.Locator
	opts Options
}

// NewList creates a list of every match of loc under root.
func NewList(root Root, loc locate.Locator, opts Options) *List {
	return &List{root: root, loc: loc, opts: opts}
}

// Locator returns the list locator.
func (l *List) Locator() locate.Locator { return l.loc }

func (l *List) String() string { return l.loc.String() }

// Size returns the current number of matches. It does not wait.
func (l *List) Size() (int, error) {
	root, err := l.root()
	if err != nil {
		return 0, err
	}
	found, err := l.loc.FindAll(root)
	if err != nil {
		return 0, err
	}
	return len(found), nil
}

// IsEmpty reports whether nothing matches right now.
func (l *List) IsEmpty() (bool, error) {
	n, err := l.Size()
	return n == 0, err
}

// Get returns a proxy for the i-th match. The index is resolved when the
// proxy is used, not when Get is called.
func (l *List) Get(i int) *Element {
	return New(l.root, locate.Index(l.loc, i), l.opts)
}

// All returns one proxy per current match.
func (l *List) All() ([]*Element, error) {
	n, err := l.Size()
	if err != nil {
		return nil, err
	}
	elems := make([]*Element, n)
	for i := range elems {
		elems[i] = l.Get(i)
	}
	return elems, nil
}

// Texts returns the text of every current match.
func (l *List) Texts() ([]string, error) {
	elems, err := l.All()
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(elems))
	for _, e := range elems {
		t, err := e.Text()
		if err != nil {
			return nil, err
		}
		texts = append(texts, t)
	}
	return texts, nil
}
