package web

import (
	"errors"
	"fmt"
	"strings"

	"github.com/entrhq/pagekit/pkg/errs"
)

// Maybe holds a value or nothing. It is returned by the safe variants,
// which turn automation errors into an empty result.
type Maybe[T any] struct {
	value T
	ok    bool
}

// Some returns a Maybe holding v.
func Some[T any](v T) Maybe[T] { return Maybe[T]{value: v, ok: true} }

// None returns an empty Maybe.
func None[T any]() Maybe[T] { return Maybe[T]{} }

// Get returns the value and whether there is one.
func (m Maybe[T]) Get() (T, bool) { return m.value, m.ok }

// Present reports whether there is a value.
func (m Maybe[T]) Present() bool { return m.ok }

// OrElse returns the value, or def when empty.
func (m Maybe[T]) OrElse(def T) T {
	if m.ok {
		return m.value
	}
	return def
}

// OrError returns the value, or err when empty.
func (m Maybe[T]) OrError(err error) (T, error) {
	if m.ok {
		return m.value, nil
	}
	return m.value, err
}

// safely maps an automation error to None. Errors outside the family are
// returned, and so are listener failures even when joined with an
// automation error.
func safely[T any](v T, err error) (Maybe[T], error) {
	switch {
	case err == nil:
		return Some(v), nil
	case swallowable(err):
		return None[T](), nil
	default:
		return None[T](), err
	}
}

func swallowable(err error) bool {
	return errs.IsAutomation(err) && !errs.IsListener(err)
}

// TryOpen is Open returning an empty result instead of automation errors.
func TryOpen[T PageObject](b *Browser, opts ...PageOption) (Maybe[T], error) {
	return safely[T](Open[T](b, opts...))
}

// TryInit is Init returning an empty result instead of automation errors.
func TryInit[T PageObject](b *Browser, opts ...PageOption) (Maybe[T], error) {
	return safely[T](Init[T](b, opts...))
}

// PageSpec names a page type for InitOnePage and OpenOnePage.
type PageSpec interface {
	fmt.Stringer
	open(b *Browser, navigate bool) (PageObject, error)
}

type pageSpec[T PageObject] struct {
	opts []PageOption
}

// PageOf returns the spec of page type T, initialized with opts.
func PageOf[T PageObject](opts ...PageOption) PageSpec {
	return pageSpec[T]{opts: opts}
}

func (s pageSpec[T]) String() string { return typeName[T]() }

func (s pageSpec[T]) open(b *Browser, navigate bool) (PageObject, error) {
	return openPage[T](b, navigate, s.opts)
}

// InitOnePage initializes the first candidate that succeeds on the
// document currently shown, trying them in order. It is empty when every
// candidate fails with an automation error.
func InitOnePage(b *Browser, candidates ...PageSpec) (Maybe[PageObject], error) {
	return onePage(b, false, candidates)
}

// OpenOnePage is InitOnePage navigating to each candidate first.
func OpenOnePage(b *Browser, candidates ...PageSpec) (Maybe[PageObject], error) {
	return onePage(b, true, candidates)
}

func onePage(b *Browser, navigate bool, candidates []PageSpec) (Maybe[PageObject], error) {
	var failures []string
	for _, spec := range candidates {
		p, err := spec.open(b, navigate)
		if err == nil {
			return Some(p), nil
		}
		if !swallowable(err) {
			return None[PageObject](), err
		}
		failures = append(failures, spec.String()+": "+err.Error())
	}
	if len(failures) > 0 {
		b.log.Debugf("no page matched: %s", strings.Join(failures, "; "))
	}
	return None[PageObject](), nil
}

// MustOne is the throwing adapter of InitOnePage: it returns NotFound
// naming every candidate when none matched.
func MustOne(b *Browser, candidates ...PageSpec) (PageObject, error) {
	m, err := InitOnePage(b, candidates...)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.String()
	}
	return m.OrError(errs.NotFound("one of "+strings.Join(names, ", "), errNoCandidate))
}

var errNoCandidate = errors.New("no candidate page initialized")
