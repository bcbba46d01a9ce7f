package event

import (
	"fmt"

	"github.com/gobwas/glob"
)

type filterMode int

const (
	allowAll filterMode = iota
	allowOnly
	denyListed
)

// Filter restricts the kinds a listener receives. It is either
// unrestricted, an allow-set or a deny-set; setting one clears the other.
// Patterns are kind names or globs over kind names, e.g. "Before*".
type Filter struct {
	mode     filterMode
	patterns []glob.Glob
}

// Enable restricts delivery to the matching kinds and clears any deny-set.
func (f *Filter) Enable(patterns ...Kind) error {
	compiled, err := compile(patterns)
	if err != nil {
		return err
	}
	f.mode = allowOnly
	f.patterns = compiled
	return nil
}

// Disable blocks the matching kinds and clears any allow-set.
func (f *Filter) Disable(patterns ...Kind) error {
	compiled, err := compile(patterns)
	if err != nil {
		return err
	}
	f.mode = denyListed
	f.patterns = compiled
	return nil
}

// EnableAll removes every restriction.
func (f *Filter) EnableAll() {
	f.mode = allowAll
	f.patterns = nil
}

// Allows reports whether events of kind pass the filter.
func (f *Filter) Allows(kind Kind) bool {
	switch f.mode {
	case allowOnly:
		return f.matches(kind)
	case denyListed:
		return !f.matches(kind)
	default:
		return true
	}
}

// Restricted reports whether an allow-set or deny-set is active.
func (f *Filter) Restricted() bool {
	return f.mode != allowAll
}

func (f *Filter) matches(kind Kind) bool {
	for _, g := range f.patterns {
		if g.Match(string(kind)) {
			return true
		}
	}
	return false
}

func compile(patterns []Kind) ([]glob.Glob, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(string(p))
		if err != nil {
			return nil, fmt.Errorf("invalid event pattern '%s': %w", p, err)
		}
		compiled = append(compiled, g)
	}
	return compiled, nil
}
