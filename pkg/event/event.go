package event

import (
	"strings"
	"time"
)

// prefixTimeLayout is the timestamp part of file name prefixes.
const prefixTimeLayout = "20060102-150405.000"

// Origin identifies the context node an event comes from.
type Origin struct {
	// Label is the human readable name of the node, e.g. "LoginPage".
	Label string

	// Type is the concrete Go type of the node, e.g. "*pages.LoginPage".
	Type string
}

// Payload carries the kind specific data of an event. Fields that do not
// apply to a kind are left zero.
type Payload struct {
	// URL is the navigation target or the current URL.
	URL string

	// Locator describes the element involved.
	Locator string

	// Value is the text typed into an element.
	Value string

	// Script is the script source.
	Script string

	// Subject is the type name of the page or module in lifecycle events.
	Subject string

	// Err is the failure in exception events.
	Err error

	// Elapsed is the duration of the lifecycle or driver call, when known.
	Elapsed time.Duration
}

// Event is an immutable, stamped occurrence. Events are created by
// Bus.Construct and read through their accessors.
type Event struct {
	kind    Kind
	origin  Origin
	at      time.Time
	seq     uint64
	label   string
	prefix  string
	payload Payload
}

// Kind returns the event kind.
func (e *Event) Kind() Kind { return e.kind }

// Origin returns the context node the event comes from.
func (e *Event) Origin() Origin { return e.origin }

// Time returns the construction timestamp.
func (e *Event) Time() time.Time { return e.at }

// Seq returns the bus-wide sequence number, starting at 1.
func (e *Event) Seq() uint64 { return e.seq }

// Label returns the kind name without its "Event" suffix.
func (e *Event) Label() string { return e.label }

// FilePrefix returns the deterministic prefix for artifacts captured on
// this event: timestamp, origin label, origin type and event label.
func (e *Event) FilePrefix() string { return e.prefix }

// URL returns the payload URL.
func (e *Event) URL() string { return e.payload.URL }

// Locator returns the payload locator.
func (e *Event) Locator() string { return e.payload.Locator }

// Value returns the payload value.
func (e *Event) Value() string { return e.payload.Value }

// Script returns the payload script.
func (e *Event) Script() string { return e.payload.Script }

// Subject returns the payload subject type name.
func (e *Event) Subject() string { return e.payload.Subject }

// Err returns the payload error.
func (e *Event) Err() error { return e.payload.Err }

// Elapsed returns the payload duration.
func (e *Event) Elapsed() time.Duration { return e.payload.Elapsed }

// Notify delivers the event to the listener method of its kind.
func (e *Event) Notify(l Listener) error {
	notify, ok := lookupNotifier(e.kind)
	if !ok {
		return nil
	}
	return notify(l, e)
}

func filePrefix(at time.Time, origin Origin, label string) string {
	parts := []string{at.Format(prefixTimeLayout), sanitize(origin.Label), sanitize(origin.Type), label}
	return strings.Join(parts, "_")
}

// sanitize keeps a name safe for file systems.
func sanitize(s string) string {
	s = strings.TrimLeft(s, "*")
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			return r
		default:
			return '_'
		}
	}, s)
}
