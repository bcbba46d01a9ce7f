package event

import (
	"sync"
	"time"

	"github.com/entrhq/pagekit/pkg/errs"
)

// Registration is a listener and its filter.
type Registration struct {
	Listener Listener
	Filter
}

// Bus constructs events and dispatches them synchronously, in registration
// order, on the calling goroutine.
//
// Only event construction is guarded. Registering listeners while an event
// is being published is not supported.
type Bus struct {
	mu   sync.Mutex
	seq  uint64
	now  func() time.Time
	regs []*Registration
}

// Option configures a Bus.
type Option func(*Bus)

// WithNow sets the timestamp source, time.Now by default.
func WithNow(now func() time.Time) Option {
	return func(b *Bus) {
		b.now = now
	}
}

// NewBus creates an empty bus.
func NewBus(opts ...Option) *Bus {
	b := &Bus{now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Register appends a listener, unrestricted. Use the returned registration
// to restrict it.
func (b *Bus) Register(l Listener) *Registration {
	reg := &Registration{Listener: l}
	b.regs = append(b.regs, reg)
	return reg
}

// Unregister removes the registration and reports whether it was present.
func (b *Bus) Unregister(reg *Registration) bool {
	for i, r := range b.regs {
		if r == reg {
			b.regs = append(b.regs[:i:i], b.regs[i+1:]...)
			return true
		}
	}
	return false
}

// Registrations returns the registrations in dispatch order.
func (b *Bus) Registrations() []*Registration {
	return append([]*Registration(nil), b.regs...)
}

// Construct creates and stamps an event.
func (b *Bus) Construct(kind Kind, origin Origin, payload Payload) *Event {
	b.mu.Lock()
	b.seq++
	seq := b.seq
	at := b.now()
	b.mu.Unlock()

	label := kind.Label()
	return &Event{
		kind:    kind,
		origin:  origin,
		at:      at,
		seq:     seq,
		label:   label,
		prefix:  filePrefix(at, origin, label),
		payload: payload,
	}
}

// Publish delivers e to every registration whose filter allows it. The
// first listener error stops the dispatch and is returned as an
// *errs.ListenerError.
func (b *Bus) Publish(e *Event) error {
	for _, reg := range b.Registrations() {
		if !reg.Allows(e.kind) {
			continue
		}
		if err := e.Notify(reg.Listener); err != nil {
			return errs.Listener(e.label, err)
		}
	}
	return nil
}

// Emit constructs and publishes an event.
func (b *Bus) Emit(kind Kind, origin Origin, payload Payload) error {
	return b.Publish(b.Construct(kind, origin, payload))
}
