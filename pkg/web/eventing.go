package web

import (
	"errors"

	"github.com/entrhq/pagekit/pkg/driver"
	"github.com/entrhq/pagekit/pkg/element"
	"github.com/entrhq/pagekit/pkg/event"
	"github.com/entrhq/pagekit/pkg/locate"
)

func rootOf(s driver.Searcher) element.Root {
	return element.Static(s)
}

// eventingDriver republishes driver calls as events. Before events are
// published before the call, after events once it succeeded, and a
// DriverException event when it failed.
type eventingDriver struct {
	driver.Driver
	b *Browser
}

func (d *eventingDriver) emit(kind event.Kind, payload event.Payload) error {
	return d.b.bus.Emit(kind, d.b.activeOrigin(), payload)
}

// fail publishes the driver exception and returns err, or the listener
// error joined with err if publishing failed too.
func (d *eventingDriver) fail(payload event.Payload, err error) error {
	payload.Err = err
	if perr := d.emit(event.KindDriverException, payload); perr != nil {
		return errors.Join(perr, err)
	}
	return err
}

func (d *eventingDriver) FindElements(by driver.By) ([]driver.Handle, error) {
	return findElements(d, d.Driver, by)
}

func (d *eventingDriver) Navigate(url string) error {
	payload := event.Payload{URL: url}
	if err := d.emit(event.KindBeforeNavigate, payload); err != nil {
		return err
	}
	start := d.b.clock.Now()
	if err := d.Driver.Navigate(url); err != nil {
		return d.fail(payload, err)
	}
	payload.Elapsed = d.b.clock.Now().Sub(start)
	return d.emit(event.KindAfterNavigate, payload)
}

func (d *eventingDriver) ExecuteScript(script string, args ...any) (any, error) {
	payload := event.Payload{Script: script}
	if err := d.emit(event.KindBeforeScript, payload); err != nil {
		return nil, err
	}
	result, err := d.Driver.ExecuteScript(script, args...)
	if err != nil {
		return nil, d.fail(payload, err)
	}
	return result, d.emit(event.KindAfterScript, payload)
}

func findElements(d *eventingDriver, s driver.Searcher, by driver.By) ([]driver.Handle, error) {
	payload := event.Payload{Locator: by.String()}
	if err := d.emit(event.KindBeforeFindBy, payload); err != nil {
		return nil, err
	}
	found, err := s.FindElements(by)
	if err != nil {
		return nil, d.fail(payload, err)
	}
	if err := d.emit(event.KindAfterFindBy, payload); err != nil {
		return nil, err
	}
	wrapped := make([]driver.Handle, len(found))
	for i, h := range found {
		wrapped[i] = &eventingHandle{Handle: h, d: d, by: by}
	}
	return wrapped, nil
}

// eventingHandle publishes interactions with one element.
type eventingHandle struct {
	driver.Handle
	d  *eventingDriver
	by driver.By
}

func (h *eventingHandle) FindElements(by driver.By) ([]driver.Handle, error) {
	return findElements(h.d, h.Handle, by)
}

func (h *eventingHandle) interact(before, after event.Kind, value string, call func() error) error {
	payload := event.Payload{Locator: h.by.String(), Value: value}
	if err := h.d.emit(before, payload); err != nil {
		return err
	}
	clock := h.d.b.clock
	start := clock.Now()
	if err := call(); err != nil {
		return h.d.fail(payload, err)
	}
	payload.Elapsed = clock.Now().Sub(start)
	return h.d.emit(after, payload)
}

func (h *eventingHandle) Click() error {
	return h.interact(event.KindBeforeClickOn, event.KindAfterClickOn, "", h.Handle.Click)
}

func (h *eventingHandle) Submit() error {
	return h.interact(event.KindBeforeClickOn, event.KindAfterClickOn, "", h.Handle.Submit)
}

func (h *eventingHandle) Type(text string) error {
	return h.interact(event.KindBeforeChangeValueOf, event.KindAfterChangeValueOf, text, func() error {
		return h.Handle.Type(text)
	})
}

func (h *eventingHandle) Clear() error {
	return h.interact(event.KindBeforeChangeValueOf, event.KindAfterChangeValueOf, "", h.Handle.Clear)
}

// Same compares the wrapped handles.
func (h *eventingHandle) Same(other driver.Handle) bool {
	if o, ok := other.(*eventingHandle); ok {
		other = o.Handle
	}
	if id, ok := h.Handle.(locate.Identifiable); ok {
		return id.Same(other)
	}
	return h.Handle == other
}
