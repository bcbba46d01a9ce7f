package web

import (
	"errors"

	"github.com/entrhq/pagekit/pkg/errs"
	"github.com/entrhq/pagekit/pkg/event"
)

// Lifecycle is the hook set run, in a fixed order, when a page or module
// initializes. Page and Module provide no-op hooks through Hooks; a page
// object overrides the ones it needs by declaring the method itself.
//
// Order: BeforeInit, BeforeInitElements, field binding,
// AfterInitElements, BeforeSetup, Setup, AfterSetup, BeforeVerify,
// location check and Verify, AfterVerify, page activation (pages only),
// AfterInit.
type Lifecycle interface {
	Node
	BeforeInit() error
	BeforeInitElements() error
	AfterInitElements() error
	BeforeSetup() error
	Setup() error
	AfterSetup() error
	BeforeVerify() error
	Verify() error
	AfterVerify() error
	AfterInit() error

	verifyLocation() error
}

// Hooks implements every lifecycle hook as a no-op.
type Hooks struct{}

func (Hooks) BeforeInit() error         { return nil }
func (Hooks) BeforeInitElements() error { return nil }
func (Hooks) AfterInitElements() error  { return nil }
func (Hooks) BeforeSetup() error        { return nil }
func (Hooks) Setup() error              { return nil }
func (Hooks) AfterSetup() error         { return nil }
func (Hooks) BeforeVerify() error       { return nil }
func (Hooks) Verify() error             { return nil }
func (Hooks) AfterVerify() error        { return nil }
func (Hooks) AfterInit() error          { return nil }

// runLifecycle drives obj from Constructed to Verified. activate, when
// set, commits a page as current between AfterVerify and AfterInit.
//
// On failure the InitException event is published before the error is
// returned and the node is left in StateFailed; nothing is rolled back.
func runLifecycle(obj Lifecycle, activate func() error) (err error) {
	c := obj.node()
	log := c.browser.log
	start := c.browser.clock.Now()

	b := c.browser
	b.initializing = append(b.initializing, c)
	defer func() {
		b.initializing = b.initializing[:len(b.initializing)-1]
	}()

	defer func() {
		if err != nil {
			err = c.fail(err)
		}
	}()

	step := func(state State, kind event.Kind, hook func() error) error {
		c.state = state
		if err := c.emit(kind, event.Payload{Subject: c.typ}); err != nil {
			return err
		}
		return hook()
	}

	if err := step(StateBeforeInit, event.KindBeforeInit, obj.BeforeInit); err != nil {
		return err
	}
	if err := step(StateFieldsBinding, event.KindBeforeInitElements, obj.BeforeInitElements); err != nil {
		return err
	}
	if err := bindFields(obj); err != nil {
		return err
	}
	if err := step(StateFieldsBound, event.KindAfterInitElements, obj.AfterInitElements); err != nil {
		return err
	}

	if err := step(StateSetup, event.KindBeforeSetup, obj.BeforeSetup); err != nil {
		return err
	}
	if err := obj.Setup(); err != nil {
		return errs.VerificationFailed(c.typ, err)
	}
	if err := step(StateSetup, event.KindAfterSetup, obj.AfterSetup); err != nil {
		return err
	}

	if err := step(StateVerifying, event.KindBeforeVerify, obj.BeforeVerify); err != nil {
		return err
	}
	if err := obj.verifyLocation(); err != nil {
		return errs.VerificationFailed(c.typ, err)
	}
	if err := obj.Verify(); err != nil {
		return errs.VerificationFailed(c.typ, err)
	}
	if err := step(StateVerifying, event.KindAfterVerify, obj.AfterVerify); err != nil {
		return err
	}
	c.state = StateVerified

	if activate != nil {
		if err := activate(); err != nil {
			return err
		}
	}

	if err := c.emit(event.KindAfterInit, event.Payload{
		Subject: c.typ,
		Elapsed: c.browser.clock.Now().Sub(start),
	}); err != nil {
		return err
	}
	if err := obj.AfterInit(); err != nil {
		return err
	}
	log.Debugf("%s initialized", c.label)
	return nil
}

// fail marks c failed and publishes the InitException event. It returns
// err, or the listener error joined with err if publishing failed.
func (c *Context) fail(err error) error {
	c.state = StateFailed
	c.browser.log.Warnf("%s failed to initialize: %v", c.label, err)
	if perr := c.emit(event.KindInitException, event.Payload{Subject: c.typ, Err: err}); perr != nil {
		return errors.Join(perr, err)
	}
	return err
}
