// Package errs defines the error taxonomy shared by element lookup, page
// lifecycle and waiting.
//
// Every error type in this package except ListenerError matches
// ErrAutomation through errors.Is, which is the family the safe variants
// (TryOpen, TryInit, InitOnePage) are allowed to swallow. Anything outside
// the family propagates, and a ListenerError propagates even when joined
// with a family member.
package errs

import (
	"errors"
	"fmt"
	"time"
)

// ErrAutomation is the base of the automation error family.
var ErrAutomation = errors.New("automation error")

// NotFoundError reports a required element, page or module that could not
// be reached.
type NotFoundError struct {
	// What describes the missing target, usually a locator.
	What string
	// Err is the lookup failure, if any. A plain empty match leaves it nil.
	Err error
}

// NotFound returns a new NotFoundError for the described target.
func NotFound(what string, cause error) *NotFoundError {
	return &NotFoundError{What: what, Err: cause}
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("not found: %s: %v", e.What, e.Err)
	}
	return fmt.Sprintf("not found: %s", e.What)
}

// Unwrap returns the underlying error
func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// Is reports membership in the automation family.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrAutomation
}

// VerificationError reports a Page or Module that failed its post-setup
// check. It always wraps the cause.
type VerificationError struct {
	// Subject is the concrete type name of the page or module.
	Subject string
	Err     error
}

// VerificationFailed wraps cause as a verification failure of subject.
func VerificationFailed(subject string, cause error) *VerificationError {
	return &VerificationError{Subject: subject, Err: cause}
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("verification of %s failed: %v", e.Subject, e.Err)
}

// Unwrap returns the underlying error
func (e *VerificationError) Unwrap() error {
	return e.Err
}

// Is reports membership in the automation family.
func (e *VerificationError) Is(target error) bool {
	return target == ErrAutomation
}

// ConstructError reports a failure to instantiate or bind a context object.
type ConstructError struct {
	Type string
	Err  error
}

// ConstructFailed wraps cause as a construction failure of typ.
func ConstructFailed(typ string, cause error) *ConstructError {
	return &ConstructError{Type: typ, Err: cause}
}

func (e *ConstructError) Error() string {
	return fmt.Sprintf("cannot construct %s: %v", e.Type, e.Err)
}

// Unwrap returns the underlying error
func (e *ConstructError) Unwrap() error {
	return e.Err
}

// Is reports membership in the automation family.
func (e *ConstructError) Is(target error) bool {
	return target == ErrAutomation
}

// TimeoutError reports a poll loop that ran out of time.
type TimeoutError struct {
	// Session identifies the browser session the wait ran against.
	Session string
	Timeout time.Duration
	Polls   int
	// Message is the caller supplied description of the awaited condition.
	Message string
	// Last is the last error swallowed while polling, if any.
	Last error
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("timed out after %s (%d polls, session %s)", e.Timeout, e.Polls, e.Session)
	if e.Message != "" {
		msg = e.Message + ": " + msg
	}
	if e.Last != nil {
		msg += ": last error: " + e.Last.Error()
	}
	return msg
}

// Unwrap returns the last error seen while polling.
func (e *TimeoutError) Unwrap() error {
	return e.Last
}

// Is reports membership in the automation family.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrAutomation
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsAutomation reports whether err belongs to the automation family.
func IsAutomation(err error) bool {
	return errors.Is(err, ErrAutomation)
}

// ListenerError reports a failing event listener. It is not part of the
// automation family: safe variants return it instead of an empty result,
// and waits stop on it even when it wraps a NotFound.
type ListenerError struct {
	// Event is the label of the event being delivered.
	Event string
	Err   error
}

// Listener returns a new ListenerError for a failed delivery of event.
func Listener(event string, cause error) *ListenerError {
	return &ListenerError{Event: event, Err: cause}
}

func (e *ListenerError) Error() string {
	return fmt.Sprintf("listener failed on %s: %v", e.Event, e.Err)
}

// Unwrap returns the listener's error.
func (e *ListenerError) Unwrap() error {
	return e.Err
}

// IsListener reports whether err is, or wraps, a ListenerError.
func IsListener(err error) bool {
	var le *ListenerError
	return errors.As(err, &le)
}
