// Package report holds the built-in event listeners: artifact capture
// (screenshots, page sources, session summary), a console trace, the
// session log and Prometheus metrics.
//
// Listeners are registered on a browser's bus like any other:
//
//	store := artifact.FromSettings(settings)
//	b.Listen(report.NewScreenshotListener(b.Raw(), store, log))
//
// Capturing listeners must be given the raw driver so that capturing does
// not publish events of its own.
package report

import (
	"github.com/entrhq/pagekit/pkg/artifact"
	"github.com/entrhq/pagekit/pkg/event"
	"github.com/entrhq/pagekit/pkg/logging"
)

// Screenshotter takes screenshots. driver.Driver implements it.
type Screenshotter interface {
	Screenshot() ([]byte, error)
}

// SourceProvider returns the current document. driver.Driver implements
// it.
type SourceProvider interface {
	PageSource() (string, error)
}

// ScreenshotListener saves a PNG screenshot when a page or module
// finishes initializing and when anything fails. Files are named after
// the event's file prefix.
//
// Capture failures are logged, not returned. Store failures are returned.
type ScreenshotListener struct {
	event.Base

	src   Screenshotter
	store *artifact.Store
	log   *logging.Logger
	saved []string
}

// NewScreenshotListener creates a listener capturing from src into store.
// A nil log discards.
func NewScreenshotListener(src Screenshotter, store *artifact.Store, log *logging.Logger) *ScreenshotListener {
	if log == nil {
		log = logging.Discard()
	}
	return &ScreenshotListener{src: src, store: store, log: log.With("screenshot")}
}

func (l *ScreenshotListener) OnAfterInit(e *event.Event) error       { return l.capture(e) }
func (l *ScreenshotListener) OnInitException(e *event.Event) error   { return l.capture(e) }
func (l *ScreenshotListener) OnDriverException(e *event.Event) error { return l.capture(e) }

// Saved returns the paths written so far.
func (l *ScreenshotListener) Saved() []string {
	return append([]string(nil), l.saved...)
}

func (l *ScreenshotListener) capture(e *event.Event) error {
	if !l.store.Enabled() {
		return nil
	}
	png, err := l.src.Screenshot()
	if err != nil {
		l.log.Warnf("screenshot on %s skipped: %v", e.Label(), err)
		return nil
	}
	path, err := l.store.SaveBytes(e.FilePrefix()+".png", png)
	if err != nil {
		return err
	}
	l.saved = append(l.saved, path)
	l.log.Debugf("saved %s", path)
	return nil
}

// PageSourceListener saves the document when a page or module finishes
// initializing and when initialization fails. With MaxLength set, the
// source is cleaned first: scripts, styles and attributes useless for
// locating elements are dropped and the result is truncated.
type PageSourceListener struct {
	event.Base

	// MaxLength enables cleaning when positive.
	MaxLength int

	src   SourceProvider
	store *artifact.Store
	log   *logging.Logger
	saved []string
}

// NewPageSourceListener creates a listener capturing from src into store.
// A nil log discards.
func NewPageSourceListener(src SourceProvider, store *artifact.Store, log *logging.Logger) *PageSourceListener {
	if log == nil {
		log = logging.Discard()
	}
	return &PageSourceListener{src: src, store: store, log: log.With("source")}
}

func (l *PageSourceListener) OnAfterInit(e *event.Event) error     { return l.capture(e) }
func (l *PageSourceListener) OnInitException(e *event.Event) error { return l.capture(e) }

// Saved returns the paths written so far.
func (l *PageSourceListener) Saved() []string {
	return append([]string(nil), l.saved...)
}

func (l *PageSourceListener) capture(e *event.Event) error {
	if !l.store.Enabled() {
		return nil
	}
	src, err := l.src.PageSource()
	if err != nil {
		l.log.Warnf("page source on %s skipped: %v", e.Label(), err)
		return nil
	}
	if l.MaxLength > 0 {
		cleaned, err := CleanSource(src, l.MaxLength)
		if err != nil {
			l.log.Warnf("page source on %s kept raw: %v", e.Label(), err)
		} else {
			src = cleaned.HTML
		}
	}
	path, err := l.store.SaveString(e.FilePrefix()+".html", src)
	if err != nil {
		return err
	}
	l.saved = append(l.saved, path)
	l.log.Debugf("saved %s", path)
	return nil
}
