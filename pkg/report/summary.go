package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/pagekit/pkg/artifact"
	"github.com/entrhq/pagekit/pkg/event"
)

// Initialization outcomes.
const (
	StatusVerified = "verified"
	StatusFailed   = "failed"
)

// InitResult is the outcome of one page or module initialization.
type InitResult struct {
	Label   string        `json:"label"`
	Subject string        `json:"subject"`
	Status  string        `json:"status"`
	URL     string        `json:"url,omitempty"`
	Error   string        `json:"error,omitempty"`
	Elapsed time.Duration `json:"elapsed_ns"`
}

// Summary is the record of a browser session.
type Summary struct {
	Session      string        `json:"session"`
	StartTime    time.Time     `json:"start_time"`
	EndTime      time.Time     `json:"end_time"`
	Duration     time.Duration `json:"duration_ns"`
	Navigations  []string      `json:"navigations"`
	Inits        []InitResult  `json:"inits"`
	DriverErrors []string      `json:"driver_errors,omitempty"`
}

// Failed reports whether any initialization failed.
func (s *Summary) Failed() bool {
	for _, r := range s.Inits {
		if r.Status == StatusFailed {
			return true
		}
	}
	return false
}

// SummaryListener records a session and writes summary.json and
// summary.md to its store when the browser quits.
type SummaryListener struct {
	event.Base

	store   *artifact.Store
	summary Summary
	pending map[string]string
}

// NewSummaryListener creates a summary writing to store.
func NewSummaryListener(store *artifact.Store) *SummaryListener {
	return &SummaryListener{store: store, pending: make(map[string]string)}
}

// Summary returns the session recorded so far.
func (l *SummaryListener) Summary() Summary { return l.summary }

func (l *SummaryListener) OnBrowserConstruct(e *event.Event) error {
	l.summary.Session = e.Value()
	l.summary.StartTime = e.Time()
	return nil
}

func (l *SummaryListener) OnAfterNavigate(e *event.Event) error {
	l.summary.Navigations = append(l.summary.Navigations, e.URL())
	return nil
}

func (l *SummaryListener) OnPageActivated(e *event.Event) error {
	l.pending[e.Subject()] = e.URL()
	return nil
}

func (l *SummaryListener) OnAfterInit(e *event.Event) error {
	l.record(e, StatusVerified, "")
	return nil
}

func (l *SummaryListener) OnInitException(e *event.Event) error {
	msg := ""
	if e.Err() != nil {
		msg = e.Err().Error()
	}
	l.record(e, StatusFailed, msg)
	return nil
}

func (l *SummaryListener) OnDriverException(e *event.Event) error {
	if e.Err() != nil {
		l.summary.DriverErrors = append(l.summary.DriverErrors, e.Err().Error())
	}
	return nil
}

func (l *SummaryListener) OnBrowserQuit(e *event.Event) error {
	l.summary.EndTime = e.Time()
	l.summary.Duration = l.summary.EndTime.Sub(l.summary.StartTime)
	return l.Write()
}

func (l *SummaryListener) record(e *event.Event, status, msg string) {
	url := l.pending[e.Subject()]
	delete(l.pending, e.Subject())
	l.summary.Inits = append(l.summary.Inits, InitResult{
		Label:   e.Origin().Label,
		Subject: e.Subject(),
		Status:  status,
		URL:     url,
		Error:   msg,
		Elapsed: e.Elapsed(),
	})
}

// Write saves the summary as JSON and Markdown.
func (l *SummaryListener) Write() error {
	if _, err := l.store.SaveJSON("summary.json", l.summary); err != nil {
		return fmt.Errorf("failed to write summary JSON: %w", err)
	}
	if _, err := l.store.SaveString("summary.md", l.summary.Markdown()); err != nil {
		return fmt.Errorf("failed to write summary markdown: %w", err)
	}
	return nil
}

// Markdown renders a human-readable summary.
func (s *Summary) Markdown() string {
	var md strings.Builder

	md.WriteString("# Page Session Summary\n\n")
	fmt.Fprintf(&md, "**Session:** %s\n\n", s.Session)
	fmt.Fprintf(&md, "**Started:** %s\n\n", s.StartTime.Format(time.RFC3339))
	fmt.Fprintf(&md, "**Duration:** %s\n\n", s.Duration)

	md.WriteString("## Result\n\n")
	if s.Failed() {
		md.WriteString("❌ **Failed**\n\n")
	} else {
		md.WriteString("✅ **Success**\n\n")
	}

	if len(s.Inits) > 0 {
		md.WriteString("## Initializations\n\n")
		for _, r := range s.Inits {
			mark := "✅"
			if r.Status == StatusFailed {
				mark = "❌"
			}
			fmt.Fprintf(&md, "%s **%s** (`%s`) in %s", mark, r.Label, r.Subject, r.Elapsed)
			if r.URL != "" {
				fmt.Fprintf(&md, " at %s", r.URL)
			}
			md.WriteString("\n")
			if r.Error != "" {
				fmt.Fprintf(&md, "   Error: %s\n", r.Error)
			}
		}
		md.WriteString("\n")
	}

	if len(s.Navigations) > 0 {
		md.WriteString("## Navigations\n\n")
		for _, u := range s.Navigations {
			fmt.Fprintf(&md, "- %s\n", u)
		}
		md.WriteString("\n")
	}

	if len(s.DriverErrors) > 0 {
		md.WriteString("## Driver Errors\n\n")
		for _, e := range s.DriverErrors {
			fmt.Fprintf(&md, "- %s\n", e)
		}
		md.WriteString("\n")
	}
	return md.String()
}
