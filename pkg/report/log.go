package report

import (
	"fmt"

	"github.com/entrhq/pagekit/pkg/event"
	"github.com/entrhq/pagekit/pkg/logging"
)

// LogListener writes every event to the session log. Exceptions are
// logged as errors, driver calls at debug level and the rest as info.
type LogListener struct {
	event.Func
}

// NewLogListener creates a listener logging through log.
func NewLogListener(log *logging.Logger) *LogListener {
	log = log.With("events")
	return &LogListener{Func: func(e *event.Event) error {
		logEvent(log, e)
		return nil
	}}
}

func logEvent(log *logging.Logger, e *event.Event) {
	msg := fmt.Sprintf("#%d %s %s", e.Seq(), e.Origin().Label, e.Label())
	if d := detail(e); d != "" {
		msg += " " + d
	}
	switch e.Kind() {
	case event.KindInitException, event.KindDriverException:
		log.Errorf("%s: %v", msg, e.Err())
	case event.KindBeforeFindBy, event.KindAfterFindBy,
		event.KindBeforeClickOn, event.KindAfterClickOn,
		event.KindBeforeChangeValueOf, event.KindAfterChangeValueOf,
		event.KindBeforeScript, event.KindAfterScript:
		log.Debugf("%s", msg)
	default:
		log.Infof("%s", msg)
	}
}

// detail renders the non-empty payload fields of e.
func detail(e *event.Event) string {
	var out string
	add := func(key, value string) {
		if value == "" {
			return
		}
		if out != "" {
			out += " "
		}
		out += key + "=" + value
	}
	add("url", e.URL())
	add("locator", e.Locator())
	add("value", e.Value())
	add("script", firstLine(e.Script()))
	add("subject", e.Subject())
	if e.Elapsed() > 0 {
		add("elapsed", e.Elapsed().String())
	}
	return out
}
