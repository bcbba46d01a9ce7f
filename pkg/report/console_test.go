package report_test

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/entrhq/pagekit/pkg/report"
)

func TestConsoleListener_Trace(t *testing.T) {
	var out bytes.Buffer
	b, _ := newSession(t, report.NewConsoleListener(&out))

	runSession(t, b)

	g := goldie.New(t)
	g.Assert(t, "console_trace", out.Bytes())
}
