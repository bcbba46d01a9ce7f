package report_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/entrhq/pagekit/pkg/logging"
	"github.com/entrhq/pagekit/pkg/report"
)

func TestLogListener(t *testing.T) {
	var out bytes.Buffer
	b, _ := newSession(t, report.NewLogListener(logging.NewWriterLogger("session", &out)))

	runSession(t, b)

	log := out.String()
	assert.Contains(t, log, "[session/events] [INFO] #1 Browser BrowserConstruct value=")
	assert.Contains(t, log, "[INFO] #2 Browser BeforeNavigate url=http://app/login")
	assert.Contains(t, log, "[DEBUG]")
	assert.Contains(t, log, "LoginPage AfterClickOn locator=id=submit")
	assert.Contains(t, log, "[ERROR]")
	assert.Contains(t, log, "LoginPage InitException subject=*report_test.LoginPage: verification of")
}
