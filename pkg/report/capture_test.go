package report_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pagekit/pkg/artifact"
	"github.com/entrhq/pagekit/pkg/event"
	"github.com/entrhq/pagekit/pkg/report"
	"github.com/entrhq/pagekit/pkg/web"
)

type brokenCamera struct{}

func (brokenCamera) Screenshot() ([]byte, error) { return nil, errors.New("no display") }

func TestScreenshotListener_CapturesPerInit(t *testing.T) {
	b, d := newSession(t)
	shots := report.NewScreenshotListener(d, artifact.NewStore(t.TempDir(), true), nil)
	b.Listen(shots)

	runSession(t, b)

	names := make([]string, 0, len(shots.Saved()))
	for _, p := range shots.Saved() {
		names = append(names, filepath.Base(p))
	}
	assert.Equal(t, []string{
		"20260102-030405.000_LoginPage_report_test.LoginPage_AfterInit.png",
		"20260102-030405.000_Banner_report_test.Banner_AfterInit.png",
		"20260102-030405.000_LoginPage_report_test.LoginPage_InitException.png",
	}, names)

	data, err := os.ReadFile(shots.Saved()[2])
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG\r\n\x1a\nhttp://app/other", string(data))
}

func TestScreenshotListener_Disabled(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "off")
	b, d := newSession(t)
	shots := report.NewScreenshotListener(d, artifact.NewStore(dir, false), nil)
	b.Listen(shots)

	runSession(t, b)

	assert.Empty(t, shots.Saved())
	assert.NoDirExists(t, dir)
}

func TestScreenshotListener_CaptureFailureIsNotFatal(t *testing.T) {
	bus := event.NewBus()
	shots := report.NewScreenshotListener(brokenCamera{}, artifact.NewStore(t.TempDir(), true), nil)
	bus.Register(shots)

	err := bus.Emit(event.KindAfterInit, event.Origin{Label: "LoginPage"}, event.Payload{})

	assert.NoError(t, err)
	assert.Empty(t, shots.Saved())
}

func TestPageSourceListener(t *testing.T) {
	dir := t.TempDir()
	b, d := newSession(t)
	raw := report.NewPageSourceListener(d, artifact.NewStore(filepath.Join(dir, "raw"), true), nil)
	clean := report.NewPageSourceListener(d, artifact.NewStore(filepath.Join(dir, "clean"), true), nil)
	clean.MaxLength = 4096
	b.Listen(raw)
	b.Listen(clean)

	_, err := web.Open[*LoginPage](b)
	require.NoError(t, err)

	require.Len(t, raw.Saved(), 1)
	require.Len(t, clean.Saved(), 1)
	assert.Equal(t, "20260102-030405.000_LoginPage_report_test.LoginPage_AfterInit.html", filepath.Base(raw.Saved()[0]))

	rawHTML, err := os.ReadFile(raw.Saved()[0])
	require.NoError(t, err)
	assert.Contains(t, string(rawHTML), "track()")

	cleanHTML, err := os.ReadFile(clean.Saved()[0])
	require.NoError(t, err)
	assert.NotContains(t, string(cleanHTML), "track()")
	assert.NotContains(t, string(cleanHTML), "onfocus")
	assert.Contains(t, string(cleanHTML), `<input id="user" name="user">`)
}
