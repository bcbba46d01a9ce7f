package report_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/entrhq/pagekit/pkg/config"
	"github.com/entrhq/pagekit/pkg/driver/drivertest"
	"github.com/entrhq/pagekit/pkg/element"
	"github.com/entrhq/pagekit/pkg/event"
	"github.com/entrhq/pagekit/pkg/wait"
	"github.com/entrhq/pagekit/pkg/web"
)

const loginHTML = `<html><head><title>Login</title><script>track()</script></head><body>
<div id="banner" style="color: red"><p>Welcome back</p></div>
<form id="login" action="/session"><input id="user" name="user" onfocus="hint()"><button id="submit">Sign in</button></form>
</body></html>`

var epoch = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

type LoginPage struct {
	web.Page `uri:"/login" baseUrl:"http://app"`

	User   *element.Element  `find:"id=user"`
	Submit *element.Element  `find:"id=submit"`
	Banner web.Lazy[*Banner] `find:"id=banner"`
}

type Banner struct {
	web.Module

	Text *element.Element `find:"tag=p"`
}

// newSession starts a browser over an in-memory driver serving the login
// page, with a fixed clock and the given listeners registered before the
// construct event.
func newSession(t *testing.T, listeners ...event.Listener) (*web.Browser, *drivertest.Driver) {
	t.Helper()
	d := drivertest.New()
	d.Serve("http://app/login", loginHTML)
	d.Serve("http://app/other", "<html><body></body></html>")

	s := config.Defaults()
	s.Timeout = time.Second
	s.PollInterval = 500 * time.Millisecond

	clock := wait.NewFakeClock(epoch)
	b, err := web.NewBrowser(d,
		web.WithSettings(s),
		web.WithClock(clock),
		web.WithBus(event.NewBus(event.WithNow(clock.Now))),
		web.WithListeners(listeners...),
	)
	require.NoError(t, err)
	return b, d
}

// runSession opens the login page, uses it, resolves the banner, fails to
// open the page elsewhere and quits.
func runSession(t *testing.T, b *web.Browser) {
	t.Helper()
	p, err := web.Open[*LoginPage](b)
	require.NoError(t, err)
	require.NoError(t, p.User.SetValue("ann"))
	require.NoError(t, p.Submit.Click())
	_, err = p.Banner.Get()
	require.NoError(t, err)

	_, err = web.Open[*LoginPage](b, web.WithURL("http://app/other"))
	require.Error(t, err)

	require.NoError(t, b.Quit())
}
