package drivertest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pagekit/pkg/driver"
)

const loginHTML = `<html><head><title>Login</title></head><body>
<form id="login-form">
  <input id="user" name="username" class="field wide">
  <input id="pass" name="password" class="field" type="password">
  <button id="go" class="btn primary">Sign in</button>
  <button class="btn" disabled>Reset</button>
</form>
<ul class="items"><li>one</li><li>two</li><li hidden>three</li></ul>
<a href="/help?x=1">Need help?</a>
</body></html>`

func TestFindElements_Strategies(t *testing.T) {
	d := NewWithHTML("http://x/login", loginHTML)

	tests := []struct {
		by   driver.By
		want int
	}{
		{driver.By{Strategy: driver.ByID, Value: "user"}, 1},
		{driver.By{Strategy: driver.ByName, Value: "password"}, 1},
		{driver.By{Strategy: driver.ByClass, Value: "field"}, 2},
		{driver.By{Strategy: driver.ByTag, Value: "LI"}, 3},
		{driver.By{Strategy: driver.ByCSS, Value: "form .btn"}, 2},
		{driver.By{Strategy: driver.ByCSS, Value: "form > button.primary"}, 1},
		{driver.By{Strategy: driver.ByCSS, Value: "ul > li, #user"}, 4},
		{driver.By{Strategy: driver.ByCSS, Value: "input[type=password]"}, 1},
		{driver.By{Strategy: driver.ByCSS, Value: "body > li"}, 0},
		{driver.By{Strategy: driver.ByCSS, Value: "li:not([hidden])"}, 2},
		{driver.By{Strategy: driver.ByXPath, Value: "//li"}, 3},
		{driver.By{Strategy: driver.ByXPath, Value: "//form/button[@id='go']"}, 1},
		{driver.By{Strategy: driver.ByXPath, Value: "//a[contains(., 'help')]"}, 1},
		{driver.By{Strategy: driver.ByXPath, Value: "//li/text()"}, 0},
		{driver.By{Strategy: driver.ByLinkText, Value: "Need help?"}, 1},
		{driver.By{Strategy: driver.ByPartialLinkText, Value: "help"}, 1},
		{driver.By{Strategy: driver.ByID, Value: "missing"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.by.String(), func(t *testing.T) {
			found, err := d.FindElements(tt.by)
			require.NoError(t, err)
			assert.Len(t, found, tt.want)
		})
	}
}

func TestFindElements_InvalidQueries(t *testing.T) {
	d := NewWithHTML("http://x/login", loginHTML)

	tests := []struct {
		by   driver.By
		want string
	}{
		{driver.By{Strategy: driver.ByCSS, Value: "form >"}, "invalid css"},
		{driver.By{Strategy: driver.ByXPath, Value: "//li[@"}, "invalid xpath"},
		{driver.By{Strategy: driver.Strategy("shadow"), Value: "x"}, "not supported"},
	}

	for _, tt := range tests {
		t.Run(tt.by.String(), func(t *testing.T) {
			_, err := d.FindElements(tt.by)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestHandle_XPathRelativeToScope(t *testing.T) {
	d := NewWithHTML("http://x/login", loginHTML)
	form := first(t, d, driver.By{Strategy: driver.ByID, Value: "login-form"})

	buttons, err := form.FindElements(driver.By{Strategy: driver.ByXPath, Value: ".//button"})
	require.NoError(t, err)
	assert.Len(t, buttons, 2)

	self, err := form.FindElements(driver.By{Strategy: driver.ByXPath, Value: "."})
	require.NoError(t, err)
	assert.Empty(t, self)

	items, err := form.FindElements(driver.By{Strategy: driver.ByXPath, Value: "//li"})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestHandle_NestedLookupStaysInScope(t *testing.T) {
	d := NewWithHTML("http://x/login", loginHTML)

	forms, err := d.FindElements(driver.By{Strategy: driver.ByID, Value: "login-form"})
	require.NoError(t, err)
	require.Len(t, forms, 1)

	items, err := forms[0].FindElements(driver.By{Strategy: driver.ByTag, Value: "li"})
	require.NoError(t, err)
	assert.Empty(t, items)

	buttons, err := forms[0].FindElements(driver.By{Strategy: driver.ByTag, Value: "button"})
	require.NoError(t, err)
	assert.Len(t, buttons, 2)
}

func TestHandle_Interactions(t *testing.T) {
	d := NewWithHTML("http://x/login", loginHTML)

	user := first(t, d, driver.By{Strategy: driver.ByID, Value: "user"})
	require.NoError(t, user.Type("ann"))
	require.NoError(t, user.Type("a"))
	v, err := user.Attribute("value")
	require.NoError(t, err)
	assert.Equal(t, "anna", v)

	require.NoError(t, user.Clear())
	v, _ = user.Attribute("value")
	assert.Empty(t, v)

	button := first(t, d, driver.By{Strategy: driver.ByID, Value: "go"})
	text, err := button.Text()
	require.NoError(t, err)
	assert.Equal(t, "Sign in", text)
	require.NoError(t, button.Click())
	require.NoError(t, button.Submit())
	assert.Equal(t, []string{"button#go.btn.primary", "submit form#login-form"}, d.Clicks())

	reset := first(t, d, driver.By{Strategy: driver.ByCSS, Value: "button[disabled]"})
	enabled, err := reset.IsEnabled()
	require.NoError(t, err)
	assert.False(t, enabled)
	assert.Error(t, reset.Click())

	hidden := first(t, d, driver.By{Strategy: driver.ByCSS, Value: "li[hidden]"})
	shown, err := hidden.IsDisplayed()
	require.NoError(t, err)
	assert.False(t, shown)
}

func TestHandle_StaleAfterSetHTML(t *testing.T) {
	d := NewWithHTML("http://x/login", loginHTML)
	user := first(t, d, driver.By{Strategy: driver.ByID, Value: "user"})

	d.SetHTML("<html><body><input id=user></body></html>")

	_, err := user.Text()
	assert.ErrorIs(t, err, ErrStale)
}

func TestNavigate_Routes(t *testing.T) {
	d := New()
	d.Serve("http://x/home", "<html><head><title>Home</title></head><body><a href='/login'>in</a></body></html>")
	d.Serve("http://x/login", loginHTML)

	require.NoError(t, d.Navigate("http://x/home?utm=1"))
	title, err := d.Title()
	require.NoError(t, err)
	assert.Equal(t, "Home", title)

	link := first(t, d, driver.By{Strategy: driver.ByLinkText, Value: "in"})
	require.NoError(t, link.Click())

	current, err := d.CurrentURL()
	require.NoError(t, err)
	assert.Equal(t, "http://x/login", current)
	assert.Equal(t, []string{"http://x/home?utm=1", "http://x/login"}, d.Navigations())

	title, _ = d.Title()
	assert.Equal(t, "Login", title)
}

func TestDriver_MutationsAndFailures(t *testing.T) {
	d := NewWithHTML("http://x/login", loginHTML)

	require.NoError(t, d.Remove("ul.items li"))
	found, err := d.FindElements(driver.By{Strategy: driver.ByTag, Value: "li"})
	require.NoError(t, err)
	assert.Empty(t, found)

	require.NoError(t, d.Append("ul.items", "<li>new</li>"))
	found, _ = d.FindElements(driver.By{Strategy: driver.ByTag, Value: "li"})
	assert.Len(t, found, 1)

	boom := errors.New("boom")
	d.FailLookups(boom)
	_, err = d.FindElements(driver.By{Strategy: driver.ByTag, Value: "li"})
	assert.ErrorIs(t, err, boom)
	d.FailLookups(nil)

	assert.Len(t, d.Lookups(), 3)

	require.NoError(t, d.Quit())
	_, err = d.CurrentURL()
	assert.ErrorIs(t, err, ErrQuit)
}

func TestScreenshotAndSource(t *testing.T) {
	d := NewWithHTML("http://x/login", loginHTML)

	shot, err := d.Screenshot()
	require.NoError(t, err)
	assert.Contains(t, string(shot), "http://x/login")

	src, err := d.PageSource()
	require.NoError(t, err)
	assert.Contains(t, src, `id="login-form"`)

	d.OnScript(func(script string, args []any) (any, error) {
		return len(args), nil
	})
	out, err := d.ExecuteScript("return arguments.length", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, out)
}

func first(t *testing.T, d *Driver, by driver.By) driver.Handle {
	t.Helper()
	found, err := d.FindElements(by)
	require.NoError(t, err)
	require.NotEmpty(t, found)
	return found[0]
}
