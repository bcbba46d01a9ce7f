package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const noisyHTML = `<!DOCTYPE html><html><head><title> Shop </title><script>x()</script><style>p{}</style></head>
<body><!-- banner --><div id="main" style="color:red" data-test="m">
<p class="lead" onclick="y()">Hello <b>world</b></p><input name="q" type="search" autocomplete="off">
<a href="/cart" target="_blank" rel="noopener">Cart</a></div></body></html>`

func TestCleanSource(t *testing.T) {
	cleaned, err := CleanSource(noisyHTML, 10000)
	require.NoError(t, err)

	assert.Equal(t, "Shop", cleaned.Title)
	assert.False(t, cleaned.Truncated)
	for _, gone := range []string{"x()", "p{}", "banner", "style=", "onclick", "autocomplete", "rel=", "target=", "DOCTYPE"} {
		assert.NotContains(t, cleaned.HTML, gone)
	}
	assert.Contains(t, cleaned.HTML, `<div id="main" data-test="m">`)
	assert.Contains(t, cleaned.HTML, `<p class="lead">Hello<b>world</b>`)
	assert.Contains(t, cleaned.HTML, `<input name="q" type="search">`)
	assert.Contains(t, cleaned.HTML, `<a href="/cart">Cart</a>`)
	assert.NotContains(t, cleaned.HTML, "</input>")
	assert.True(t, strings.HasPrefix(cleaned.HTML, "<html>"))
}

func TestCleanSource_Truncates(t *testing.T) {
	cleaned, err := CleanSource(noisyHTML, 40)
	require.NoError(t, err)

	assert.True(t, cleaned.Truncated)
	assert.NotContains(t, cleaned.HTML, "Cart")
	assert.Equal(t, "Shop", cleaned.Title)
}
