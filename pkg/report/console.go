package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/pagekit/pkg/event"
)

// Console palette.
var (
	colorOK     = lipgloss.Color("#98D8C8")
	colorFail   = lipgloss.Color("203")
	colorMuted  = lipgloss.Color("245")
	colorAccent = lipgloss.Color("#F7A072")
)

// ConsoleListener prints an indented trace of a session: navigations,
// page and module initializations with their steps, interactions and
// failures. Nested initializations (modules resolved inside a page) are
// indented below their parent.
//
// Colors are only emitted when w is a terminal.
type ConsoleListener struct {
	event.Base

	w     io.Writer
	stack []string

	title  lipgloss.Style
	ok     lipgloss.Style
	fail   lipgloss.Style
	muted  lipgloss.Style
	accent lipgloss.Style
}

// NewConsoleListener creates a console trace writing to w.
func NewConsoleListener(w io.Writer) *ConsoleListener {
	r := lipgloss.NewRenderer(w)
	return &ConsoleListener{
		w:      w,
		title:  r.NewStyle().Bold(true),
		ok:     r.NewStyle().Foreground(colorOK),
		fail:   r.NewStyle().Foreground(colorFail).Bold(true),
		muted:  r.NewStyle().Foreground(colorMuted),
		accent: r.NewStyle().Foreground(colorAccent),
	}
}

func (c *ConsoleListener) line(format string, args ...any) error {
	indent := strings.Repeat("  ", len(c.stack))
	_, err := fmt.Fprintf(c.w, indent+format+"\n", args...)
	return err
}

func (c *ConsoleListener) OnBrowserConstruct(*event.Event) error {
	return c.line("%s", c.title.Render("● browser started"))
}

func (c *ConsoleListener) OnBrowserQuit(*event.Event) error {
	return c.line("%s", c.title.Render("■ browser quit"))
}

func (c *ConsoleListener) OnBeforeNavigate(e *event.Event) error {
	return c.line("%s %s", c.accent.Render("→ navigate"), e.URL())
}

func (c *ConsoleListener) OnBeforeInit(e *event.Event) error {
	err := c.line("%s", c.title.Render("▸ "+e.Origin().Label))
	c.stack = append(c.stack, e.Origin().Label)
	return err
}

func (c *ConsoleListener) OnBeforeSetup(*event.Event) error {
	return c.line("%s", c.muted.Render("· setup"))
}

func (c *ConsoleListener) OnBeforeVerify(*event.Event) error {
	return c.line("%s", c.muted.Render("· verify"))
}

func (c *ConsoleListener) OnPageActivated(e *event.Event) error {
	return c.line("%s %s", c.accent.Render("★ active"), e.URL())
}

func (c *ConsoleListener) OnAfterInit(e *event.Event) error {
	c.pop(e.Origin().Label)
	return c.line("%s %s", c.ok.Render("✓ "+e.Origin().Label), c.muted.Render(e.Elapsed().String()))
}

func (c *ConsoleListener) OnInitException(e *event.Event) error {
	c.pop(e.Origin().Label)
	return c.line("%s %v", c.fail.Render("✗ "+e.Origin().Label+":"), e.Err())
}

func (c *ConsoleListener) OnAfterClickOn(e *event.Event) error {
	return c.line("%s", c.muted.Render("· click "+e.Locator()))
}

func (c *ConsoleListener) OnAfterChangeValueOf(e *event.Event) error {
	return c.line("%s", c.muted.Render("· value "+e.Locator()+" = "+strconv.Quote(e.Value())))
}

func (c *ConsoleListener) OnAfterScript(e *event.Event) error {
	return c.line("%s", c.muted.Render("· script "+firstLine(e.Script())))
}

func (c *ConsoleListener) OnDriverException(e *event.Event) error {
	return c.line("%s %v", c.fail.Render("! driver:"), e.Err())
}

// pop closes the innermost open initialization when it belongs to label.
// Failures before BeforeInit have nothing open.
func (c *ConsoleListener) pop(label string) {
	if n := len(c.stack); n > 0 && c.stack[n-1] == label {
		c.stack = c.stack[:n-1]
	}
}

func firstLine(s string) string {
	line, _, cut := strings.Cut(strings.TrimSpace(s), "\n")
	if cut {
		return line + " ..."
	}
	return line
}
