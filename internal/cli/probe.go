package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/entrhq/pagekit/pkg/artifact"
	"github.com/entrhq/pagekit/pkg/config"
	"github.com/entrhq/pagekit/pkg/event"
	"github.com/entrhq/pagekit/pkg/logging"
	"github.com/entrhq/pagekit/pkg/report"
	"github.com/entrhq/pagekit/pkg/web"
)

// ErrProbeFailed is returned when the page did not verify or a required
// element is missing.
var ErrProbeFailed = errors.New("probe failed")

// ProbeOptions holds the flags of the probe command.
type ProbeOptions struct {
	File       string
	Config     string
	Browser    string
	Timeout    string
	Metrics    string
	Headless   bool
	NoNavigate bool
	Trace      bool
}

// Probe is the page object the probe command opens. Its elements are
// looked up from the page file at run time.
type Probe struct {
	web.Page
}

// ElementResult is the probe outcome of one element.
type ElementResult struct {
	Name     string `json:"name"`
	Locator  string `json:"locator"`
	Optional bool   `json:"optional,omitempty"`
	List     bool   `json:"list,omitempty"`
	Present  bool   `json:"present"`
	Count    int    `json:"count"`
	Error    string `json:"error,omitempty"`
}

// ProbeResult is the outcome of a probe.
type ProbeResult struct {
	Page     string          `json:"page"`
	URL      string          `json:"url,omitempty"`
	Verified bool            `json:"verified"`
	Error    string          `json:"error,omitempty"`
	Elements []ElementResult `json:"elements"`
}

// Failed reports whether the page failed or a required element is
// missing.
func (r *ProbeResult) Failed() bool {
	if !r.Verified {
		return true
	}
	for _, el := range r.Elements {
		if !el.Present && !el.Optional {
			return true
		}
	}
	return false
}

func newProbeCommand(rootOpts *RootOptions, launch Launcher) *cobra.Command {
	opts := &ProbeOptions{}

	cmd := &cobra.Command{
		Use:   "probe -f <page.yaml>",
		Short: "Open a page and report which declared elements are present",
		Long: `Open the page described by a YAML page file, run its lifecycle and
check every declared element.

Settings are read from flags, then PAGEKIT_* environment variables and
.env, then the --config file (pagekit.yaml by default). The command exits
with status 1 when the page does not verify or a required element is
missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbeCommand(cmd, rootOpts, opts, launch)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "page description file")
	cmd.Flags().StringVar(&opts.Config, "config", "", "settings file (default pagekit.yaml)")
	cmd.Flags().StringVar(&opts.Browser, "browser", "", "browser name: chromium, firefox or webkit")
	cmd.Flags().StringVar(&opts.Timeout, "timeout", "", "implicit element wait, e.g. 5s")
	cmd.Flags().StringVar(&opts.Metrics, "metrics", "", "write Prometheus metrics to this file")
	cmd.Flags().BoolVar(&opts.Headless, "headless", true, "run the browser headless")
	cmd.Flags().BoolVar(&opts.NoNavigate, "no-navigate", false, "verify the current document instead of navigating")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "print the event trace to stderr")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runProbeCommand(cmd *cobra.Command, rootOpts *RootOptions, opts *ProbeOptions, launch Launcher) error {
	pf, err := LoadPageFile(opts.File)
	if err != nil {
		return err
	}

	explicit := map[string]string{}
	if cmd.Flags().Changed("headless") {
		explicit[config.KeyHeadless] = strconv.FormatBool(opts.Headless)
	}
	if opts.Browser != "" {
		explicit[config.KeyBrowser] = opts.Browser
	}
	if opts.Timeout != "" {
		explicit[config.KeyTimeout] = opts.Timeout
	}
	cfg, err := config.Standard(explicit, opts.Config)
	if err != nil {
		return err
	}
	settings, err := config.Load(cfg)
	if err != nil {
		return err
	}

	log := probeLogger(cmd, rootOpts, settings)
	defer log.Close()

	store := artifact.FromSettings(settings)
	summary := report.NewSummaryListener(store)
	listeners := []event.Listener{report.NewLogListener(log), summary}
	if opts.Trace {
		listeners = append(listeners, report.NewConsoleListener(cmd.ErrOrStderr()))
	}
	registry := prometheus.NewRegistry()
	if opts.Metrics != "" {
		listeners = append(listeners, report.NewMetricsListener(registry))
	}

	b, err := launch(settings, web.WithLogger(log), web.WithListeners(listeners...))
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	defer b.Quit()
	if store.Enabled() {
		b.Listen(report.NewScreenshotListener(b.Raw(), store, log))
		b.Listen(report.NewPageSourceListener(b.Raw(), store, log))
	}

	result := RunProbe(b, pf, !opts.NoNavigate)

	if err := b.Quit(); err != nil {
		log.Warnf("quit failed: %v", err)
	}
	if opts.Metrics != "" {
		if err := prometheus.WriteToTextfile(opts.Metrics, registry); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	if err := writeResult(cmd.OutOrStdout(), rootOpts.Format, result); err != nil {
		return err
	}
	if result.Failed() {
		return ErrProbeFailed
	}
	return nil
}

// probeLogger logs to stderr when verbose, to the session log file when
// reporting is enabled, and nowhere otherwise.
func probeLogger(cmd *cobra.Command, rootOpts *RootOptions, s config.Settings) *logging.Logger {
	switch {
	case rootOpts.Verbose:
		return logging.NewWriterLogger("probe", cmd.ErrOrStderr())
	case s.ReportingEnabled:
		logging.SetDirectory(filepath.Join(s.ReportingDir, "logs"))
		log, err := logging.NewLogger("probe")
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}
		return log
	default:
		return logging.Discard()
	}
}

// RunProbe opens pf in b and checks its elements. Elements are only
// checked when the page initialized.
func RunProbe(b *web.Browser, pf *PageFile, navigate bool) *ProbeResult {
	result := &ProbeResult{Page: pf.Name, Elements: []ElementResult{}}

	open := web.Init[*Probe]
	if navigate {
		open = web.Open[*Probe]
	}
	p, err := open(b, pf.Options()...)
	if url, uerr := b.CurrentURL(); uerr == nil {
		result.URL = url
	}
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Verified = true

	for _, spec := range pf.Elements {
		result.Elements = append(result.Elements, probeElement(p, spec))
	}
	return result
}

func probeElement(p *Probe, spec ElementSpec) ElementResult {
	r := ElementResult{Name: spec.Name, Optional: spec.Optional, List: spec.List}
	loc, err := spec.Locator()
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.Locator = loc.String()

	var bind []web.BindOption
	if spec.Optional {
		bind = append(bind, web.Optional())
	}

	if spec.List {
		list := p.FindAll(loc, bind...)
		if !spec.Optional {
			err = p.Wait(func() (bool, error) {
				n, err := list.Size()
				return n > 0, err
			})
		}
		n, serr := list.Size()
		r.Count, r.Present = n, n > 0
		if err == nil {
			err = serr
		}
	} else {
		_, err = p.Find(loc, bind...).Handle()
		r.Present = err == nil
		if r.Present {
			r.Count = 1
		}
	}
	if err != nil && !(spec.Optional && !r.Present) {
		r.Error = err.Error()
	}
	return r
}

func writeResult(w io.Writer, format string, r *ProbeResult) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	rd := lipgloss.NewRenderer(w)
	title := rd.NewStyle().Bold(true)
	ok := rd.NewStyle().Foreground(lipgloss.Color("#98D8C8"))
	bad := rd.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	muted := rd.NewStyle().Foreground(lipgloss.Color("245"))

	fmt.Fprintf(w, "%s %s\n", title.Render(r.Page), muted.Render(r.URL))
	if !r.Verified {
		_, err := fmt.Fprintf(w, "%s %s\n", bad.Render("✗ not verified:"), r.Error)
		return err
	}
	for _, el := range r.Elements {
		desc := el.Name + " " + muted.Render(el.Locator)
		if el.List {
			desc += muted.Render(fmt.Sprintf(" (%d)", el.Count))
		}
		switch {
		case el.Present:
			fmt.Fprintf(w, "  %s %s\n", ok.Render("✓"), desc)
		case el.Optional:
			fmt.Fprintf(w, "  %s %s\n", muted.Render("- "+el.Name+" absent"), muted.Render(el.Locator))
		default:
			fmt.Fprintf(w, "  %s %s: %s\n", bad.Render("✗"), desc, el.Error)
		}
	}
	_, err := fmt.Fprintln(w, muted.Render("verified"))
	return err
}
