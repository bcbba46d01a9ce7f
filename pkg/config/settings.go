package config

import (
	"errors"
	"time"
)

// Keys read by Load.
const (
	KeyBaseURL          = "base.url"
	KeyURLRegex         = "url.regex"
	KeyVerifyURL        = "verify.url"
	KeyTimeout          = "timeout"
	KeyPollInterval     = "poll.interval"
	KeyPreInitDelay     = "preinit.delay"
	KeyElementCache     = "element.cache"
	KeyReportingEnabled = "reporting.enabled"
	KeyReportingDir     = "reporting.dir"
	KeyHeadless         = "browser.headless"
	KeyBrowser          = "browser.name"
)

// DefaultFile is the resource file read by Standard.
const DefaultFile = "pagekit.yaml"

// Settings is the configuration a browser reads once when it is
// constructed.
type Settings struct {
	// BaseURL is prepended to page URIs.
	BaseURL string

	// URLRegex verifies the current URL of pages that derive none.
	URLRegex string

	// VerifyURL enables URL verification of pages.
	VerifyURL bool

	// Timeout is the implicit wait of required elements and the default
	// of explicit waits.
	Timeout time.Duration

	// PollInterval is the pause between polls.
	PollInterval time.Duration

	// PreInitDelay is slept after navigation, before a page initializes.
	PreInitDelay time.Duration

	// ElementCache keeps resolved element handles.
	ElementCache bool

	// ReportingEnabled turns artifact capture on.
	ReportingEnabled bool

	// ReportingDir receives artifacts and session logs.
	ReportingDir string

	// Headless runs the browser without a window.
	Headless bool

	// Browser is the browser engine: chromium, firefox or webkit.
	Browser string
}

// Defaults returns the settings used for keys no layer holds.
func Defaults() Settings {
	return Settings{
		VerifyURL:    true,
		Timeout:      10 * time.Second,
		PollInterval: 500 * time.Millisecond,
		ElementCache: true,
		ReportingDir: "reports",
		Headless:     true,
		Browser:      "chromium",
	}
}

// Load reads Settings from c. Every malformed value is reported.
func Load(c *Config) (Settings, error) {
	s := Defaults()
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	s.BaseURL = c.String(KeyBaseURL, s.BaseURL)
	s.URLRegex = c.String(KeyURLRegex, s.URLRegex)
	s.ReportingDir = c.String(KeyReportingDir, s.ReportingDir)
	s.Browser = c.String(KeyBrowser, s.Browser)

	var err error
	s.VerifyURL, err = c.Bool(KeyVerifyURL, s.VerifyURL)
	collect(err)
	s.ElementCache, err = c.Bool(KeyElementCache, s.ElementCache)
	collect(err)
	s.ReportingEnabled, err = c.Bool(KeyReportingEnabled, s.ReportingEnabled)
	collect(err)
	s.Headless, err = c.Bool(KeyHeadless, s.Headless)
	collect(err)
	s.Timeout, err = c.Duration(KeyTimeout, s.Timeout)
	collect(err)
	s.PollInterval, err = c.Duration(KeyPollInterval, s.PollInterval)
	collect(err)
	s.PreInitDelay, err = c.Duration(KeyPreInitDelay, s.PreInitDelay)
	collect(err)

	return s, errors.Join(errs...)
}

// Standard builds the usual layer stack: explicit values, then the
// environment with ".env", then the YAML resource file. An empty
// resourceFile means DefaultFile.
func Standard(explicit map[string]string, resourceFile string) (*Config, error) {
	if resourceFile == "" {
		resourceFile = DefaultFile
	}
	env, err := Env(".env")
	if err != nil {
		return nil, err
	}
	file, err := File(resourceFile)
	if err != nil {
		return nil, err
	}
	return New(Explicit(explicit), env, file), nil
}
