// Package cli implements the pagekit command line.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/entrhq/pagekit/pkg/config"
	"github.com/entrhq/pagekit/pkg/web"
)

// Version is set at build time with -ldflags "-X ...cli.Version=v1.2.3".
var Version = "dev"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// Launcher starts a browser for the given settings.
type Launcher func(s config.Settings, opts ...web.BrowserOption) (*web.Browser, error)

// NewRootCommand creates the root command, launching Playwright browsers.
func NewRootCommand() *cobra.Command {
	return newRootCommand(web.Launch)
}

func newRootCommand(launch Launcher) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pagekit",
		Short: "Page object toolkit for browser tests",
		Long:  "Probe web pages against declarative page descriptions.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log to stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(newProbeCommand(opts, launch))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the pagekit version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "pagekit %s\n", Version)
			return err
		},
	}
}
