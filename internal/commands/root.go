// Package commands is the hsp3ls command line.
package commands

import (
	"errors"

	"github.com/shinyvision/hsp3ls/internal/config"
	"github.com/shinyvision/hsp3ls/internal/server"
	"github.com/spf13/cobra"
)

// ErrProblems is returned by check when a file has errors.
var ErrProblems = errors.New("errors found")

type options struct {
	hsp3Root  string
	logFile   string
	verbosity int
	version   string
}

// NewRootCommand builds the command tree. Running it without a
// subcommand starts the language server.
func NewRootCommand(version string) *cobra.Command {
	opts := &options{version: version}

	root := &cobra.Command{
		Use:           "hsp3ls",
		Short:         "Language server for HSP3",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			opts.config().ConfigureLogging()
			server.SetVersion(opts.version)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLSP(opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.hsp3Root, "hsp3-root", "", "HSP3 install directory (defaults to $"+config.RootEnv+")")
	flags.StringVar(&opts.logFile, "log-file", "", "log file path")
	flags.CountVarP(&opts.verbosity, "verbose", "v", "increase log verbosity")
	// Clients commonly pass --stdio; it is the only transport.
	flags.Bool("stdio", true, "communicate over stdio")
	_ = flags.MarkHidden("stdio")

	root.AddCommand(
		newLSPCommand(opts),
		newCheckCommand(opts),
		newSymbolsCommand(opts),
		newFormatCommand(opts),
		newVersionCommand(opts),
	)
	return root
}

// config builds the configuration for one run from the flags.
func (o *options) config() *config.Config {
	cfg := config.NewConfig()
	cfg.Verbosity = o.verbosity
	if o.hsp3Root != "" {
		cfg.HSP3Root = o.hsp3Root
	}
	if o.logFile != "" {
		cfg.LogFile = o.logFile
	}
	return cfg
}
