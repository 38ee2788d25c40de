package commands

import (
	"os"

	"github.com/shinyvision/hsp3ls/internal/server"
	"github.com/spf13/cobra"
)

func newLSPCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Run the language server over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLSP(opts)
		},
	}
}

func runLSP(opts *options) error {
	cfg := opts.config()
	if cwd, err := os.Getwd(); err == nil {
		cfg.WorkspaceRoot = cwd
	}
	return server.NewServer(cfg).Run()
}
