package commands

import (
	"fmt"

	"github.com/shinyvision/hsp3ls/internal/analysis"
	"github.com/shinyvision/hsp3ls/internal/source"
	"github.com/spf13/cobra"
)

func newCheckCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Print the diagnostics of HSP3 scripts",
		Long: `Analyses the given scripts together with the common directory of the
HSP3 install and prints one line per problem:

  path:row:col: severity: message

The exit status is 1 when an error was found.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := load(cmd.Context(), opts, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := false
			for _, id := range l.docs {
				doc := l.doc(id)
				for _, d := range l.state.Workspace.Diagnose(id, l.state.Config.LintEnabled) {
					start := d.Loc.Start()
					fmt.Fprintf(out, "%s:%d:%d: %s: %s\n",
						doc.Path, start.Row+1, source.UTF16Col(doc.Text, start)+1, d.Severity, d.Message)
					if d.Severity == analysis.SeverityError {
						failed = true
					}
				}
			}
			if failed {
				return ErrProblems
			}
			return nil
		},
	}
}
