package commands

import (
	"io"

	"github.com/spf13/cobra"
)

func newFormatCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "format <file>",
		Short: "Print a script with directive indentation removed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := load(cmd.Context(), opts, args)
			if err != nil {
				return err
			}
			for _, id := range l.docs {
				text := applyEdits(l.doc(id).Text, l.state.Workspace.Format(id))
				if _, err := io.WriteString(cmd.OutOrStdout(), text); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
