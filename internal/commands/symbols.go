package commands

import (
	"fmt"

	"github.com/shinyvision/hsp3ls/internal/source"
	"github.com/spf13/cobra"
)

func newSymbolsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "symbols <file>",
		Short: "Print the symbols defined by a script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := load(cmd.Context(), opts, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, id := range l.docs {
				text := l.doc(id).Text
				for _, s := range l.state.Workspace.DocSymbols(id) {
					start := s.Loc.Start()
					fmt.Fprintf(out, "%d:%d\t%s\t%s\n",
						start.Row+1, source.UTF16Col(text, start)+1, s.Symbol.KindLabel(), s.Symbol.Name)
				}
			}
			return nil
		},
	}
}
