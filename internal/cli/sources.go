package cli

import (
	"fmt"

	"github.com/patternkit/multicsv/iterators"
	"github.com/patternkit/multicsv/pkg/errorkit"
	"github.com/spf13/cobra"
)

func newSourcesCommand(app *App) *cobra.Command {
	var flags sourceFlags
	cmd := &cobra.Command{
		Use:   "sources [file...]",
		Short: "Print the sources in the order they would be iterated",
		RunE: func(cmd *cobra.Command, args []string) (rErr error) {
			s, err := app.open(cmd.Context(), flags, args)
			if err != nil {
				return err
			}
			defer errorkit.Finish(&rErr, s.Close)
			return iterators.ForEach(iterators.Slice(s.Sources.IDs()), func(id string) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), id)
				return err
			})
		},
	}
	flags.register(cmd, app.Config)
	return cmd
}
