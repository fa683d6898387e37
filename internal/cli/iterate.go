package cli

import (
	"fmt"

	"github.com/patternkit/multicsv/iterators"
	"github.com/patternkit/multicsv/pkg/errorkit"
	"github.com/spf13/cobra"
)

func newIterateCommand(app *App) *cobra.Command {
	var (
		flags sourceFlags
		limit int
		count bool
	)
	cmd := &cobra.Command{
		Use:   "iterate [file...]",
		Short: "Print the designated column of every row of every source",
		Long: `Print the designated column of every row of every source, one value per line.
Sources without rows are skipped. The first unreadable source or row stops the command with an error.`,
		RunE: func(cmd *cobra.Command, args []string) (rErr error) {
			ctx := cmd.Context()
			s, err := app.open(ctx, flags, args)
			if err != nil {
				return err
			}
			defer errorkit.Finish(&rErr, s.Close)

			it, err := app.iterator(ctx, s, flags.Column)
			if err != nil {
				return err
			}
			var values iterators.Iterator[string] = it
			if 0 < limit {
				values = iterators.Head(values, limit)
			}
			if count {
				n, err := iterators.Count(values)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), n)
				return err
			}
			return iterators.ForEach(values, func(v string) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), v)
				return err
			})
		},
	}
	flags.register(cmd, app.Config)
	cmd.Flags().IntVar(&limit, "limit", 0, "stop after this many values, 0 means no limit")
	cmd.Flags().BoolVar(&count, "count", false, "print the number of values instead of the values")
	return cmd
}
