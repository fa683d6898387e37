package cli

import (
	"fmt"

	"github.com/patternkit/multicsv/pkg/errorkit"
	"github.com/patternkit/multicsv/tabular/boltstore"
	"github.com/patternkit/multicsv/tabular/csvloader"
	"github.com/spf13/cobra"
)

const ErrNoStore errorkit.Error = "the import target is missing, use --bolt or MULTICSV_BOLT_PATH"

func newImportCommand(app *App) *cobra.Command {
	var flags sourceFlags
	cmd := &cobra.Command{
		Use:   "import --bolt PATH [file...]",
		Short: "Copy CSV sources into a bolt table store",
		Long: `Load every file source and save it into the bolt table store under its base name.
An existing table with the same name is replaced and keeps its position in the store order.`,
		RunE: func(cmd *cobra.Command, args []string) (rErr error) {
			if flags.Bolt == "" {
				return ErrNoStore
			}
			files := flags
			files.Bolt = ""
			list, err := app.listFiles(files, args)
			if err != nil {
				return err
			}
			store, err := boltstore.Open(flags.Bolt)
			if err != nil {
				return err
			}
			defer errorkit.Finish(&rErr, store.Close)

			ctx := cmd.Context()
			loader := csvloader.Loader{FS: app.FS}
			for _, source := range list.IDs() {
				records, err := loader.LoadRecords(ctx, source)
				if err != nil {
					return err
				}
				key, err := store.Save(ctx, storeKey(source), records)
				if err != nil {
					return errorkit.Merge(err, records.Close())
				}
				app.Logger.V(1).Info("source imported", "source", source, "key", key, "rows", records.Len(), "checksum", records.Checksum)
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d\n", source, key, records.Len()); err != nil {
					return err
				}
				if err := records.Close(); err != nil {
					return err
				}
			}
			return nil
		},
	}
	flags.register(cmd, app.Config)
	return cmd
}
