// Package cli is the multicsv command tree.
package cli

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/patternkit/multicsv"
	"github.com/patternkit/multicsv/internal/config"
	"github.com/patternkit/multicsv/pkg/errorkit"
	"github.com/patternkit/multicsv/sources"
	"github.com/patternkit/multicsv/tabular"
	"github.com/patternkit/multicsv/tabular/boltstore"
	"github.com/patternkit/multicsv/tabular/csvloader"
	"github.com/spf13/cobra"
)

const ErrNoSources errorkit.Error = "no sources were given, use file arguments, --dir or --bolt"

// App carries everything a command needs, so no command depends on package level state.
type App struct {
	Config config.Config
	Logger logr.Logger

	Stdin  io.ReadCloser
	Stdout io.Writer
	Stderr io.Writer
	// FS is where file sources are read from.
	// When nil, paths are opened from the operating system.
	FS fs.FS
}

// NewCommand builds the root command with every subcommand attached.
func NewCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "multicsv",
		Short: "Read one column across many CSV files as a single sequence",
		Long: `multicsv reads the designated column of every row of every source,
source by source, keeping only one source in memory at a time.

Sources are CSV files (optionally .gz or .zst compressed, .tsv for tab separated data)
given as arguments or listed from a directory, or tables imported into a bolt store.

Examples:
  multicsv iterate a.csv b.csv
  multicsv iterate --dir ./data --sort --match '*.csv' --column price
  multicsv import --bolt tables.db ./data/*.csv
  multicsv repl --bolt tables.db`,
		SilenceUsage: true,
	}
	if app.Stdout != nil {
		root.SetOut(app.Stdout)
	}
	if app.Stderr != nil {
		root.SetErr(app.Stderr)
	}
	if app.Stdin != nil {
		root.SetIn(app.Stdin)
	}
	root.AddCommand(
		newIterateCommand(app),
		newSourcesCommand(app),
		newImportCommand(app),
		newReplCommand(app),
	)
	return root
}

// sourceFlags are shared by every command that works on a list of sources.
type sourceFlags struct {
	Dir    string
	Match  []string
	Sort   bool
	Bolt   string
	Column string
}

func (f *sourceFlags) register(cmd *cobra.Command, c config.Config) {
	flags := cmd.Flags()
	flags.StringVar(&f.Dir, "dir", "", "list the sources from this directory")
	flags.StringSliceVar(&f.Match, "match", c.Match, "keep only directory entries matching these file name patterns")
	flags.BoolVar(&f.Sort, "sort", c.Sort, "order directory entries by name instead of the directory order")
	flags.StringVar(&f.Bolt, "bolt", c.BoltPath, "read the sources from this bolt table store")
	flags.StringVar(&f.Column, "column", c.Column, "the designated column")
}

// session is an opened set of sources with the loader that serves them.
type session struct {
	Sources sources.List
	Loader  tabular.Loader
	close   func() error
}

func (s session) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func (app *App) open(ctx context.Context, flags sourceFlags, args []string) (session, error) {
	if flags.Bolt != "" {
		return app.openBolt(ctx, flags.Bolt, args)
	}
	list, err := app.listFiles(flags, args)
	if err != nil {
		return session{}, err
	}
	return session{Sources: list, Loader: csvloader.Loader{FS: app.FS}}, nil
}

func (app *App) openBolt(ctx context.Context, dbPath string, args []string) (session, error) {
	store, err := boltstore.Open(dbPath)
	if err != nil {
		return session{}, err
	}
	list := sources.New(args...)
	if list.IsEmpty() {
		list, err = store.Sources(ctx)
		if err != nil {
			return session{}, errorkit.Merge(err, store.Close())
		}
	}
	return session{Sources: list, Loader: store, close: store.Close}, nil
}

func (app *App) listFiles(flags sourceFlags, args []string) (sources.List, error) {
	var ids []string
	ids = append(ids, args...)
	if flags.Dir != "" {
		var opts []sources.DirOption
		if flags.Sort {
			opts = append(opts, sources.Sorted())
		}
		if len(flags.Match) != 0 {
			opts = append(opts, sources.Match(flags.Match...))
		}
		fsys, dir := app.FS, flags.Dir
		if fsys == nil {
			fsys, dir = os.DirFS(flags.Dir), "."
		}
		list, err := sources.FromDir(fsys, dir, opts...)
		if err != nil {
			return sources.List{}, err
		}
		for _, id := range list.IDs() {
			if app.FS == nil {
				id = filepath.Join(flags.Dir, filepath.FromSlash(id))
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return sources.List{}, ErrNoSources
	}
	return sources.New(ids...), nil
}

func (app *App) iterator(ctx context.Context, s session, column string) (*multicsv.Iterator, error) {
	return multicsv.New(ctx, s.Sources, column, s.Loader, multicsv.WithLogger(app.Logger))
}

// storeKey is the identifier an imported source is saved under.
func storeKey(source string) string {
	return path.Base(filepath.ToSlash(source))
}
