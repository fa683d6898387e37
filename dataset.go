package multicsv

import (
	"context"
	"io/fs"
	"iter"

	"github.com/patternkit/multicsv/iterators"
	"github.com/patternkit/multicsv/sources"
	"github.com/patternkit/multicsv/tabular"
	"github.com/patternkit/multicsv/tabular/csvloader"
)

// Dataset is an iterable collection of sources.
// Each call to Iterator or All starts a fresh pass from the first source.
type Dataset struct {
	Sources sources.List
	Loader  tabular.Loader
	Column  string
}

// OpenDir creates a Dataset over the CSV files of dir.
// The directory order is kept unless the sources.Sorted option is given.
func OpenDir(fsys fs.FS, dir, column string, opts ...sources.DirOption) (Dataset, error) {
	list, err := sources.FromDir(fsys, dir, opts...)
	if err != nil {
		return Dataset{}, err
	}
	return Dataset{
		Sources: list,
		Loader:  csvloader.Loader{FS: fsys},
		Column:  column,
	}, nil
}

func (d Dataset) Iterator(ctx context.Context, opts ...Option) (*Iterator, error) {
	return New(ctx, d.Sources, d.Column, d.Loader, opts...)
}

// Values returns the dataset's values as an iterators.Iterator.
// A construction failure is reported through the iterator's Err.
func (d Dataset) Values(ctx context.Context, opts ...Option) iterators.Iterator[string] {
	it, err := d.Iterator(ctx, opts...)
	if err != nil {
		return iterators.Error[string](err)
	}
	return it
}

// All returns the dataset's values as a range-over-func sequence.
// A construction or read failure is yielded once as the error value and ends the sequence.
func (d Dataset) All(ctx context.Context, opts ...Option) iter.Seq2[string, error] {
	return iterators.Seq(d.Values(ctx, opts...))
}
