package multicsv

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/patternkit/multicsv/iterators"
	"github.com/patternkit/multicsv/sources"
	"github.com/patternkit/multicsv/tabular"
)

var _ iterators.Iterator[string] = &Iterator{}

// New constructs an Iterator and eagerly loads the first source.
//
// An empty source list, an empty column name or a missing loader is an ErrConfiguration.
// When the first source fails to load, the error matches ErrSourceRead and no iterator is returned.
// The context is passed to every Loader.Load call the iterator makes.
func New(ctx context.Context, list sources.List, column string, loader tabular.Loader, opts ...Option) (*Iterator, error) {
	switch {
	case list.IsEmpty():
		return nil, ErrConfiguration.F("the source list is empty")
	case column == "":
		return nil, ErrConfiguration.F("the designated column name is empty")
	case loader == nil:
		return nil, ErrConfiguration.F("no table loader was given")
	}
	i := &Iterator{
		ctx:     ctx,
		sources: list,
		column:  column,
		loader:  loader,
		logger:  logr.Discard(),
	}
	for _, opt := range opts {
		opt.configure(i)
	}
	if err := i.load(0); err != nil {
		return nil, err
	}
	return i, nil
}

// Iterator yields the designated column of every row of every source,
// in source order first and row order second.
//
// It is meant for a single consumer and is not safe for concurrent use.
type Iterator struct {
	ctx     context.Context
	sources sources.List
	column  string
	loader  tabular.Loader
	logger  logr.Logger

	state  State
	cursor Cursor
	table  tabular.Table
	err    error
	value  string
	count  int
}

// NextValue returns the next value of the sequence.
//
// ok is false once the iterator is exhausted; this is not an error, and every later call reports the same.
// A non-nil error is a *SourceError; it is kept and returned by every later call as well.
// A row that lacks the designated column fails without moving the cursor.
func (i *Iterator) NextValue() (value string, ok bool, err error) {
	switch i.state {
	case Exhausted:
		return "", false, nil
	case Failed:
		return "", false, i.err
	}
	for i.table.Len() <= i.cursor.Row {
		if i.cursor.Source == i.sources.Len()-1 {
			return "", false, i.exhaust()
		}
		next := i.cursor.Source + 1
		if err := i.release(); err != nil {
			return "", false, err
		}
		if err := i.load(next); err != nil {
			return "", false, err
		}
	}
	value, err = i.table.Value(i.cursor.Row, i.column)
	if err != nil {
		return "", false, i.fail(&SourceError{
			Op:     OpRead,
			Source: i.Source(),
			Index:  i.cursor.Source,
			Row:    i.cursor.Row,
			Column: i.column,
			Err:    err,
		})
	}
	i.cursor.Row++
	i.count++
	return value, true, nil
}

func (i *Iterator) Next() bool {
	value, ok, err := i.NextValue()
	if err != nil || !ok {
		return false
	}
	i.value = value
	return true
}

// Value returns the value of the last successful Next call.
func (i *Iterator) Value() string { return i.value }

// Err returns the failure that stopped the iteration, if any.
func (i *Iterator) Err() error { return i.err }

// Close releases the active table and ends the iteration.
// A failed iterator keeps reporting its failure.
func (i *Iterator) Close() error {
	t := i.table
	i.table = nil
	if i.state != Failed {
		i.state = Exhausted
	}
	if t == nil {
		return nil
	}
	return t.Close()
}

func (i *Iterator) State() State { return i.state }

func (i *Iterator) Cursor() Cursor { return i.cursor }

// Source returns the identifier of the source the cursor points at.
func (i *Iterator) Source() string { return i.sources.At(i.cursor.Source) }

func (i *Iterator) Sources() sources.List { return i.sources }

func (i *Iterator) load(index int) error {
	i.state = Loading
	i.cursor = Cursor{Source: index}
	id := i.sources.At(index)
	t, err := i.loader.Load(i.ctx, id)
	if err != nil {
		return i.fail(&SourceError{Op: OpLoad, Source: id, Index: index, Column: i.column, Err: err})
	}
	i.table = t
	i.state = Yielding

	if log := i.logger.V(1); log.Enabled() {
		kvs := []any{"source", id, "index", index, "rows", t.Len()}
		if r, ok := t.(*tabular.Records); ok && r.Checksum != 0 {
			kvs = append(kvs, "checksum", r.Checksum)
		}
		log.Info("source loaded", kvs...)
		if t.Len() == 0 {
			log.Info("empty source skipped", "source", id, "index", index)
		}
	}
	return nil
}

// release drops the active table before anything else is loaded,
// so no more than one table is held at any time.
func (i *Iterator) release() error {
	t := i.table
	if t == nil {
		return nil
	}
	i.table = nil
	if err := t.Close(); err != nil {
		return i.fail(&SourceError{Op: OpRelease, Source: i.Source(), Index: i.cursor.Source, Row: i.cursor.Row, Column: i.column, Err: err})
	}
	return nil
}

func (i *Iterator) exhaust() error {
	if err := i.release(); err != nil {
		return err
	}
	i.state = Exhausted
	i.logger.V(1).Info("sources exhausted", "sources", i.sources.Len(), "values", i.count)
	return nil
}

func (i *Iterator) fail(err *SourceError) error {
	i.state = Failed
	i.err = err
	i.logger.Error(err.Err, "source read failed",
		"op", string(err.Op), "source", err.Source, "index", err.Index, "row", err.Row, "column", err.Column)
	return err
}
