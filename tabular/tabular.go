// Package tabular defines the table abstraction a single source is loaded into,
// and the loader contract that turns a source identifier into such a table.
package tabular

import (
	"context"
	"io"

	"github.com/patternkit/multicsv/pkg/errorkit"
)

const (
	ErrColumnNotFound errorkit.Error = "column not found"
	ErrRowOutOfRange  errorkit.Error = "row out of range"
	ErrMalformed      errorkit.Error = "malformed table"
	ErrSourceNotFound errorkit.Error = "source not found"
)

// Table is the in-memory content of one source.
// Rows are addressed by their zero based index and columns by their header name.
type Table interface {
	// Closer releases the rows held by the table.
	// A closed table reports zero length.
	io.Closer
	// Len returns the number of data rows, excluding the header.
	Len() int
	// Value returns the value of the named column in the given row.
	// A column that the header or the row itself lacks yields ErrColumnNotFound.
	Value(row int, column string) (string, error)
}

// Loader opens a source by its identifier and loads it as a Table.
type Loader interface {
	Load(ctx context.Context, source string) (Table, error)
}

type LoaderFunc func(ctx context.Context, source string) (Table, error)

func (fn LoaderFunc) Load(ctx context.Context, source string) (Table, error) { return fn(ctx, source) }
