package multicsv

import (
	"fmt"

	"github.com/patternkit/multicsv/pkg/errorkit"
)

const (
	// ErrConfiguration means the iterator could not be constructed from the given arguments.
	ErrConfiguration errorkit.Error = "multicsv: invalid configuration"
	// ErrSourceRead means a source could not be loaded, or one of its rows lacks the designated column.
	// It is fatal for the whole iteration.
	ErrSourceRead errorkit.Error = "multicsv: source read failed"
)

// Op names the step of the iteration a SourceError happened in.
type Op string

const (
	OpLoad    Op = "load"
	OpRead    Op = "read"
	OpRelease Op = "release"
)

// SourceError describes a failed source with enough detail to locate the problem.
// It matches ErrSourceRead with errors.Is, and unwraps to the underlying cause.
type SourceError struct {
	Op     Op
	Source string
	// Index is the position of the source in the source list.
	Index int
	// Row is the data row being read, zero based, excluding the header.
	Row    int
	Column string
	Err    error
}

func (err *SourceError) Error() string {
	switch err.Op {
	case OpRead:
		return fmt.Sprintf("%s: %s column %q at row %d of source %q (#%d): %v",
			ErrSourceRead, err.Op, err.Column, err.Row, err.Source, err.Index, err.Err)
	default:
		return fmt.Sprintf("%s: %s source %q (#%d): %v",
			ErrSourceRead, err.Op, err.Source, err.Index, err.Err)
	}
}

func (err *SourceError) Unwrap() error { return err.Err }

func (err *SourceError) Is(target error) bool { return target == ErrSourceRead }
