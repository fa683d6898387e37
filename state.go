package multicsv

import "fmt"

// State is the lifecycle phase of an Iterator.
type State int

const (
	// Loading is the state while a source is being opened by the Loader.
	Loading State = iota
	// Yielding means the active source is open and values are being read from it.
	Yielding
	// Exhausted is terminal: every value of every source has been returned, or the iterator was closed.
	Exhausted
	// Failed is terminal: a source could not be read, and the failure is kept in Err.
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Yielding:
		return "yielding"
	case Exhausted:
		return "exhausted"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Cursor is the iteration position.
// Source is the index of the active source and Row is the next row to read from it.
type Cursor struct {
	Source int
	Row    int
}

func (c Cursor) String() string {
	return fmt.Sprintf("source=%d row=%d", c.Source, c.Row)
}
