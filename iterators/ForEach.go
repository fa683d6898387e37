package iterators

import (
	"errors"

	"github.com/patternkit/multicsv/pkg/errorkit"
)

// Break can be returned from a ForEach block to stop the iteration without an error.
const Break errorkit.Error = `iterators:break`

func ForEach[T any](i Iterator[T], fn func(T) error) (rErr error) {
	defer errorkit.Finish(&rErr, i.Close)
	for i.Next() {
		err := fn(i.Value())
		if errors.Is(err, Break) {
			break
		}
		if err != nil {
			return err
		}
	}
	return i.Err()
}
