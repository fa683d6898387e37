package iterators

import "github.com/patternkit/multicsv/pkg/errorkit"

// Collect drains the iterator into a slice and closes it.
func Collect[T any](i Iterator[T]) (vs []T, rErr error) {
	defer errorkit.Finish(&rErr, i.Close)
	vs = make([]T, 0)
	for i.Next() {
		vs = append(vs, i.Value())
	}
	return vs, i.Err()
}

// Count will iterate over and count the total iterations number
//
// Good when all you want is count all the elements in an iterator but don't want to do anything else.
func Count[T any](i Iterator[T]) (total int, rErr error) {
	defer errorkit.Finish(&rErr, i.Close)
	for i.Next() {
		total++
	}
	return total, i.Err()
}
