package iterators

import "iter"

// Seq exposes the iterator as a range-over-func sequence.
// A failure is yielded once, as the second value, and ends the sequence.
// The iterator is closed when the range loop finishes.
func Seq[T any](i Iterator[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		defer i.Close()
		for i.Next() {
			if !yield(i.Value(), nil) {
				return
			}
		}
		if err := i.Err(); err != nil {
			var zero T
			yield(zero, err)
		}
	}
}
