package iterators

// Stub wraps an iterator and lets tests override any of its methods.
func Stub[T any](i Iterator[T]) *StubIter[T] {
	return &StubIter[T]{
		Iterator:  i,
		StubClose: i.Close,
		StubNext:  i.Next,
		StubErr:   i.Err,
		StubValue: i.Value,
	}
}

type StubIter[T any] struct {
	Iterator  Iterator[T]
	StubClose func() error
	StubNext  func() bool
	StubErr   func() error
	StubValue func() T
}

func (m *StubIter[T]) Close() error { return m.StubClose() }
func (m *StubIter[T]) Next() bool   { return m.StubNext() }
func (m *StubIter[T]) Err() error   { return m.StubErr() }
func (m *StubIter[T]) Value() T     { return m.StubValue() }
