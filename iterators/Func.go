package iterators

import "github.com/patternkit/multicsv/pkg/errorkit"

// Func enables you to create an iterator with a lambda expression.
// The next function reports a value with ok=true,
// exhaustion with ok=false and a nil error,
// and failure with a non-nil error.
// In case you need to close the currently mapped resource, use the OnClose callback option.
func Func[T any](next func() (v T, ok bool, err error), opts ...CallbackOption) Iterator[T] {
	return WithCallback[T](&funcIter[T]{NextFn: next}, opts...)
}

type funcIter[T any] struct {
	NextFn func() (v T, ok bool, err error)

	done  bool
	value T
	err   error
}

func (i *funcIter[T]) Close() error {
	i.done = true
	return nil
}

func (i *funcIter[T]) Err() error {
	return i.err
}

func (i *funcIter[T]) Next() bool {
	if i.done || i.err != nil {
		return false
	}
	value, ok, err := i.NextFn()
	if err != nil {
		i.err = err
		return false
	}
	if !ok {
		i.done = true
		return false
	}
	i.value = value
	return true
}

func (i *funcIter[T]) Value() T {
	return i.value
}

type CallbackOption interface {
	configure(c *callbackConfig)
}

type callbackConfig struct {
	OnClose []func() error
}

type callbackFunc func(c *callbackConfig)

func (fn callbackFunc) configure(c *callbackConfig) { fn(c) }

// OnClose registers a function that runs after the wrapped iterator is closed.
func OnClose(fn func() error) CallbackOption {
	return callbackFunc(func(c *callbackConfig) {
		c.OnClose = append(c.OnClose, fn)
	})
}

func WithCallback[T any](i Iterator[T], opts ...CallbackOption) Iterator[T] {
	if len(opts) == 0 {
		return i
	}
	var c callbackConfig
	for _, opt := range opts {
		opt.configure(&c)
	}
	return &callbackIter[T]{Iterator: i, Config: c}
}

type callbackIter[T any] struct {
	Iterator[T]
	Config callbackConfig
}

func (i *callbackIter[T]) Close() error {
	errs := []error{i.Iterator.Close()}
	for _, onClose := range i.Config.OnClose {
		errs = append(errs, onClose())
	}
	return errorkit.Merge(errs...)
}
