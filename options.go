package multicsv

import "github.com/go-logr/logr"

type Option interface {
	configure(*Iterator)
}

type optionFunc func(*Iterator)

func (fn optionFunc) configure(i *Iterator) { fn(i) }

// WithLogger sets the logger that receives source transitions (at V(1)) and failures.
func WithLogger(logger logr.Logger) Option {
	return optionFunc(func(i *Iterator) { i.logger = logger })
}
