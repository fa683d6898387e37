// Package iteratorcontracts holds reusable test contracts that every iterators.Iterator implementation must pass.
package iteratorcontracts

import (
	"context"
	"testing"
	"time"

	"github.com/patternkit/multicsv/iterators"
	"go.llib.dev/testcase"
	"go.llib.dev/testcase/assert"
)

// Iterator is a contract for a non-empty iterator that can be constructed fresh per test.
type Iterator[V any] func(tb testing.TB) iterators.Iterator[V]

func (c Iterator[V]) Spec(s *testcase.Spec) {
	s.Describe("it behaves like an iterator", func(s *testcase.Spec) {
		subject := testcase.Let(s, func(t *testcase.T) iterators.Iterator[V] {
			return c(t)
		})

		s.Then("values can be collected from the iterator", func(t *testcase.T) {
			vs, err := iterators.Collect[V](subject.Get(t))
			t.Must.NoError(err)
			t.Must.NotEmpty(vs)
		})

		s.Then("closing the iterator is possible, even multiple times, without an issue", func(t *testcase.T) {
			sub := subject.Get(t)
			for i, n := 0, t.Random.IntB(3, 7); i < n; i++ {
				t.Must.NoError(sub.Close())
				t.Must.NoError(sub.Err())
			}
		})

		s.Then("Next keeps reporting false once the iterator is drained", func(t *testcase.T) {
			sub := subject.Get(t)
			for sub.Next() {
			}
			for i, n := 0, t.Random.IntB(2, 5); i < n; i++ {
				t.Must.False(sub.Next())
			}
			t.Must.NoError(sub.Err())
			t.Must.NoError(sub.Close())
		})

		s.Test("Iterator.Err() method is non-blocking similarly to context.Context.Err()", func(t *testcase.T) {
			const timeout = 250 * time.Millisecond
			assert.Within(t, timeout, func(ctx context.Context) {
				assert.NoError(t, subject.Get(t).Err())
			})
		})

		s.When("iterator is closed", func(s *testcase.Spec) {
			s.Before(func(t *testcase.T) {
				t.Must.NoError(subject.Get(t).Close())
			})

			s.Then("no more value is iterated", func(t *testcase.T) {
				vs, err := iterators.Collect(subject.Get(t))
				t.Must.NoError(err)
				t.Must.Empty(vs)
			})
		})
	})
}

func (c Iterator[V]) Test(t *testing.T) {
	c.Spec(testcase.NewSpec(t))
}
