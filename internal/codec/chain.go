package codec

import (
	"context"
	"errors"
	"fmt"
)

// Attempt is one strategy in a fallback chain.
type Attempt[T any] struct {
	Name string
	Run  func(ctx context.Context) (T, error)
}

// Outcome is the result of running a fallback chain: either the value of
// the first attempt that succeeded, or every attempt's error.
type Outcome[T any] struct {
	Value  T
	Winner string
	// Index is the position of the winning attempt, -1 when all failed.
	Index  int
	Errors []error
}

// OK reports whether some attempt succeeded.
func (o Outcome[T]) OK() bool {
	return o.Index >= 0
}

// Err joins the errors of the failed attempts.
func (o Outcome[T]) Err() error {
	if o.OK() {
		return nil
	}
	if len(o.Errors) == 0 {
		return errors.New("no strategies to attempt")
	}
	return errors.Join(o.Errors...)
}

// RunChain tries attempts in order and stops at the first success. It also
// stops once ctx is done; the remaining attempts are not run.
func RunChain[T any](ctx context.Context, attempts []Attempt[T]) Outcome[T] {
	out := Outcome[T]{Index: -1}
	for i, a := range attempts {
		if err := ctx.Err(); err != nil {
			out.Errors = append(out.Errors, fmt.Errorf("%s: %w", a.Name, err))
			return out
		}
		v, err := a.Run(ctx)
		if err == nil {
			out.Value, out.Winner, out.Index = v, a.Name, i
			return out
		}
		out.Errors = append(out.Errors, fmt.Errorf("%s: %w", a.Name, err))
	}
	return out
}
