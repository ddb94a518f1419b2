package ticket

import (
	"context"
	"time"

	"github.com/maintdesk/ticket-intake/pkg/types/errs"
)

// race runs f against an independent timer. Losing the race yields a
// TimeoutError carrying the operation's label; the slower operation is
// abandoned, not cancelled, and its eventual result is ignored.
func race[T any](ctx context.Context, budget time.Duration, op string, f func(ctx context.Context) (T, error)) (T, error) {
	type outcome struct {
		v   T
		err error
	}

	done := make(chan outcome, 1)

	go func() {
		v, err := f(ctx)
		done <- outcome{v, err}
	}()

	timer := time.NewTimer(budget)
	defer timer.Stop()

	select {
	case o := <-done:
		return o.v, o.err
	case <-timer.C:
		var zero T
		return zero, &errs.TimeoutError{Op: op, Budget: budget}
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
