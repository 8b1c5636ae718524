package parser

import (
	"context"
	"fmt"
	"time"
)

// Pool bounds how many symbolic computations run at once. Each unit of work
// runs on its own goroutine so a caller can stop waiting for it; abandoned
// work keeps its slot until it returns.
type Pool struct {
	slots chan struct{}
}

// NewPool returns a pool running at most n jobs at a time.
func NewPool(n int) *Pool {
	if n <= 0 {
		n = 1
	}

	return &Pool{slots: make(chan struct{}, n)}
}

// Do runs fn on a worker and waits for it, for the timeout or for ctx. On
// timeout it returns ErrTimeout and whatever fn produces later is dropped.
// Time spent waiting for a free worker counts against the timeout.
func (p *Pool) Do(ctx context.Context, timeout time.Duration, fn func() error) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return ctxErr(ctx)
	}

	done := make(chan error, 1)
	go func() {
		defer func() { <-p.slots }()
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("computation failed: %v", r)
			}
		}()
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctxErr(ctx)
	}
}

func ctxErr(ctx context.Context) error {
	if ctx.Err() == context.DeadlineExceeded {
		return ErrTimeout
	}

	return ctx.Err()
}
