package app

import (
	"context"
)

// Finisher runs a recording's Finalize off the caller's goroutine so a host
// loop keeps ticking while the encoder drains. Cancelling the context aborts
// the finalize in flight.
type Finisher struct {
	done chan error
	err  error
	over bool
}

// Finish starts finalizing rec in the background.
func Finish(ctx context.Context, rec Recording) *Finisher {
	f := &Finisher{done: make(chan error, 1)}
	stop := context.AfterFunc(ctx, func() { _ = rec.Abort() })
	go func() {
		err := rec.Finalize()
		stop()
		f.done <- err
	}()
	return f
}

// Poll reports whether Finalize has returned, and its result once it has.
// It never blocks.
func (f *Finisher) Poll() (bool, error) {
	if f.over {
		return true, f.err
	}
	select {
	case err := <-f.done:
		f.over, f.err = true, err
		return true, err
	default:
		return false, nil
	}
}

// Wait blocks until Finalize returns.
func (f *Finisher) Wait() error {
	if !f.over {
		f.err = <-f.done
		f.over = true
	}
	return f.err
}
