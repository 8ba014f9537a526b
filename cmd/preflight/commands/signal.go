package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
)

// signalError reports the pipeline was interrupted. It exits like a shell would, 128 + signal.
type signalError struct {
	sig os.Signal
}

func (e *signalError) Error() string {
	return fmt.Sprintf("interrupted by %s", e.sig)
}

func (e *signalError) ExitCode() int {
	if sig, ok := e.sig.(syscall.Signal); ok {
		return 128 + int(sig)
	}

	return 1
}

func runUntilSignal(ctx context.Context, fn func(ctx context.Context) error) error {
	sigC := make(chan os.Signal, 1)
	signal.Notify(sigC, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigC)

	return runUntil(ctx, fn, sigC)
}

// runUntil runs fn and cancels its context when a signal is received on sigC.
func runUntil(ctx context.Context, fn func(ctx context.Context) error, sigC <-chan os.Signal) error {
	grp, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	grp.Go(func() error {
		defer close(done)

		return fn(gctx)
	})

	grp.Go(func() error {
		select {
		case sig := <-sigC:
			return &signalError{sig: sig}
		case <-done:
			return nil
		}
	})

	return grp.Wait()
}
