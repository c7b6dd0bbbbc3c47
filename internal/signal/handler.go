// Package signal turns SIGINT and SIGTERM into context cancellation for the
// crewchief CLI, so an in-flight LLM request or TUI session ends cleanly.
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Handler cancels a context when the process is interrupted.
type Handler struct {
	sigCh  chan os.Signal
	cancel context.CancelFunc
	done   chan struct{}

	mu       sync.Mutex
	received os.Signal
	stopOnce sync.Once
}

// WithInterrupt returns a context that is cancelled on the first SIGINT or
// SIGTERM. onInterrupt, if non-nil, runs before the cancellation. Call Stop
// when the command finishes to release the signal registration.
//
// Example usage:
//
//	ctx, h := signal.WithInterrupt(context.Background(), func(os.Signal) {
//	    logging.Warn("Interrupted, cancelling request...")
//	})
//	defer h.Stop()
func WithInterrupt(parent context.Context, onInterrupt func(os.Signal)) (context.Context, *Handler) {
	ctx, cancel := context.WithCancel(parent)
	h := &Handler{
		sigCh:  make(chan os.Signal, 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	signal.Notify(h.sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer close(h.done)
		select {
		case sig := <-h.sigCh:
			h.mu.Lock()
			h.received = sig
			h.mu.Unlock()
			if onInterrupt != nil {
				onInterrupt(sig)
			}
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, h
}

// Stop unregisters the handler, cancels its context and waits for the
// listening goroutine to exit. It is safe to call more than once.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigCh)
		h.cancel()
		<-h.done
	})
}

// Interrupted reports whether a signal was received.
func (h *Handler) Interrupted() bool {
	return h.Signal() != nil
}

// Signal returns the signal that cancelled the context, or nil.
func (h *Handler) Signal() os.Signal {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.received
}
