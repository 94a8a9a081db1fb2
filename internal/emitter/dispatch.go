package emitter

import (
	"context"
	"sync"
)

// Dispatcher delivers stream callbacks to the caller's execution context.
// It reports whether fn was accepted. An accepted fn must run exactly once,
// in submission order, and never concurrently with another one. A rejected
// fn never runs, and the emitter cancels the stream it belongs to.
type Dispatcher func(fn func()) bool

// Inline runs callbacks on the emission goroutine.
func Inline(fn func()) bool {
	fn()
	return true
}

// NewSerial returns a dispatcher running callbacks one by one on a dedicated
// goroutine until ctx is done. Callbacks queued by then still run, later ones
// are rejected.
func NewSerial(ctx context.Context) Dispatcher {
	var (
		mu     sync.Mutex
		closed bool
	)
	queue := make(chan func(), 64)
	go func() {
		for {
			select {
			case <-ctx.Done():
				mu.Lock()
				closed = true
				mu.Unlock()
				for {
					select {
					case fn := <-queue:
						fn()
					default:
						return
					}
				}
			case fn := <-queue:
				fn()
			}
		}
	}()
	return func(fn func()) bool {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case queue <- fn:
			return true
		}
	}
}
