// Package emitter emits a text unit by unit at a fixed cadence, the way a
// language model streams its answer, with cooperative cancellation.
package emitter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
)

var (
	ErrAlreadyStreaming = errors.New("stream already in progress")
	ErrNegativeInterval = errors.New("negative interval")
)

type Option func(e *Emitter)

func WithDispatcher(dispatch Dispatcher) Option {
	return func(e *Emitter) {
		e.dispatch = dispatch
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Emitter) {
		e.logger = logger
	}
}

// Emitter runs at most one stream at a time.
type Emitter struct {
	dispatch Dispatcher
	logger   *slog.Logger

	mu     sync.Mutex
	handle *Handle
}

func New(opts ...Option) *Emitter {
	e := &Emitter{
		dispatch: Inline,
		logger:   slog.New(discardHandler{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start begins emitting text and returns without waiting for the first unit.
//
// onUpdate receives the accumulated prefix after every unit; onComplete is
// called once after the last unit unless the stream was cancelled. Both run
// through the emitter's dispatcher and may be nil. Canceling ctx cancels the
// stream.
func (e *Emitter) Start(ctx context.Context, text string, interval time.Duration, onUpdate func(text string), onComplete func()) (*Handle, error) {
	if interval < 0 {
		return nil, ErrNegativeInterval
	}
	if onUpdate == nil {
		onUpdate = func(string) {}
	}
	if onComplete == nil {
		onComplete = func() {}
	}

	e.mu.Lock()
	if e.handle != nil {
		e.mu.Unlock()
		return nil, ErrAlreadyStreaming
	}
	h := newHandle()
	e.handle = h
	e.mu.Unlock()

	units := []rune(text)
	e.logger.Debug("stream started", "stream", h.id, "units", len(units), "interval", interval)

	go e.run(ctx, h, units, interval, onUpdate, onComplete)
	return h, nil
}

// Cancel stops the active stream, if any, and reports whether there was one.
// Once Cancel returns true the stream's completion callback never runs; a
// single update already being delivered may still finish.
func (e *Emitter) Cancel() bool {
	e.mu.Lock()
	h := e.handle
	e.handle = nil
	e.mu.Unlock()

	if h == nil || !h.Cancel() {
		return false
	}
	e.logger.Debug("stream cancel requested", "stream", h.id)
	return true
}

// Active returns the handle of the running stream or nil.
func (e *Emitter) Active() *Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.handle
}

func (e *Emitter) run(ctx context.Context, h *Handle, units []rune, interval time.Duration, onUpdate func(string), onComplete func()) {
	defer close(h.done)
	defer e.release(h)

	var buf strings.Builder
	buf.Grow(len(units))
	for i, unit := range units {
		if e.stopped(ctx, h) {
			return
		}
		buf.WriteRune(unit)
		text := buf.String()
		delivered := e.deliver(ctx, h, func() {
			if h.running() {
				onUpdate(text)
			}
		})
		if !delivered {
			return
		}
		if i < len(units)-1 && !e.wait(ctx, h, interval) {
			return
		}
	}

	if e.stopped(ctx, h) {
		return
	}
	e.deliver(ctx, h, func() {
		if !h.complete() {
			return
		}
		e.release(h)
		e.logger.Debug("stream completed", "stream", h.id, "units", len(units))
		onComplete()
	})
}

func (e *Emitter) stopped(ctx context.Context, h *Handle) bool {
	if ctx.Err() != nil {
		e.cancelHandle(h, ctx.Err())
		return true
	}
	return !h.running()
}

var errDispatcherClosed = errors.New("dispatcher closed")

// deliver hands fn to the dispatcher and waits until it has run or the stream
// is cancelled.
func (e *Emitter) deliver(ctx context.Context, h *Handle, fn func()) bool {
	ran := make(chan struct{})
	accepted := e.dispatch(func() {
		defer close(ran)
		fn()
	})
	if !accepted {
		e.cancelHandle(h, errDispatcherClosed)
		return false
	}
	select {
	case <-ran:
		return true
	case <-h.cancelCh:
		return false
	case <-ctx.Done():
		e.cancelHandle(h, ctx.Err())
		return false
	}
}

func (e *Emitter) wait(ctx context.Context, h *Handle, interval time.Duration) bool {
	if interval == 0 {
		return !e.stopped(ctx, h)
	}
	t := time.NewTimer(interval)
	defer t.Stop()
	select {
	case <-t.C:
		return !e.stopped(ctx, h)
	case <-h.cancelCh:
		return false
	case <-ctx.Done():
		e.cancelHandle(h, ctx.Err())
		return false
	}
}

func (e *Emitter) cancelHandle(h *Handle, cause error) {
	if h.Cancel() {
		e.logger.Debug("stream cancelled", "stream", h.id, "cause", cause)
	}
}

func (e *Emitter) release(h *Handle) {
	e.mu.Lock()
	if e.handle == h {
		e.handle = nil
	}
	e.mu.Unlock()
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler { return d }
func (d discardHandler) WithGroup(string) slog.Handler { return d }
