// Package shell holds the view state shared by the web and terminal fronts:
// the streamed text, the streaming flag and the history of stream events.
package shell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mikhailv/fake-streamer/internal/emitter"
	"github.com/mikhailv/fake-streamer/internal/log"
	"github.com/mikhailv/fake-streamer/internal/stream"
	"github.com/mikhailv/fake-streamer/streamer/internal/metrics"
)

var ErrStreaming = errors.New("already streaming")

type Session struct {
	logger  *slog.Logger
	emitter *emitter.Emitter
	events  *stream.Buffered[Event]

	mu       sync.Mutex
	text     string
	interval time.Duration
	state    State
	handle   *emitter.Handle
	last     *emitter.Handle
}

func NewSession(logger *slog.Logger, em *emitter.Emitter, historySize int) *Session {
	return &Session{
		logger:  logger,
		emitter: em,
		events:  stream.NewBufferedStream[Event](historySize),
	}
}

// Configure sets the text and interval used by the next stream.
func (s *Session) Configure(text string, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	s.interval = interval
}

func (s *Session) Events() *stream.Buffered[Event] {
	return s.events
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Start clears the text and starts a new stream. It fails with ErrStreaming
// while another stream is running.
func (s *Session) Start(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Streaming {
		return s.snapshot(), ErrStreaming
	}

	// h is assigned under s.mu, the callbacks read it under the same lock
	var h *emitter.Handle
	onUpdate := func(text string) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.applyUpdate(h, text)
	}
	onComplete := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.handle == h {
			s.finish(h, emitter.Completed)
		}
	}

	var err error
	h, err = s.emitter.Start(ctx, s.text, s.interval, onUpdate, onComplete)
	if errors.Is(err, emitter.ErrAlreadyStreaming) {
		return s.snapshot(), ErrStreaming
	} else if err != nil {
		return s.snapshot(), fmt.Errorf("failed to start stream: %w", err)
	}

	s.handle = h
	s.last = h
	s.state = State{Streaming: true, StreamID: h.ID()}
	s.record(EventStarted, h, "")

	logger := s.logger.With("stream", h.ID())
	finish := metrics.TrackStream()
	done := log.Profile(logger, "streaming", "units", len([]rune(s.text)), "interval", s.interval)
	go func() {
		<-h.Done()
		outcome := h.State().String()
		finish(outcome)
		done("outcome", outcome)
		s.onFinished(h)
	}()

	return s.snapshot(), nil
}

// Cancel stops the running stream and reports whether there was one.
func (s *Session) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel()
}

func (s *Session) cancel() bool {
	if s.handle == nil {
		return false
	}
	// false means the stream already ended; its completion callback or the
	// watcher in Start records the outcome once it gets the lock
	if !s.emitter.Cancel() {
		return false
	}
	s.finish(s.handle, emitter.Cancelled)
	return true
}

// Done is closed once the loop of the most recent stream has exited.
func (s *Session) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return s.last.Done()
}

func (s *Session) applyUpdate(h *emitter.Handle, text string) {
	if s.handle != h {
		return
	}
	metrics.TrackUnit()
	s.state.Text = text
	s.record(EventUpdate, h, text)
}

// onFinished covers streams that ended without Cancel or completion, e.g.
// when their context was canceled.
func (s *Session) onFinished(h *emitter.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle == h {
		s.finish(h, h.State())
	}
}

func (s *Session) finish(h *emitter.Handle, outcome emitter.State) {
	s.handle = nil
	s.state.Streaming = false
	s.state.Outcome = outcome.String()
	if outcome == emitter.Completed {
		s.record(EventCompleted, h, "")
	} else {
		s.record(EventCancelled, h, "")
	}
}

func (s *Session) record(typ EventType, h *emitter.Handle, text string) {
	s.events.Append(Event{
		Time:     time.Now().UTC(),
		Type:     typ,
		StreamID: h.ID(),
		Text:     text,
	})
}

func (s *Session) snapshot() State {
	state := s.state
	state.Cursor = s.events.LastCursor()
	return state
}
