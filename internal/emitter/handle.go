package emitter

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

type State int32

const (
	Running State = iota
	Completed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Handle identifies one stream started by Emitter.Start.
type Handle struct {
	id         string
	state      atomic.Int32
	cancelCh   chan struct{}
	cancelOnce sync.Once
	done       chan struct{}
}

func newHandle() *Handle {
	return &Handle{
		id:       uuid.NewString(),
		cancelCh: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (h *Handle) ID() string {
	return h.id
}

func (h *Handle) State() State {
	return State(h.state.Load())
}

// Done is closed once the emission loop has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Cancel moves a running stream to Cancelled. It reports false if the stream
// already reached a terminal state.
func (h *Handle) Cancel() bool {
	if !h.state.CompareAndSwap(int32(Running), int32(Cancelled)) {
		return false
	}
	h.cancelOnce.Do(func() { close(h.cancelCh) })
	return true
}

func (h *Handle) complete() bool {
	return h.state.CompareAndSwap(int32(Running), int32(Completed))
}

func (h *Handle) running() bool {
	return h.State() == Running
}
