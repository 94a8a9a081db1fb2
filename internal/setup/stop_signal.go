package setup

import (
	"context"
	"os/signal"
	"syscall"
)

// ListenStopSignal returns a context canceled on SIGINT or SIGTERM. The stop
// function restores default signal handling.
func ListenStopSignal(parentCtx context.Context) (ctx context.Context, stop func()) {
	return signal.NotifyContext(parentCtx, syscall.SIGINT, syscall.SIGTERM)
}
