package util

import (
	"context"
	"time"
)

// RunPeriodically calls fn every interval until ctx is done. A non-positive
// interval disables the loop.
func RunPeriodically(ctx context.Context, interval time.Duration, fn func(context.Context)) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			fn(ctx)
		}
	}
}
