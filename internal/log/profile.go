package log

import (
	"log/slog"
	"time"
)

// Profile logs msg at info level and returns a function that logs the elapsed
// time at debug level.
func Profile(logger *slog.Logger, msg string, args ...any) (done func(extra ...any)) {
	start := time.Now()
	logger.Info(msg, args...)
	return func(extra ...any) {
		attrs := append(append([]any{}, args...), extra...)
		attrs = append(attrs, "elapsed", time.Since(start).Round(time.Millisecond))
		logger.Debug(msg+" done", attrs...)
	}
}
