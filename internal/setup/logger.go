package setup

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mikhailv/fake-streamer/internal/log"
)

type LogOptions struct {
	Debug bool
	JSON  bool
	// Console receives human-readable output; nil disables it.
	Console io.Writer
	// File, if set, additionally receives JSON records.
	File string
}

// Logger builds the process logger. The returned close function releases the
// log file, if any.
func Logger(opts LogOptions, wrapHandler func(slog.Handler) slog.Handler) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var tee log.TeeHandler
	if opts.Console != nil {
		if opts.JSON {
			tee = append(tee, slog.NewJSONHandler(opts.Console, handlerOpts))
		} else {
			tee = append(tee, slog.NewTextHandler(opts.Console, handlerOpts))
		}
	}

	closeFn := func() {}
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		tee = append(tee, slog.NewJSONHandler(f, handlerOpts))
		closeFn = func() { _ = f.Close() }
	}

	var handler slog.Handler
	switch len(tee) {
	case 0:
		handler = slog.NewTextHandler(io.Discard, handlerOpts)
	case 1:
		handler = tee[0]
	default:
		handler = tee
	}
	handler = log.NewPrefixHandler(handler)
	if wrapHandler != nil {
		handler = wrapHandler(handler)
	}
	return slog.New(handler), closeFn, nil
}
