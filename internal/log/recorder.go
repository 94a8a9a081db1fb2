package log

import (
	"context"
	"log/slog"

	"github.com/mikhailv/fake-streamer/internal/stream"
)

var _ slog.Handler = Recorder{}

// Recorder keeps recent log records in a buffered stream so they can be
// served over HTTP, and forwards every record to the wrapped handler.
type Recorder struct {
	handler slog.Handler
	stream  *stream.Buffered[Entry]
	prefix  string
	attrs   []slog.Attr
}

func NewRecorder(handler slog.Handler, historySize int) Recorder {
	return Recorder{
		handler: handler,
		stream:  stream.NewBufferedStream[Entry](historySize),
	}
}

func (r Recorder) Stream() *stream.Buffered[Entry] {
	return r.stream
}

func (r Recorder) Enabled(ctx context.Context, level slog.Level) bool {
	return r.handler.Enabled(ctx, level)
}

func (r Recorder) Handle(ctx context.Context, record slog.Record) error {
	entry := NewEntry(record)
	entry.Msg = prefixMessage(r.prefix, entry.Msg)
	entry.addAttrs(r.attrs)
	r.stream.Append(entry)
	return r.handler.Handle(ctx, record)
}

func (r Recorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	prefix, rest := splitPrefix(r.prefix, attrs)
	return Recorder{
		handler: r.handler.WithAttrs(attrs),
		stream:  r.stream,
		prefix:  prefix,
		attrs:   append(append([]slog.Attr{}, r.attrs...), rest...),
	}
}

func (r Recorder) WithGroup(name string) slog.Handler {
	return Recorder{r.handler.WithGroup(name), r.stream, r.prefix, r.attrs}
}
