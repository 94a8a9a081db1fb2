package log

import (
	"context"
	"log/slog"
)

const prefixKey = "_prefix_"

// WithPrefix returns a logger whose messages are prefixed with the component
// name. Nested prefixes are joined with a dot: "http.ws: message".
func WithPrefix(logger *slog.Logger, prefix string) *slog.Logger {
	return logger.With(slog.String(prefixKey, prefix))
}

func NewPrefixHandler(handler slog.Handler) slog.Handler {
	return prefixHandler{handler: handler}
}

var _ slog.Handler = prefixHandler{}

type prefixHandler struct {
	handler slog.Handler
	prefix  string
}

func (h prefixHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h prefixHandler) Handle(ctx context.Context, record slog.Record) error {
	record.Message = prefixMessage(h.prefix, record.Message)
	return h.handler.Handle(ctx, record)
}

func (h prefixHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	prefix, rest := splitPrefix(h.prefix, attrs)
	handler := h.handler
	if len(rest) > 0 {
		handler = handler.WithAttrs(rest)
	}
	return prefixHandler{handler, prefix}
}

func splitPrefix(prefix string, attrs []slog.Attr) (string, []slog.Attr) {
	rest := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		if attr.Key != prefixKey {
			rest = append(rest, attr)
			continue
		}
		if prefix != "" {
			prefix += "."
		}
		prefix += attr.Value.String()
	}
	return prefix, rest
}

func prefixMessage(prefix, msg string) string {
	if prefix == "" {
		return msg
	}
	return prefix + ": " + msg
}

func (h prefixHandler) WithGroup(name string) slog.Handler {
	return prefixHandler{h.handler.WithGroup(name), h.prefix}
}
