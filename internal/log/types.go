package log

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mikhailv/fake-streamer/internal/stream"
)

var _ stream.CursorAware = (*Entry)(nil)

type Entry struct {
	Cursor stream.Cursor     `json:"cursor"`
	Time   time.Time         `json:"time"`
	Level  string            `json:"level"`
	Msg    string            `json:"msg"`
	Attrs  map[string]string `json:"attrs,omitempty"`
}

func NewEntry(rec slog.Record) Entry {
	entry := Entry{
		Time:  rec.Time.UTC(),
		Level: rec.Level.String(),
		Msg:   rec.Message,
	}
	rec.Attrs(func(attr slog.Attr) bool {
		entry.addAttr("", attr)
		return true
	})
	return entry
}

func (e *Entry) SetCursor(cursor stream.Cursor) {
	e.Cursor = cursor
}

func (e *Entry) addAttrs(attrs []slog.Attr) {
	for _, attr := range attrs {
		e.addAttr("", attr)
	}
}

func (e *Entry) addAttr(group string, attr slog.Attr) {
	key := attr.Key
	if group != "" {
		key = group + "." + key
	}
	val := attr.Value.Resolve()
	if val.Kind() == slog.KindGroup {
		for _, a := range val.Group() {
			e.addAttr(key, a)
		}
		return
	}
	if e.Attrs == nil {
		e.Attrs = map[string]string{}
	}
	e.Attrs[key] = fmt.Sprint(val.Any())
}
