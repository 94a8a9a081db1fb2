package stream

import (
	"fmt"
	"strconv"
)

// Cursor identifies an entry of a stream. Cursors grow monotonically: the high
// 32 bits hold the append time in milliseconds and the low 32 bits a sequence
// number.
type Cursor uint64

type CursorAware interface {
	SetCursor(cursor Cursor)
}

func (c Cursor) String() string {
	return fmt.Sprintf("%016x", uint64(c))
}

func (c Cursor) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Cursor) UnmarshalText(b []byte) error {
	cur, err := ParseCursor(string(b))
	if err != nil {
		return err
	}
	*c = cur
	return nil
}

func ParseCursor(s string) (Cursor, error) {
	n, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid cursor %q: %w", s, err)
	}
	return Cursor(n), nil
}
