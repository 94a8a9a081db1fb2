package stream

// Stream is an append-only sequence of values that notifies listeners about
// every appended value.
type Stream[T any] interface {
	Append(value T) Cursor
	Listen(listener func(cursor Cursor, val T)) (stop func())
}
