package emitter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialRunsInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatch := NewSerial(ctx)
	var got []int
	done := make(chan struct{})
	for i := range 100 {
		dispatch(func() { got = append(got, i) })
	}
	dispatch(func() { close(done) })
	<-done

	require.Len(t, got, 100)
	for i, v := range got {
		require.Equal(t, i, v)
	}
}

func TestSerialRejectsAfterContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	dispatch := NewSerial(ctx)
	cancel()

	returned := make(chan struct{})
	go func() {
		defer close(returned)
		for range 200 {
			assert.False(t, dispatch(func() { t.Error("rejected callback ran") }))
		}
	}()

	select {
	case <-returned:
	case <-time.After(5 * time.Second):
		t.Fatal("dispatch blocked after context was done")
	}
}

func TestSerialRunsAcceptedCallbacks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	dispatch := NewSerial(ctx)

	block := make(chan struct{})
	require.True(t, dispatch(func() { <-block }))

	var ran []chan struct{}
	for range 10 {
		done := make(chan struct{})
		if dispatch(func() { close(done) }) {
			ran = append(ran, done)
		}
	}
	require.Len(t, ran, 10)

	cancel()
	close(block)
	for _, done := range ran {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("accepted callback never ran")
		}
	}
}
