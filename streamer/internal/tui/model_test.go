package tui

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/mikhailv/fake-streamer/internal/emitter"
	"github.com/mikhailv/fake-streamer/streamer/internal/shell"
)

func newTestModel(text string) (*Model, <-chan func()) {
	queue := make(chan func(), 16)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	em := emitter.New(emitter.WithLogger(logger), emitter.WithDispatcher(func(fn func()) bool {
		queue <- fn
		return true
	}))
	session := shell.NewSession(logger, em, 100)
	session.Configure(text, 0)
	return NewModel(context.Background(), session), queue
}

func waitStopped(t *testing.T, m *Model) {
	t.Helper()
	select {
	case <-m.session.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not finish")
	}
}

func press(m *Model, key string) tea.Cmd {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

// pump feeds the next emitter callback through the update loop.
func pump(t *testing.T, m *Model, queue <-chan func()) {
	t.Helper()
	select {
	case fn := <-queue:
		m.Update(callbackMsg(fn))
	case <-time.After(5 * time.Second):
		t.Fatal("no callback dispatched")
	}
}

func eventTypes(m *Model) []shell.EventType {
	var res []shell.EventType
	for _, e := range m.session.Events().Query(0, 100, nil).Items {
		res = append(res, e.Type)
	}
	return res
}

func TestModelStreamsText(t *testing.T) {
	m, queue := newTestModel("hi")
	require.Contains(t, m.View(), shell.Placeholder)

	press(m, "s")
	require.True(t, m.session.State().Streaming)
	require.False(t, m.session.State().CanStart())

	pump(t, m, queue)
	require.Equal(t, "h", m.session.State().Text)
	require.Contains(t, m.View(), "h")

	pump(t, m, queue)
	require.Equal(t, "hi", m.session.State().Text)
	require.True(t, m.session.State().Streaming)

	pump(t, m, queue)
	require.False(t, m.session.State().Streaming)
	require.Equal(t, "completed", m.session.State().Outcome)
	waitStopped(t, m)
}

func TestModelIgnoresStartWhileStreaming(t *testing.T) {
	m, queue := newTestModel("ab")

	press(m, "enter")
	id := m.session.State().StreamID
	press(m, "s")
	require.Equal(t, id, m.session.State().StreamID)
	require.NoError(t, m.err)

	press(m, "esc")
	waitStopped(t, m)
	for len(queue) > 0 {
		m.Update(callbackMsg(<-queue))
	}
	require.False(t, m.session.State().Streaming)
	require.Equal(t, []shell.EventType{shell.EventStarted, shell.EventCancelled}, eventTypes(m))
}

func TestModelCancelDropsLateCallbacks(t *testing.T) {
	m, queue := newTestModel("abc")

	press(m, "s")
	pump(t, m, queue)
	require.Equal(t, "a", m.session.State().Text)

	press(m, "c")
	require.False(t, m.session.State().Streaming)
	require.Equal(t, "cancelled", m.session.State().Outcome)

	waitStopped(t, m)
	for len(queue) > 0 {
		m.Update(callbackMsg(<-queue))
	}
	require.Equal(t, "a", m.session.State().Text)
	require.Equal(t, "cancelled", m.session.State().Outcome)

	press(m, "c") // no stream: no-op
	require.Equal(t, "cancelled", m.session.State().Outcome)
}

func TestModelQuit(t *testing.T) {
	m, _ := newTestModel("abc")
	press(m, "s")

	cmd := press(m, "q")
	require.NotNil(t, cmd)
	require.Equal(t, tea.QuitMsg{}, cmd())
	require.False(t, m.session.State().Streaming)
	waitStopped(t, m)
}

func TestModelWindowSize(t *testing.T) {
	m, _ := newTestModel("")
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	require.Equal(t, 40, m.width)
	require.Contains(t, m.View(), "Start streaming")
}
