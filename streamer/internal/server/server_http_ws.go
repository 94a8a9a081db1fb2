package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/mikhailv/fake-streamer/internal/log"
	"github.com/mikhailv/fake-streamer/internal/stream"
	"github.com/mikhailv/fake-streamer/streamer/internal/metrics"
	"github.com/mikhailv/fake-streamer/streamer/internal/shell"
)

const (
	wsMessageState  = "state"
	wsMessageEvents = "events"
	wsMessageError  = "error"

	wsActionStart  = "start"
	wsActionCancel = "cancel"
)

type wsMessage struct {
	Type   string        `json:"type"`
	State  *shell.State  `json:"state,omitempty"`
	Events []shell.Event `json:"events,omitempty"`
	Error  string        `json:"error,omitempty"`
}

type wsCommand struct {
	Action string `json:"action"`
}

// handleStreamWS drives the web view: it sends the current state, then every
// session event, and accepts start/cancel commands from the page.
func (s *HTTPServer) handleStreamWS(w http.ResponseWriter, req *http.Request) {
	logger := log.WithPrefix(s.logger, "ws")

	conn, err := websocket.Accept(w, req, &websocket.AcceptOptions{OriginPatterns: []string{"*"}})
	if err != nil {
		logger.Error("failed to accept websocket connection", "err", err)
		return
	}
	defer func() { _ = conn.CloseNow() }()
	defer metrics.TrackConnection()()

	logger = logger.With("client", req.RemoteAddr)
	logger.Debug("accept websocket connection")

	ctx, cancel := context.WithCancel(req.Context())
	defer cancel()

	events := s.session.Events()
	updateCh := make(chan struct{}, 1)
	stopListen := events.Listen(func(stream.Cursor, shell.Event) {
		select {
		case updateCh <- struct{}{}:
		default:
		}
	})
	defer stopListen()

	state := s.session.State()
	if err := wsjson.Write(ctx, conn, wsMessage{Type: wsMessageState, State: &state}); err != nil {
		logger.Error("failed to send state", "err", err)
		return
	}
	cursor := state.Cursor

	commands := make(chan wsCommand)
	go func() {
		defer cancel()
		for {
			var cmd wsCommand
			if err := wsjson.Read(ctx, conn, &cmd); err != nil {
				if websocket.CloseStatus(err) == -1 && !errors.Is(err, context.Canceled) {
					logger.Debug("failed to read command", "err", err)
				}
				return
			}
			select {
			case <-ctx.Done():
				return
			case commands <- cmd:
			}
		}
	}()

	debouncedUpdateCh := debounceUpdateChannel(ctx, s.wsConfig.MinFlushInterval, s.wsConfig.MaxFlushInterval, updateCh)
	for {
		select {
		case <-ctx.Done():
			logger.Debug("websocket connection closed", "err", ctx.Err())
			return
		case cmd := <-commands:
			if msg, ok := s.execCommand(cmd); !ok {
				if err := wsjson.Write(ctx, conn, msg); err != nil {
					logger.Error("failed to send error", "err", err)
					return
				}
			}
		case <-debouncedUpdateCh:
			for {
				res := events.Query(cursor, s.wsConfig.BatchSize, nil)
				if len(res.Items) > 0 {
					if err := wsjson.Write(ctx, conn, wsMessage{Type: wsMessageEvents, Events: res.Items}); err != nil {
						logger.Error("failed to send events", "err", err, "cursor", cursor)
						return
					}
				}
				cursor = res.LastCursor
				if !res.HasMore {
					break
				}
			}
		}
	}
}

func (s *HTTPServer) execCommand(cmd wsCommand) (wsMessage, bool) {
	switch cmd.Action {
	case wsActionStart:
		state, err := s.session.Start(s.baseCtx)
		if err != nil {
			return wsMessage{Type: wsMessageError, State: &state, Error: err.Error()}, false
		}
	case wsActionCancel:
		s.session.Cancel()
	default:
		return wsMessage{Type: wsMessageError, Error: "unknown action: " + cmd.Action}, false
	}
	return wsMessage{}, true
}
