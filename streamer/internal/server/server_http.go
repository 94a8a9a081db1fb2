package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/mikhailv/fake-streamer/internal/log"
	"github.com/mikhailv/fake-streamer/internal/stream"
	"github.com/mikhailv/fake-streamer/streamer/internal/config"
	"github.com/mikhailv/fake-streamer/streamer/internal/metrics"
	"github.com/mikhailv/fake-streamer/streamer/internal/shell"
)

type FilterFunc[T any] func(val T) bool

type HTTPServer struct {
	logger    *slog.Logger
	server    http.Server
	session   *shell.Session
	logStream *stream.Buffered[log.Entry]
	wsConfig  config.WebSocket
	// streams started over HTTP outlive the request, they are bound to the
	// server lifetime instead
	baseCtx context.Context
}

func NewHTTPServer(
	addr string,
	logger *slog.Logger,
	session *shell.Session,
	logStream *stream.Buffered[log.Entry],
	wsConfig config.WebSocket,
) *HTTPServer {
	return &HTTPServer{
		logger: logger,
		server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		session:   session,
		logStream: logStream,
		wsConfig:  wsConfig,
		baseCtx:   context.Background(),
	}
}

func (s *HTTPServer) Serve(ctx context.Context) {
	s.baseCtx = ctx
	s.server.Handler = s.createHandler()

	context.AfterFunc(ctx, func() {
		s.logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("failed to shutdown server", "err", err)
		}
	})

	s.logger.Info("server starting...", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("failed to start server", "err", err)
	}
}

func (s *HTTPServer) createHandler() http.Handler {
	wsLogger := log.WithPrefix(s.logger, "ws")
	events := s.session.Events()

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /api/stream", s.wrapHandler(s.handleState))
	mux.Handle("POST /api/stream/start", s.wrapHandler(s.handleStart))
	mux.Handle("POST /api/stream/cancel", s.wrapHandler(s.handleCancel))
	mux.Handle("GET /api/stream/ws", http.HandlerFunc(s.handleStreamWS))
	mux.Handle("GET /api/stream/events", createListHandler(events, s.filterEvents))
	mux.Handle("GET /api/stream/events/ws", createStreamHandler(events, wsLogger, s.wsConfig, s.filterEvents))
	mux.Handle("GET /api/logs", createListHandler(s.logStream, s.filterLogs))
	mux.Handle("GET /api/logs/ws", createStreamHandler(s.logStream, wsLogger, s.wsConfig, s.filterLogs))
	mux.Handle("GET /app.js", staticFileHandler("app.js"))
	mux.Handle("GET /{$}", staticFileHandler("index.html"))

	return cors.Default().Handler(mux)
}

func (s *HTTPServer) wrapHandler(handler func(w http.ResponseWriter, req *http.Request) (statusCode int, err error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path := r.Method, r.URL.Path
		operation := fmt.Sprintf("%s %s", method, path)
		defer metrics.TrackDuration(operation)()
		statusCode, err := handler(w, r)
		if err != nil {
			w.WriteHeader(statusCode)
			s.logger.Error(err.Error(), "method", method, "path", path, "statusCode", statusCode)
		}
		metrics.TrackStatus(operation, strconv.Itoa(statusCode))
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v) //nolint:errchkjson // ignore any error
}
