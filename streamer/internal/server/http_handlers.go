package server

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/mikhailv/fake-streamer/internal/stream"
	"github.com/mikhailv/fake-streamer/streamer/internal/config"
	"github.com/mikhailv/fake-streamer/streamer/internal/metrics"
	"github.com/mikhailv/fake-streamer/streamer/web/static"
)

type requestFilterFactory[T any] func(r *http.Request, q url.Values) FilterFunc[T]

type listResponse[T any] struct {
	stream.QueryResult[T]
	PrevPageURL string `json:"prevPageURL"`
	NextPageURL string `json:"nextPageURL"`
}

// createListHandler serves a page of stream history. Paging is driven by the
// "after"/"before" cursors, "count" and the "backward" flag.
func createListHandler[T any](st *stream.Buffered[T], filterFactory requestFilterFactory[T]) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		query := req.URL.Query()
		filter := filterFactory(req, query)

		backward := queryParamSet(query, "backward")

		afterMode := true
		cursor := stream.Cursor(0)
		var err error
		switch {
		case query.Has("after"):
			cursor, err = stream.ParseCursor(query.Get("after"))
		case query.Has("before"):
			cursor, err = stream.ParseCursor(query.Get("before"))
			afterMode = false
		case backward:
			cursor = math.MaxUint64
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		count := 50
		if query.Has("count") {
			count, _ = strconv.Atoi(query.Get("count"))
			count = max(1, count)
		}

		//             after     before
		// forward     -         back+reverse
		// backward    back      reverse

		var res listResponse[T]
		if backward == afterMode {
			res.QueryResult = st.QueryBackward(cursor, count, filter)
		} else {
			res.QueryResult = st.Query(cursor, count, filter)
		}
		if !afterMode {
			res.Reverse()
		}

		res.PrevPageURL = updateURLQuery(*req.URL, map[string]string{"after": "", "before": fmt.Sprint(res.FirstCursor)})
		res.NextPageURL = updateURLQuery(*req.URL, map[string]string{"after": fmt.Sprint(res.LastCursor), "before": ""})

		if res.Items == nil {
			res.Items = []T{}
		}

		writeJSON(w, http.StatusOK, res)
	})
}

// createStreamHandler pushes new stream items to a websocket client in
// debounced batches. Messages from the client are ignored.
func createStreamHandler[T any](st *stream.Buffered[T], logger *slog.Logger, cfg config.WebSocket, filterFactory requestFilterFactory[T]) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		query := req.URL.Query()
		filter := filterFactory(req, query)

		conn, err := websocket.Accept(w, req, &websocket.AcceptOptions{OriginPatterns: []string{"*"}})
		if err != nil {
			logger.Error("failed to accept websocket connection", "err", err)
			return
		}
		defer func() { _ = conn.CloseNow() }()
		defer metrics.TrackConnection()()

		logger.Debug("accept websocket connection", "client", req.RemoteAddr, "path", req.URL.Path)
		ctx := conn.CloseRead(req.Context())

		cursor := st.LastCursor()

		updateCh := make(chan struct{}, 1)
		debouncedUpdateCh := debounceUpdateChannel(ctx, cfg.MinFlushInterval, cfg.MaxFlushInterval, updateCh)

		stopListen := st.Listen(func(stream.Cursor, T) {
			select {
			case updateCh <- struct{}{}:
			default: // a signal is already pending
			}
		})
		defer stopListen()

		for {
			select {
			case <-ctx.Done():
				logger.Debug("websocket connection closed", "err", ctx.Err())
				return
			case <-debouncedUpdateCh:
				for {
					res := st.Query(cursor, cfg.BatchSize, filter)
					if len(res.Items) > 0 {
						if err := wsjson.Write(ctx, conn, res.Items); err != nil {
							logger.Error("failed to send data", "err", err, "cursor", cursor)
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
	})
}

type staticFileHandler string

func (h staticFileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, static.FS, string(h))
}
