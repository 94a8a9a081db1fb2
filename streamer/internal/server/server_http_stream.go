package server

import (
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/mikhailv/fake-streamer/streamer/internal/shell"
)

func (s *HTTPServer) handleState(w http.ResponseWriter, _ *http.Request) (int, error) {
	writeJSON(w, http.StatusOK, s.session.State())
	return http.StatusOK, nil
}

func (s *HTTPServer) handleStart(w http.ResponseWriter, _ *http.Request) (int, error) {
	state, err := s.session.Start(s.baseCtx)
	switch {
	case errors.Is(err, shell.ErrStreaming):
		writeJSON(w, http.StatusConflict, state)
		return http.StatusConflict, nil
	case err != nil:
		return http.StatusInternalServerError, err
	}
	writeJSON(w, http.StatusAccepted, state)
	return http.StatusAccepted, nil
}

func (s *HTTPServer) handleCancel(w http.ResponseWriter, _ *http.Request) (int, error) {
	res := struct {
		Cancelled bool        `json:"cancelled"`
		State     shell.State `json:"state"`
	}{
		Cancelled: s.session.Cancel(),
		State:     s.session.State(),
	}
	writeJSON(w, http.StatusOK, res)
	return http.StatusOK, nil
}

func (s *HTTPServer) filterEvents(_ *http.Request, query url.Values) FilterFunc[shell.Event] {
	types := slices.DeleteFunc(strings.Split(query.Get("type"), ","), func(s string) bool { return s == "" })
	streamID := strings.TrimSpace(query.Get("stream"))
	if len(types) == 0 && streamID == "" {
		return nil
	}
	return func(val shell.Event) bool {
		if len(types) > 0 && !slices.Contains(types, string(val.Type)) {
			return false
		}
		if streamID != "" && val.StreamID != streamID {
			return false
		}
		return true
	}
}
