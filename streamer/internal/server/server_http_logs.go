package server

import (
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/mikhailv/fake-streamer/internal/log"
)

func (s *HTTPServer) filterLogs(_ *http.Request, query url.Values) FilterFunc[log.Entry] {
	levels := slices.DeleteFunc(strings.Split(strings.ToUpper(query.Get("level")), ","), func(s string) bool { return s == "" })
	search := strings.TrimSpace(query.Get("search"))
	if len(levels) == 0 && search == "" {
		return nil
	}
	return func(val log.Entry) bool {
		if len(levels) > 0 && !slices.Contains(levels, val.Level) {
			return false
		}
		return search == "" || strings.Contains(val.Msg, search)
	}
}
