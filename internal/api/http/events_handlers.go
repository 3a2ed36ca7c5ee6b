package http

import (
	"context"
	"net/http"
	"strconv"

	syncx "github.com/mind-engage/h5pimporter/internal/sync"
)

// EventLister is the read side of the event log.
type EventLister interface {
	Since(ctx context.Context, after int64, limit int) ([]syncx.Event, error)
}

// GET /events?after=0&limit=100
func ListEventsHandler(events EventLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		after, _ := strconv.ParseInt(r.URL.Query().Get("after"), 10, 64)
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		out, err := events.Since(r.Context(), after, limit)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		if out == nil {
			out = []syncx.Event{}
		}
		writeJSON(w, http.StatusOK, out)
	}
}
