package api

import (
	"context"
	_ "embed"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/AmitKumar2k2/webhook-repo/pkg/storage"
)

//go:embed index.html
var indexPage []byte

// eventResponse is the wire shape of one stored event. The identifier is
// rendered as a string and the timestamp in the display time zone; the
// stored value stays UTC.
type eventResponse struct {
	ID         string  `json:"_id"`
	Action     string  `json:"action"`
	Author     string  `json:"author"`
	FromBranch *string `json:"from_branch"`
	ToBranch   string  `json:"to_branch"`
	RequestID  string  `json:"request_id"`
	Timestamp  string  `json:"timestamp"`
}

// EventsHandler serves the most recent stored events.
type EventsHandler struct {
	Store    storage.EventStore
	Limit    int
	Location *time.Location
	Timeout  time.Duration
	Logger   *log.Logger
}

func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.Store == nil {
		http.Error(w, "storage not configured", http.StatusServiceUnavailable)
		return
	}

	limit := h.Limit
	if limit <= 0 {
		limit = 10
	}
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	location := h.Location
	if location == nil {
		location = time.UTC
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	records, err := h.Store.Recent(ctx, limit)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Printf("fetch events failed: %v", err)
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	out := make([]eventResponse, 0, len(records))
	for _, record := range records {
		out = append(out, eventResponse{
			ID:         strconv.FormatUint(record.ID, 10),
			Action:     record.Action,
			Author:     record.Author,
			FromBranch: record.FromBranch,
			ToBranch:   record.ToBranch,
			RequestID:  record.RequestID,
			Timestamp:  record.Timestamp.In(location).Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// HealthHandler reports process liveness.
type HealthHandler struct{}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// IndexHandler serves the static landing page.
type IndexHandler struct{}

func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexPage)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
