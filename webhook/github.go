package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/AmitKumar2k2/webhook-repo/internal"
	"github.com/AmitKumar2k2/webhook-repo/pkg/storage"

	"github.com/go-playground/webhooks/v6/github"
)

// GitHubHandler ingests GitHub webhook deliveries, normalizes the
// recognized ones into event records, and appends them to the store.
type GitHubHandler struct {
	hook         *github.Webhook
	store        storage.EventStore
	logger       *log.Logger
	storeTimeout time.Duration
	now          func() time.Time
}

func NewGitHubHandler(store storage.EventStore, storeTimeout time.Duration, logger *log.Logger) (*GitHubHandler, error) {
	hook, err := github.New()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	if storeTimeout <= 0 {
		storeTimeout = 5 * time.Second
	}
	return &GitHubHandler{
		hook:         hook,
		store:        store,
		logger:       logger,
		storeTimeout: storeTimeout,
		now:          func() time.Time { return time.Now().UTC() },
	}, nil
}

func (h *GitHubHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	eventName := r.Header.Get("X-GitHub-Event")
	internal.IncDelivery(eventName)

	rawBody, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No payload received"})
		return
	}

	// The body must decode to a non-empty JSON object before any routing
	// happens; an empty or unparseable payload is rejected outright.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(rawBody, &probe); err != nil || len(probe) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No payload received"})
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(rawBody))

	if _, err := h.hook.Parse(r, github.PushEvent, github.PullRequestEvent); err != nil {
		switch {
		case errors.Is(err, github.ErrEventNotFound), errors.Is(err, github.ErrMissingGithubEventHeader):
			h.logger.Printf("event %q is not recorded, ignoring", eventName)
			internal.IncIgnored()
			writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		default:
			h.logger.Printf("github parse failed: %v", err)
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No payload received"})
		}
		return
	}

	record := routeEvent(eventName, rawBody, h.now())
	if record == nil {
		h.logger.Printf("event %q produced no record, ignoring", eventName)
		internal.IncIgnored()
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.storeTimeout)
	defer cancel()

	id, err := h.store.Insert(ctx, *record)
	if err != nil {
		h.logger.Printf("insert failed: %v", err)
		internal.IncStoreError()
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	internal.IncStored()
	h.logger.Printf("event stored: id=%d action=%s author=%s", id, record.Action, record.Author)
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
