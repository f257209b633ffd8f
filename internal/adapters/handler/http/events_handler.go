package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vncsmyrnk/livepoll/internal/adapters/broadcast"
	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

// EventsHandler streams "changed" events for one poll over SSE. The
// payload is intentionally minimal; clients re-fetch results on receipt
// instead of trusting an embedded snapshot.
type EventsHandler struct {
	hub   *broadcast.Hub
	polls ports.PollDirectory
}

func NewEventsHandler(hub *broadcast.Hub, polls ports.PollDirectory) *EventsHandler {
	return &EventsHandler{
		hub:   hub,
		polls: polls,
	}
}

func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		http.Error(w, "missing poll code", http.StatusBadRequest)
		return
	}

	if _, err := h.polls.LookupPoll(r.Context(), code); err != nil {
		if errors.Is(err, domain.ErrPollNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "failed to look up poll", http.StatusInternalServerError)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := broadcast.NewSubscriber()
	h.hub.Subscribe(code, sub)
	defer h.hub.Unsubscribe(code, sub)

	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: changed\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
