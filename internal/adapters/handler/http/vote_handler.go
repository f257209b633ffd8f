package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

// submitTimeout bounds how long a submission may wait on the ledger's
// per-voter lock before failing as retryable.
const submitTimeout = 5 * time.Second

type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

type submitVoteRequest struct {
	OptionIDs []uuid.UUID `json:"option_ids"`
}

func (h *VoteHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		http.Error(w, "missing poll code", http.StatusBadRequest)
		return
	}

	var req submitVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	voterID, ok := r.Context().Value(VoterIDKey).(string)
	if !ok || voterID == "" {
		http.Error(w, "missing voter token", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), submitTimeout)
	defer cancel()

	input := ports.SubmitVoteInput{
		Code:      code,
		VoterID:   voterID,
		OptionIDs: req.OptionIDs,
	}

	if err := h.service.Submit(ctx, input); err != nil {
		switch {
		case errors.Is(err, domain.ErrPollNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, domain.ErrPollClosed):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, domain.ErrEmptySelection),
			errors.Is(err, domain.ErrInvalidOption),
			errors.Is(err, domain.ErrSingleChoice):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "failed to submit vote", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *VoteHandler) MyVote(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		http.Error(w, "missing poll code", http.StatusBadRequest)
		return
	}

	voterID, ok := r.Context().Value(VoterIDKey).(string)
	if !ok || voterID == "" {
		http.Error(w, "missing voter token", http.StatusBadRequest)
		return
	}

	selections, err := h.service.MySelections(r.Context(), code, voterID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPollNotFound), errors.Is(err, domain.ErrNoSelection):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			http.Error(w, "failed to fetch selections", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string][]uuid.UUID{"option_ids": selections}); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
