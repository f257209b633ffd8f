package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

type voteService struct {
	polls       ports.PollDirectory
	votes       ports.VoteStore
	broadcaster ports.Broadcaster
}

func NewVoteService(polls ports.PollDirectory, votes ports.VoteStore, broadcaster ports.Broadcaster) ports.VoteService {
	return &voteService{
		polls:       polls,
		votes:       votes,
		broadcaster: broadcaster,
	}
}

// Submit validates the selection, atomically replaces the voter's prior
// selection set and notifies the poll's subscribers. Validation and the
// closed-poll check happen before any mutation, so rejected submissions
// never touch the ledger.
func (s *voteService) Submit(ctx context.Context, input ports.SubmitVoteInput) error {
	poll, err := s.polls.LookupPoll(ctx, input.Code)
	if err != nil {
		return err
	}

	if poll.Closed {
		return domain.ErrPollClosed
	}

	optionIDs := dedupe(input.OptionIDs)
	if len(optionIDs) == 0 {
		return domain.ErrEmptySelection
	}
	if poll.ChoiceMode == domain.SingleChoice && len(optionIDs) > 1 {
		return domain.ErrSingleChoice
	}
	for _, id := range optionIDs {
		if !poll.HasOption(id) {
			return domain.ErrInvalidOption
		}
	}

	if err := s.votes.ReplaceSelections(ctx, poll.ID, input.VoterID, optionIDs); err != nil {
		return fmt.Errorf("failed to replace selections: %w", err)
	}

	// Fire-and-forget: a slow or absent subscriber never delays or
	// fails the submission.
	s.broadcaster.NotifyChanged(poll.Code)

	return nil
}

func (s *voteService) MySelections(ctx context.Context, code string, voterID string) ([]uuid.UUID, error) {
	poll, err := s.polls.LookupPoll(ctx, code)
	if err != nil {
		return nil, err
	}

	selections, err := s.votes.SelectionsFor(ctx, poll.ID, voterID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch selections: %w", err)
	}
	if len(selections) == 0 {
		return nil, domain.ErrNoSelection
	}

	return selections, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
