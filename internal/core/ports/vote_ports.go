package ports

import (
	"context"

	"github.com/google/uuid"
)

// VoteStore is the only writer of vote rows. ReplaceSelections swaps a
// voter's entire prior selection set for optionIDs in one atomic unit:
// a concurrent reader sees either the old set or the new one, never a
// mix and never a gap. On failure the prior set is left intact.
type VoteStore interface {
	ReplaceSelections(ctx context.Context, pollID uuid.UUID, voterID string, optionIDs []uuid.UUID) error
	SelectionsFor(ctx context.Context, pollID uuid.UUID, voterID string) ([]uuid.UUID, error)
	CountsFor(ctx context.Context, pollID uuid.UUID) (map[uuid.UUID]int64, error)
}

type SubmitVoteInput struct {
	Code      string
	VoterID   string
	OptionIDs []uuid.UUID
}

type VoteService interface {
	Submit(ctx context.Context, input SubmitVoteInput) error
	MySelections(ctx context.Context, code string, voterID string) ([]uuid.UUID, error)
}
