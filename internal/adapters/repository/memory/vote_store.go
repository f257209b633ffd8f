package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

// VoteStore keeps the vote ledger in process memory. One mutex guards
// the whole ledger: every replace is trivially atomic and same-voter
// submissions serialize on it. Contention is negligible at the target
// scale of dozens of polls.
type VoteStore struct {
	mu         sync.Mutex
	selections map[uuid.UUID]map[string][]uuid.UUID
}

func NewVoteStore() *VoteStore {
	return &VoteStore{
		selections: make(map[uuid.UUID]map[string][]uuid.UUID),
	}
}

var _ ports.VoteStore = (*VoteStore)(nil)

func (s *VoteStore) ReplaceSelections(ctx context.Context, pollID uuid.UUID, voterID string, optionIDs []uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	voters, ok := s.selections[pollID]
	if !ok {
		voters = make(map[string][]uuid.UUID)
		s.selections[pollID] = voters
	}

	voters[voterID] = append([]uuid.UUID(nil), optionIDs...)
	return nil
}

func (s *VoteStore) SelectionsFor(ctx context.Context, pollID uuid.UUID, voterID string) ([]uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.selections[pollID][voterID]
	return append([]uuid.UUID(nil), current...), nil
}

func (s *VoteStore) CountsFor(ctx context.Context, pollID uuid.UUID) (map[uuid.UUID]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[uuid.UUID]int64)
	for _, optionIDs := range s.selections[pollID] {
		for _, optionID := range optionIDs {
			counts[optionID]++
		}
	}
	return counts, nil
}
