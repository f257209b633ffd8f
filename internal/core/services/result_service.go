package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

type resultService struct {
	polls ports.PollDirectory
	votes ports.VoteStore
}

func NewResultService(polls ports.PollDirectory, votes ports.VoteStore) ports.ResultsService {
	return &resultService{
		polls: polls,
		votes: votes,
	}
}

// Aggregate computes a point-in-time result for the poll. It has no
// side effects and is safe to call concurrently with replaces: it sees
// either the pre- or post-replace counts, never a torn state.
func (s *resultService) Aggregate(ctx context.Context, code string) (*domain.AggregatedResult, error) {
	poll, err := s.polls.LookupPoll(ctx, code)
	if err != nil {
		return nil, err
	}

	counts, err := s.votes.CountsFor(ctx, poll.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	result := &domain.AggregatedResult{
		PollCode:   poll.Code,
		Question:   poll.Question,
		Closed:     poll.Closed,
		TotalVotes: total,
		Options:    make([]domain.OptionResult, 0, len(poll.Options)),
	}

	for _, opt := range poll.Options {
		count := counts[opt.ID]
		percentage := 0.0
		if total > 0 {
			percentage = float64(count) * 100.0 / float64(total)
		}
		result.Options = append(result.Options, domain.OptionResult{
			OptionID:     opt.ID,
			Label:        opt.Label,
			DisplayOrder: opt.DisplayOrder,
			VoteCount:    count,
			Percentage:   percentage,
		})
	}

	// Options keep their externally-defined order, never vote order.
	sort.SliceStable(result.Options, func(i, j int) bool {
		return result.Options[i].DisplayOrder < result.Options[j].DisplayOrder
	})

	return result, nil
}
