package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/livepoll/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

func TestAggregateUnknownPoll(t *testing.T) {
	directory := memory.NewPollDirectory()
	svc := NewResultService(directory, memory.NewVoteStore())

	_, err := svc.Aggregate(context.Background(), "NOPE")
	assert.ErrorIs(t, err, domain.ErrPollNotFound)
}

func TestAggregateZeroVotes(t *testing.T) {
	directory := memory.NewPollDirectory()
	poll := seedPoll(directory, "TEST", domain.SingleChoice, false, "Red", "Blue")
	svc := NewResultService(directory, memory.NewVoteStore())

	result, err := svc.Aggregate(context.Background(), "TEST")
	require.NoError(t, err)

	assert.Equal(t, "TEST", result.PollCode)
	assert.Equal(t, int64(0), result.TotalVotes)
	require.Len(t, result.Options, len(poll.Options))
	for _, opt := range result.Options {
		assert.Equal(t, int64(0), opt.VoteCount)
		assert.Equal(t, 0.0, opt.Percentage)
	}
}

func TestAggregateSplitPercentages(t *testing.T) {
	directory := memory.NewPollDirectory()
	store := memory.NewVoteStore()
	poll := seedPoll(directory, "TEST", domain.SingleChoice, false, "Red", "Blue")
	svc := NewResultService(directory, store)

	// 5 distinct voters: Red gets 3, Blue gets 2.
	red, blue := poll.Options[0].ID, poll.Options[1].ID
	for i, optionID := range []uuid.UUID{red, red, red, blue, blue} {
		voterID := string(rune('a' + i))
		require.NoError(t, store.ReplaceSelections(context.Background(), poll.ID, voterID, []uuid.UUID{optionID}))
	}

	result, err := svc.Aggregate(context.Background(), "TEST")
	require.NoError(t, err)

	assert.Equal(t, int64(5), result.TotalVotes)
	require.Len(t, result.Options, 2)
	assert.Equal(t, int64(3), result.Options[0].VoteCount)
	assert.InDelta(t, 60.0, result.Options[0].Percentage, 0.1)
	assert.Equal(t, int64(2), result.Options[1].VoteCount)
	assert.InDelta(t, 40.0, result.Options[1].Percentage, 0.1)
}

func TestAggregateAfterReVote(t *testing.T) {
	directory := memory.NewPollDirectory()
	store := memory.NewVoteStore()
	poll := seedPoll(directory, "TEST", domain.SingleChoice, false, "Red", "Blue")
	voteSvc := NewVoteService(directory, store, &recordingBroadcaster{})
	svc := NewResultService(directory, store)

	// Voter X votes Red then immediately re-votes Blue.
	red, blue := poll.Options[0].ID, poll.Options[1].ID
	require.NoError(t, voteSvc.Submit(context.Background(), ports.SubmitVoteInput{
		Code: "TEST", VoterID: "voter-x", OptionIDs: []uuid.UUID{red},
	}))
	require.NoError(t, voteSvc.Submit(context.Background(), ports.SubmitVoteInput{
		Code: "TEST", VoterID: "voter-x", OptionIDs: []uuid.UUID{blue},
	}))

	result, err := svc.Aggregate(context.Background(), "TEST")
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.TotalVotes)
	assert.Equal(t, int64(0), result.Options[0].VoteCount)
	assert.Equal(t, 0.0, result.Options[0].Percentage)
	assert.Equal(t, int64(1), result.Options[1].VoteCount)
	assert.InDelta(t, 100.0, result.Options[1].Percentage, 0.1)
}

func TestAggregateKeepsDisplayOrder(t *testing.T) {
	directory := memory.NewPollDirectory()
	store := memory.NewVoteStore()
	poll := seedPoll(directory, "TEST", domain.SingleChoice, false, "First", "Second", "Third")
	svc := NewResultService(directory, store)

	// Only the last option gets votes; order must not change.
	last := poll.Options[2].ID
	require.NoError(t, store.ReplaceSelections(context.Background(), poll.ID, "voter-1", []uuid.UUID{last}))

	result, err := svc.Aggregate(context.Background(), "TEST")
	require.NoError(t, err)

	require.Len(t, result.Options, 3)
	assert.Equal(t, "First", result.Options[0].Label)
	assert.Equal(t, "Second", result.Options[1].Label)
	assert.Equal(t, "Third", result.Options[2].Label)
	assert.Equal(t, int64(1), result.Options[2].VoteCount)
}
