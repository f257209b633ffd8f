package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/livepoll/internal/core/domain"
)

func (app *TestApp) submitVote(t *testing.T, code string, voterCookie *http.Cookie, optionIDs ...uuid.UUID) *http.Response {
	t.Helper()

	body, err := json.Marshal(map[string][]uuid.UUID{"option_ids": optionIDs})
	require.NoError(t, err)

	req, err := http.NewRequest("POST", fmt.Sprintf("%s/api/polls/%s/votes", app.Server.URL, code), bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if voterCookie != nil {
		req.AddCookie(voterCookie)
	}

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	return resp
}

func voterCookieFrom(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == "voter_token" {
			return c
		}
	}
	t.Fatal("voter_token cookie not set")
	return nil
}

func (app *TestApp) liveVoteCount(t *testing.T, pollID, optionID uuid.UUID) int {
	t.Helper()
	var count int
	err := app.DB.QueryRow(
		"SELECT COUNT(*) FROM votes WHERE poll_id = $1 AND option_id = $2",
		pollID, optionID,
	).Scan(&count)
	require.NoError(t, err)
	return count
}

func TestVoteSwitching(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	pollID, optionIDs := app.seedPoll(t, "SWITCH", "single", false, "Opt A", "Opt B")

	// 1. Vote for Option A.
	resp := app.submitVote(t, "SWITCH", nil, optionIDs[0])
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	cookie := voterCookieFrom(t, resp)

	assert.Equal(t, 1, app.liveVoteCount(t, pollID, optionIDs[0]))

	// 2. Re-vote for Option B with the same voter token.
	resp = app.submitVote(t, "SWITCH", cookie, optionIDs[1])
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// The prior selection is gone, the new one is live.
	assert.Equal(t, 0, app.liveVoteCount(t, pollID, optionIDs[0]))
	assert.Equal(t, 1, app.liveVoteCount(t, pollID, optionIDs[1]))
}

func TestMultiChoiceResubmitNarrowsSelection(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	pollID, optionIDs := app.seedPoll(t, "MULTI", "multi", false, "A", "B", "C", "D")

	// Select {A, C, D}, then resubmit {A}.
	resp := app.submitVote(t, "MULTI", nil, optionIDs[0], optionIDs[2], optionIDs[3])
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	cookie := voterCookieFrom(t, resp)

	resp = app.submitVote(t, "MULTI", cookie, optionIDs[0])
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	var total int
	err := app.DB.QueryRow("SELECT COUNT(*) FROM votes WHERE poll_id = $1", pollID).Scan(&total)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, app.liveVoteCount(t, pollID, optionIDs[0]))
}

func TestClosedPollRejectsVotes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	pollID, optionIDs := app.seedPoll(t, "CLOSED", "single", true, "Yes", "No")

	resp := app.submitVote(t, "CLOSED", nil, optionIDs[0])
	resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var total int
	err := app.DB.QueryRow("SELECT COUNT(*) FROM votes WHERE poll_id = $1", pollID).Scan(&total)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestConcurrentReplaceSameVoter(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	pollID, optionIDs := app.seedPoll(t, "RACE", "single", false, "A", "B", "C", "D")

	// Racing replaces for the same voter must serialize: the final
	// rows equal exactly one submission's set, never a mix.
	const writers = 16
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(optionID uuid.UUID) {
			defer wg.Done()
			err := app.VoteStore.ReplaceSelections(context.Background(), pollID, "voter-race", []uuid.UUID{optionID})
			assert.NoError(t, err)
		}(optionIDs[i%len(optionIDs)])
	}
	wg.Wait()

	rows, err := app.DB.Query("SELECT option_id FROM votes WHERE poll_id = $1 AND voter_token = $2", pollID, "voter-race")
	require.NoError(t, err)
	defer rows.Close()

	var selections []uuid.UUID
	for rows.Next() {
		var optionID uuid.UUID
		require.NoError(t, rows.Scan(&optionID))
		selections = append(selections, optionID)
	}
	require.NoError(t, rows.Err())

	require.Len(t, selections, 1)
	assert.Contains(t, optionIDs, selections[0])
}

func TestResultsAggregation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	pollID, optionIDs := app.seedPoll(t, "AGG", "single", false, "Red", "Blue")

	// 5 distinct voters: Red gets 3, Blue gets 2.
	for i, optionID := range []uuid.UUID{optionIDs[0], optionIDs[0], optionIDs[0], optionIDs[1], optionIDs[1]} {
		voter := fmt.Sprintf("voter-%d", i)
		require.NoError(t, app.VoteStore.ReplaceSelections(context.Background(), pollID, voter, []uuid.UUID{optionID}))
	}

	resp, err := app.Client.Get(app.Server.URL + "/api/polls/AGG/results")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result domain.AggregatedResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	assert.Equal(t, int64(5), result.TotalVotes)
	require.Len(t, result.Options, 2)
	assert.Equal(t, "Red", result.Options[0].Label)
	assert.Equal(t, int64(3), result.Options[0].VoteCount)
	assert.InDelta(t, 60.0, result.Options[0].Percentage, 0.1)
	assert.Equal(t, "Blue", result.Options[1].Label)
	assert.Equal(t, int64(2), result.Options[1].VoteCount)
	assert.InDelta(t, 40.0, result.Options[1].Percentage, 0.1)
}
