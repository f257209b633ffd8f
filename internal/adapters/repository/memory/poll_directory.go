package memory

import (
	"context"
	"sync"

	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

// PollDirectory is an in-memory stand-in for the poll-management
// collaborator, seeded explicitly. Lookups return copies so callers
// cannot mutate the directory's state.
type PollDirectory struct {
	mu    sync.RWMutex
	polls map[string]domain.Poll
}

func NewPollDirectory() *PollDirectory {
	return &PollDirectory{
		polls: make(map[string]domain.Poll),
	}
}

var _ ports.PollDirectory = (*PollDirectory)(nil)

func (d *PollDirectory) Seed(poll domain.Poll) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.polls[poll.Code] = poll
}

func (d *PollDirectory) LookupPoll(ctx context.Context, code string) (*domain.Poll, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	poll, ok := d.polls[code]
	if !ok {
		return nil, domain.ErrPollNotFound
	}

	copied := poll
	copied.Options = append([]domain.PollOption(nil), poll.Options...)
	return &copied, nil
}
