package ports

import (
	"context"

	"github.com/vncsmyrnk/livepoll/internal/core/domain"
)

// PollDirectory is the narrow read consumed from the poll-management
// collaborator. Poll and option lifecycle live outside this service.
type PollDirectory interface {
	LookupPoll(ctx context.Context, code string) (*domain.Poll, error)
}
