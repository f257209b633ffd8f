package ports

import (
	"context"

	"github.com/vncsmyrnk/livepoll/internal/core/domain"
)

type ResultsService interface {
	Aggregate(ctx context.Context, code string) (*domain.AggregatedResult, error)
}
