package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

// pollRepository reads the poll tables owned by the poll-management
// collaborator. This service never writes them.
type pollRepository struct {
	db *sql.DB
}

func NewPollRepository(db *sql.DB) ports.PollDirectory {
	return &pollRepository{
		db: db,
	}
}

func (r *pollRepository) LookupPoll(ctx context.Context, code string) (*domain.Poll, error) {
	queryPoll := `
		SELECT id, code, question, choice_mode, closed, created_at
		FROM polls
		WHERE code = $1
	`

	var poll domain.Poll
	err := r.db.QueryRowContext(ctx, queryPoll, code).Scan(
		&poll.ID, &poll.Code, &poll.Question, &poll.ChoiceMode, &poll.Closed, &poll.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	options, err := r.fetchOptions(ctx, poll.ID)
	if err != nil {
		return nil, err
	}
	poll.Options = options

	return &poll, nil
}

func (r *pollRepository) fetchOptions(ctx context.Context, pollID uuid.UUID) ([]domain.PollOption, error) {
	queryOptions := `
		SELECT id, poll_id, label, display_order
		FROM poll_options
		WHERE poll_id = $1
		ORDER BY display_order
	`
	rows, err := r.db.QueryContext(ctx, queryOptions, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll options: %w", err)
	}
	defer rows.Close()

	var options []domain.PollOption
	for rows.Next() {
		var opt domain.PollOption
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Label, &opt.DisplayOrder); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating options: %w", err)
	}
	return options, nil
}
