package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteStore {
	return &voteRepository{
		db: db,
	}
}

// ReplaceSelections deletes the voter's live rows for the poll and
// inserts one row per option inside a single transaction. An advisory
// lock keyed on (poll, voter) serializes racing submissions from the
// same voter, so the committed state is always exactly one submission's
// set. The lock wait is bounded by the caller's context deadline; on
// any failure the transaction rolls back and the prior set survives.
func (r *voteRepository) ReplaceSelections(ctx context.Context, pollID uuid.UUID, voterID string, optionIDs []uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	lockKey := pollID.String() + ":" + voterID
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, lockKey); err != nil {
		return fmt.Errorf("failed to acquire voter lock: %w", err)
	}

	queryDelete := `
		DELETE FROM votes
		WHERE poll_id = $1 AND voter_token = $2
	`
	if _, err := tx.ExecContext(ctx, queryDelete, pollID, voterID); err != nil {
		return fmt.Errorf("failed to delete prior selections: %w", err)
	}

	queryInsert := `
		INSERT INTO votes (id, poll_id, option_id, voter_token)
		VALUES ($1, $2, $3, $4)
	`
	stmt, err := tx.PrepareContext(ctx, queryInsert)
	if err != nil {
		return fmt.Errorf("failed to prepare vote statement: %w", err)
	}
	defer stmt.Close()

	for _, optionID := range optionIDs {
		if _, err := stmt.ExecContext(ctx, uuid.New(), pollID, optionID, voterID); err != nil {
			return fmt.Errorf("failed to insert vote: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *voteRepository) SelectionsFor(ctx context.Context, pollID uuid.UUID, voterID string) ([]uuid.UUID, error) {
	query := `
		SELECT option_id
		FROM votes
		WHERE poll_id = $1 AND voter_token = $2
	`
	rows, err := r.db.QueryContext(ctx, query, pollID, voterID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch selections: %w", err)
	}
	defer rows.Close()

	var selections []uuid.UUID
	for rows.Next() {
		var optionID uuid.UUID
		if err := rows.Scan(&optionID); err != nil {
			return nil, fmt.Errorf("failed to scan selection: %w", err)
		}
		selections = append(selections, optionID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating selections: %w", err)
	}
	return selections, nil
}

func (r *voteRepository) CountsFor(ctx context.Context, pollID uuid.UUID) (map[uuid.UUID]int64, error) {
	query := `
		SELECT option_id, COUNT(*)
		FROM votes
		WHERE poll_id = $1
		GROUP BY option_id
	`
	rows, err := r.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int64)
	for rows.Next() {
		var optionID uuid.UUID
		var count int64
		if err := rows.Scan(&optionID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan vote count: %w", err)
		}
		counts[optionID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vote counts: %w", err)
	}
	return counts, nil
}
