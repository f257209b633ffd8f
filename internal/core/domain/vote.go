package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vote is one voter's selection of one option. The live rows for a
// (poll, voter) pair always equal the voter's most recent selection
// set; a new submission replaces the prior set as a whole.
type Vote struct {
	ID        uuid.UUID `json:"id"`
	PollID    uuid.UUID `json:"poll_id"`
	OptionID  uuid.UUID `json:"option_id"`
	VoterID   string    `json:"voter_id"`
	CreatedAt time.Time `json:"created_at"`
}
