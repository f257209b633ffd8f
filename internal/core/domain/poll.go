package domain

import (
	"time"

	"github.com/google/uuid"
)

type ChoiceMode string

const (
	SingleChoice ChoiceMode = "single"
	MultiChoice  ChoiceMode = "multi"
)

// Poll is a read-only snapshot supplied by the poll-management
// collaborator. This service never creates or mutates polls.
type Poll struct {
	ID         uuid.UUID    `json:"id"`
	Code       string       `json:"code"`
	Question   string       `json:"question"`
	ChoiceMode ChoiceMode   `json:"choice_mode"`
	Closed     bool         `json:"closed"`
	Options    []PollOption `json:"options"`
	CreatedAt  time.Time    `json:"created_at"`
}

type PollOption struct {
	ID           uuid.UUID `json:"id"`
	PollID       uuid.UUID `json:"poll_id"`
	Label        string    `json:"label"`
	DisplayOrder int       `json:"display_order"`
}

// HasOption reports whether id belongs to this poll.
func (p *Poll) HasOption(id uuid.UUID) bool {
	for _, opt := range p.Options {
		if opt.ID == id {
			return true
		}
	}
	return false
}
