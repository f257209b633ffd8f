package domain

import "github.com/google/uuid"

// AggregatedResult is recomputed on demand and never stored.
type AggregatedResult struct {
	PollCode   string         `json:"poll_code"`
	Question   string         `json:"question"`
	Closed     bool           `json:"closed"`
	TotalVotes int64          `json:"total_votes"`
	Options    []OptionResult `json:"options"`
}

type OptionResult struct {
	OptionID     uuid.UUID `json:"option_id"`
	Label        string    `json:"label"`
	DisplayOrder int       `json:"display_order"`
	VoteCount    int64     `json:"vote_count"`
	Percentage   float64   `json:"percentage"`
}
