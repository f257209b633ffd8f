package domain

import "errors"

var (
	ErrPollNotFound   = errors.New("poll not found")
	ErrPollClosed     = errors.New("poll is closed")
	ErrEmptySelection = errors.New("selection must not be empty")
	ErrInvalidOption  = errors.New("invalid option for this poll")
	ErrSingleChoice   = errors.New("poll accepts exactly one option")
	ErrNoSelection    = errors.New("voter has no selection on this poll")
)
