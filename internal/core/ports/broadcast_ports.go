package ports

// Broadcaster fans "this poll changed" events out to the subscribers of
// a poll code. NotifyChanged is fire-and-forget: delivery never blocks
// or fails the write path that triggered it.
type Broadcaster interface {
	NotifyChanged(pollCode string)
}
