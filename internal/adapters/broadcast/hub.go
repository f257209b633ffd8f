package broadcast

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultThrottle is the minimum interval between two delivered
// broadcasts for the same poll code. Calls inside the window are
// dropped outright; a client that misses one self-corrects on the
// next change or a manual refresh.
const DefaultThrottle = time.Second

// subscriberBuffer bounds each subscriber's inbound queue. When it is
// full the oldest queued event is discarded to make room.
const subscriberBuffer = 8

type Event struct {
	PollCode string `json:"poll_code"`
}

// Subscriber is one active connection's handle in a poll group. Events
// arrive on Events until Unsubscribe closes it.
type Subscriber struct {
	events chan Event
}

func NewSubscriber() *Subscriber {
	return &Subscriber{events: make(chan Event, subscriberBuffer)}
}

func (s *Subscriber) Events() <-chan Event {
	return s.events
}

// Hub maintains per-poll subscriber groups and delivers change
// notifications at a bounded rate. All state is process-wide, starts
// empty and needs no teardown; handles are removed one by one on
// disconnect.
type Hub struct {
	mu       sync.Mutex
	groups   map[string]map[*Subscriber]struct{}
	lastSent map[string]time.Time

	throttle time.Duration
	now      func() time.Time
	logger   zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		groups:   make(map[string]map[*Subscriber]struct{}),
		lastSent: make(map[string]time.Time),
		throttle: DefaultThrottle,
		now:      time.Now,
		logger:   logger,
	}
}

// Subscribe adds sub to the poll's group, creating the group lazily.
// Subscribing the same handle twice has the same effect as once.
func (h *Hub) Subscribe(pollCode string, sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	group, ok := h.groups[pollCode]
	if !ok {
		group = make(map[*Subscriber]struct{})
		h.groups[pollCode] = group
	}
	group[sub] = struct{}{}

	h.logger.Debug().Str("poll_code", pollCode).Int("subscribers", len(group)).Msg("subscriber added")
}

// Unsubscribe removes sub and closes its event channel. Other
// subscribers and the poll's throttle timer are unaffected. Calling it
// for a handle that is not subscribed is a no-op.
func (h *Hub) Unsubscribe(pollCode string, sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	group, ok := h.groups[pollCode]
	if !ok {
		return
	}
	if _, ok := group[sub]; !ok {
		return
	}

	delete(group, sub)
	close(sub.events)
	if len(group) == 0 {
		delete(h.groups, pollCode)
	}

	h.logger.Debug().Str("poll_code", pollCode).Int("subscribers", len(group)).Msg("subscriber removed")
}

// NotifyChanged delivers a change event to every subscriber of the
// poll's group unless a broadcast went out less than the throttle
// interval ago, in which case the call is dropped with no replay.
// Delivery is non-blocking per subscriber: a full queue sheds its
// oldest event rather than delaying anyone else or the caller.
func (h *Hub) NotifyChanged(pollCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	if last, ok := h.lastSent[pollCode]; ok && now.Sub(last) < h.throttle {
		return
	}
	h.lastSent[pollCode] = now

	ev := Event{PollCode: pollCode}
	for sub := range h.groups[pollCode] {
		select {
		case sub.events <- ev:
			continue
		default:
		}
		// Queue full: drop the oldest, then retry once.
		select {
		case <-sub.events:
		default:
		}
		select {
		case sub.events <- ev:
		default:
			h.logger.Debug().Str("poll_code", pollCode).Msg("event dropped for slow subscriber")
		}
	}
}
