// Package bus fans performance reports out to subscribers through a second
// coalescing throttle, so delivery cadence is independent of how often the
// engine produces reports.
package bus

import (
	"time"

	"codeberg.org/mutker/perfmon/internal/dispatch"
	"codeberg.org/mutker/perfmon/internal/errors"
	"codeberg.org/mutker/perfmon/internal/logger"
	"codeberg.org/mutker/perfmon/internal/report"
	"codeberg.org/mutker/perfmon/internal/throttle"
)

// DefaultInterval is the delivery interval used when none is configured.
const DefaultInterval = 500 * time.Millisecond

// Handler receives delivered reports on the bus's dispatch context.
type Handler func(report.Performance)

// ID identifies a subscriber.
type ID uint64

// Stats tracks report distribution.
type Stats struct {
	Published   uint64
	Dispatched  uint64
	Coalesced   uint64
	Delivered   uint64
	Subscribers int
}

// Bus delivers at most one report per interval to each subscriber, always
// the most recent one published. All methods must be called on the queue's
// context.
type Bus struct {
	throttle  *throttle.Throttle[report.Performance]
	handlers  map[ID]Handler
	order     []ID
	next      ID
	delivered uint64
	closed    bool
	log       logger.Logger
}

// New returns an empty bus delivering on queue. A non-positive interval
// selects DefaultInterval.
func New(queue dispatch.Queue, interval time.Duration) *Bus {
	if interval <= 0 {
		interval = DefaultInterval
	}

	b := &Bus{
		handlers: make(map[ID]Handler),
		log:      logger.With("bus"),
	}
	b.throttle = throttle.New(queue, interval, b.dispatch)

	return b
}

// Publish offers r for the next delivery.
func (b *Bus) Publish(r report.Performance) {
	if b.closed {
		return
	}
	b.throttle.Send(r)
}

// Subscribe registers h and returns its ID.
func (b *Bus) Subscribe(h Handler) (ID, error) {
	errFactory := errors.New()

	if b.closed {
		return 0, errFactory.New(ErrBusClosed)
	}
	if h == nil {
		return 0, errFactory.New(ErrNilHandler)
	}

	b.next++
	b.handlers[b.next] = h
	b.order = append(b.order, b.next)

	return b.next, nil
}

// Unsubscribe removes a subscriber.
func (b *Bus) Unsubscribe(id ID) error {
	if _, ok := b.handlers[id]; !ok {
		return errors.New().WithData(ErrSubscriberNotFound, id)
	}

	delete(b.handlers, id)
	for i, existing := range b.order {
		if existing == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}

	return nil
}

// Stats returns distribution counters.
func (b *Bus) Stats() Stats {
	ts := b.throttle.Stats()

	return Stats{
		Published:   ts.Received,
		Dispatched:  ts.Emitted,
		Coalesced:   ts.Coalesced,
		Delivered:   b.delivered,
		Subscribers: len(b.order),
	}
}

// Close drops any pending report and all subscribers. Later publishes are
// ignored.
func (b *Bus) Close() {
	if b.closed {
		return
	}
	b.closed = true
	b.throttle.Reset()
	b.handlers = nil
	b.order = nil
}

func (b *Bus) dispatch(r report.Performance) {
	ids := append([]ID(nil), b.order...)
	for _, id := range ids {
		h, ok := b.handlers[id]
		if !ok {
			continue
		}
		h(r)
		b.delivered++
	}

	b.log.Debug().
		Str("report", r.ID.String()).
		Int("subscribers", len(ids)).
		Msg("Report dispatched")
}
