package frameclock

import (
	"time"

	"codeberg.org/mutker/perfmon/internal/dispatch"
)

// epoch anchors timestamps so that clocks rebuilt after a pause keep counting
// from the same origin.
var epoch = time.Now()

// Ticker emulates a display link with a fixed refresh rate.
type Ticker struct {
	queue   dispatch.Queue
	period  time.Duration
	handler Handler
	state   state
	stop    chan struct{}
}

// NewTicker returns an inactive clock firing rate times per second.
func NewTicker(queue dispatch.Queue, rate int) *Ticker {
	if rate <= 0 {
		rate = 60
	}

	return &Ticker{
		queue:  queue,
		period: time.Second / time.Duration(rate),
	}
}

// TickerFactory returns a Factory producing Ticker clocks.
func TickerFactory(queue dispatch.Queue, rate int) Factory {
	return func() Clock {
		return NewTicker(queue, rate)
	}
}

func (c *Ticker) Bind(h Handler) {
	c.handler = h
}

func (c *Ticker) Activate() {
	if c.state != idle {
		return
	}
	c.state = active
	c.stop = make(chan struct{})

	go c.run(c.stop)
}

func (c *Ticker) Invalidate() {
	if c.state == active {
		close(c.stop)
	}
	c.state = invalidated
}

func (c *Ticker) run(stop <-chan struct{}) {
	ticker := time.NewTicker(c.period)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			ts := now.Sub(epoch).Seconds()
			c.queue.Post(func() {
				c.deliver(ts)
			})
		}
	}
}

func (c *Ticker) deliver(ts float64) {
	if c.state != active || c.handler == nil {
		return
	}
	c.handler(ts)
}
