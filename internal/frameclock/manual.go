package frameclock

// Manual is a Clock driven by explicit Tick calls.
type Manual struct {
	handler Handler
	state   state
}

func (c *Manual) Bind(h Handler) {
	c.handler = h
}

func (c *Manual) Activate() {
	if c.state == idle {
		c.state = active
	}
}

func (c *Manual) Invalidate() {
	c.state = invalidated
}

// Active reports whether the clock currently delivers ticks.
func (c *Manual) Active() bool {
	return c.state == active
}

// Tick delivers ts to the bound handler and reports whether it was
// delivered.
func (c *Manual) Tick(ts float64) bool {
	if c.state != active || c.handler == nil {
		return false
	}
	c.handler(ts)

	return true
}

// ManualSource hands out Manual clocks and remembers the most recent one.
type ManualSource struct {
	clocks []*Manual
}

// Factory returns a Factory backed by the source.
func (s *ManualSource) Factory() Factory {
	return func() Clock {
		c := &Manual{}
		s.clocks = append(s.clocks, c)

		return c
	}
}

// Current returns the most recently built clock, or nil.
func (s *ManualSource) Current() *Manual {
	if len(s.clocks) == 0 {
		return nil
	}

	return s.clocks[len(s.clocks)-1]
}

// Built returns how many clocks the source has produced.
func (s *ManualSource) Built() int {
	return len(s.clocks)
}

// Tick forwards ts to the current clock.
func (s *ManualSource) Tick(ts float64) bool {
	c := s.Current()
	if c == nil {
		return false
	}

	return c.Tick(ts)
}
