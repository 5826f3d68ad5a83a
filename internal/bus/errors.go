package bus

import "codeberg.org/mutker/perfmon/internal/errors"

const (
	ErrBusClosed          = errors.ErrorCode("bus_closed")
	ErrSubscriberNotFound = errors.ErrorCode("bus_subscriber_not_found")
	ErrNilHandler         = errors.ErrorCode("bus_nil_handler")
)
