package checkout

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when the checkout state machine is driven out of order.
var ErrInvalidTransition = errors.New("invalid checkout state transition")

// State is a step of the checkout state machine.
type State string

const (
	StateIdle        State = "idle"
	StateValidating  State = "validating"
	StateCommitting  State = "committing"
	StateDispatching State = "dispatching"
	StateComplete    State = "complete"
	StateRejected    State = "rejected"
)

// Idle -> Validating -> Committing -> Dispatching -> Complete, or Validating -> Rejected.
// A finished checkout may start over.
func allowedTransition(current, next State) bool {
	switch current {
	case StateIdle, StateComplete, StateRejected:
		return next == StateValidating
	case StateValidating:
		return next == StateCommitting || next == StateRejected
	case StateCommitting:
		return next == StateDispatching
	case StateDispatching:
		return next == StateComplete
	default:
		return false
	}
}

func (c *Customer) transition(next State) error {
	if !allowedTransition(c.state, next) {
		return fmt.Errorf("%s -> %s: %w", c.state, next, ErrInvalidTransition)
	}
	c.engine.logger.Debug().
		Str("customer_id", c.id).
		Str("from", string(c.state)).
		Str("to", string(next)).
		Msg("checkout transition")
	c.state = next
	return nil
}
