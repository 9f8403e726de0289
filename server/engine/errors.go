package engine

import (
	"errors"
	"fmt"
)

// Action failures come in three kinds. All are rejected before any state
// or balance mutation: an action either fully succeeds or does nothing.
var (
	// ErrValidation covers malformed input: bad bet amounts, acting out
	// of phase, acting with no round in progress.
	ErrValidation = errors.New("invalid action")

	// ErrInsufficientFunds is split out from validation so the client can
	// offer a free-credits affordance instead of a plain error toast.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrIllegalAction covers rule violations on well-formed input:
	// doubling a 3-card hand, splitting a non-pair, discarding outside a
	// discard phase.
	ErrIllegalAction = errors.New("illegal action")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

func insufficientf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInsufficientFunds}, args...)...)
}

func illegalf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrIllegalAction}, args...)...)
}
