package utils

import (
	"errors"
	"fmt"
)

// Error categories. Every specific error below wraps exactly one of them.
var (
	ErrValidation    = errors.New("validation error")
	ErrConflict      = errors.New("conflict")
	ErrPersistence   = errors.New("persistence error")
	ErrConfiguration = errors.New("configuration error")
)

var (
	ErrInvalidBet          = fmt.Errorf("%w: bet must be a positive whole number", ErrValidation)
	ErrInsufficientBalance = fmt.Errorf("%w: insufficient balance", ErrValidation)

	ErrSessionActive    = fmt.Errorf("%w: session already active", ErrConflict)
	ErrCooldownActive   = fmt.Errorf("%w: cooldown active", ErrConflict)
	ErrNoSession        = fmt.Errorf("%w: no active session", ErrConflict)
	ErrNoBet            = fmt.Errorf("%w: no bet placed", ErrConflict)
	ErrBetAlreadyPlaced = fmt.Errorf("%w: bet already placed", ErrConflict)
	ErrRoundOver        = fmt.Errorf("%w: round already resolved", ErrConflict)

	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrSnapshotCorrupt  = errors.New("snapshot corrupt")
)

// IsUserError reports whether err is something the user caused and can fix,
// as opposed to an infrastructure failure.
func IsUserError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrConflict)
}

func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
