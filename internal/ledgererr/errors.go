// Package ledgererr defines the domain errors raised by the cash-session and treasury ledger.
//
// Callers match on the sentinel values with errors.Is; the *Error wrapper carries the
// offending field and a human readable message.
package ledgererr

import (
	"errors"
	"fmt"
)

var (
	ErrSessionAlreadyOpen   = errors.New("a cash session is already open")
	ErrNoOpenSession        = errors.New("no open cash session")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidMovementType  = errors.New("invalid movement type")
	ErrDistributionMismatch = errors.New("till retained plus reserve moved does not match declared amount")
	ErrDenominationMismatch = errors.New("denomination count does not match expected total")
	ErrInsufficientFunds    = errors.New("insufficient funds")

	ErrInvalidDestination  = errors.New("invalid direction or destination")
	ErrUnknownDenomination = errors.New("unknown denomination")
	ErrAccountNotFound     = errors.New("account not found")
)

// Error is a domain validation failure bound to one of the sentinel kinds above.
type Error struct {
	Kind    error
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Field)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// New builds an *Error of the given kind with a formatted message.
func New(kind error, field, format string, args ...any) error {
	return &Error{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsDomain reports whether err is one of the ledger's validation failures.
func IsDomain(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return true
	}
	for _, kind := range all {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

var all = []error{
	ErrSessionAlreadyOpen,
	ErrNoOpenSession,
	ErrInvalidAmount,
	ErrInvalidMovementType,
	ErrDistributionMismatch,
	ErrDenominationMismatch,
	ErrInsufficientFunds,
	ErrInvalidDestination,
	ErrUnknownDenomination,
	ErrAccountNotFound,
}
