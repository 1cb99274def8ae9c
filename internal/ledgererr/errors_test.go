package ledgererr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_MatchesSentinel(t *testing.T) {
	err := New(ErrInsufficientFunds, "amount", "available %s", "10.00")

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.NotErrorIs(t, err, ErrInvalidAmount)
	assert.Equal(t, "insufficient funds: available 10.00 (amount)", err.Error())
}

func TestError_NoField(t *testing.T) {
	err := New(ErrNoOpenSession, "", "session %d is closed", 7)
	assert.Equal(t, "no open cash session: session 7 is closed", err.Error())
}

func TestIsDomain(t *testing.T) {
	assert.True(t, IsDomain(New(ErrDenominationMismatch, "", "x")))
	assert.True(t, IsDomain(fmt.Errorf("closing: %w", ErrSessionAlreadyOpen)))
	assert.False(t, IsDomain(errors.New("connection refused")))
}
