package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestEqual_WithinOneMinorUnit(t *testing.T) {
	assert.True(t, Equal(dec("100.00"), dec("100.01")))
	assert.True(t, Equal(dec("100.01"), dec("100.00")))
	assert.True(t, Equal(dec("130000"), dec("130000.00")))
	assert.False(t, Equal(dec("100.00"), dec("100.02")))
	assert.False(t, Equal(dec("120000"), dec("130000")))
}

func TestPositive(t *testing.T) {
	assert.True(t, Positive(dec("0.01")))
	assert.False(t, Positive(dec("0.001")))
	assert.False(t, Positive(decimal.Zero))
	assert.False(t, Positive(dec("-5")))
}

func TestExceeds(t *testing.T) {
	assert.True(t, Exceeds(dec("100.01"), dec("100")))
	assert.False(t, Exceeds(dec("100.00"), dec("100")))
	assert.True(t, Exceeds(dec("0.01"), dec("0")))
	assert.False(t, Exceeds(dec("50"), dec("100")))
}

func TestSum(t *testing.T) {
	assert.True(t, Sum(dec("1.10"), dec("2.20"), dec("3.30")).Equal(dec("6.60")))
	assert.True(t, Sum().IsZero())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$1,234.50", Format(dec("1234.5"), "USD"))
}
