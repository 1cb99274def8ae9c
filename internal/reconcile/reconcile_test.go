package reconcile

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"caja-backend/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mov(dir models.Direction, dest models.Destination, amount string) models.TillMovement {
	return models.TillMovement{Direction: dir, Destination: dest, Amount: dec(amount)}
}

func ptr(v uint) *uint { return &v }

func TestComputedAmount(t *testing.T) {
	movements := []models.TillMovement{
		mov(models.DirectionIngress, models.DestinationTill, "100000"), // açılış
		mov(models.DirectionIngress, models.DestinationTill, "50000"),
		mov(models.DirectionEgress, models.DestinationTill, "20000"),
		mov(models.DirectionIngress, models.DestinationBank, "30000"),
	}
	assert.Equal(t, "130000", ComputedAmount(movements).String())
}

func TestComputedAmountOrderIndependent(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	var movements []models.TillMovement
	want := decimal.Zero
	for i := 0; i < 40; i++ {
		amt := decimal.New(int64(r.Intn(100000)+1), -2)
		if r.Intn(2) == 0 {
			movements = append(movements, models.TillMovement{Direction: models.DirectionIngress, Destination: models.DestinationTill, Amount: amt})
			want = want.Add(amt)
		} else {
			movements = append(movements, models.TillMovement{Direction: models.DirectionEgress, Destination: models.DestinationTill, Amount: amt})
			want = want.Sub(amt)
		}
	}
	for i := 0; i < 5; i++ {
		r.Shuffle(len(movements), func(a, b int) { movements[a], movements[b] = movements[b], movements[a] })
		assert.True(t, want.Equal(ComputedAmount(movements)))
	}
}

func TestBankExclusion(t *testing.T) {
	movements := []models.TillMovement{
		mov(models.DirectionIngress, models.DestinationTill, "100000"),
	}
	tillBefore := ComputedAmount(movements)
	bankBefore := BankBalance(movements, nil)

	movements = append(movements, mov(models.DirectionIngress, models.DestinationBank, "30000"))
	assert.True(t, tillBefore.Equal(ComputedAmount(movements)))
	assert.Equal(t, "30000", BankBalance(movements, nil).Sub(bankBefore).String())
}

func TestSessionTillBalance(t *testing.T) {
	open := models.CashSession{Status: models.SessionOpen}
	movements := []models.TillMovement{mov(models.DirectionIngress, models.DestinationTill, "100")}
	assert.Equal(t, "100", SessionTillBalance(open, movements).String())

	closed := models.CashSession{
		Status:       models.SessionClosed,
		TillRetained: decimal.NewNullDecimal(dec("80")),
	}
	assert.Equal(t, "80", SessionTillBalance(closed, movements).String())
	assert.True(t, SessionTillBalance(models.CashSession{Status: models.SessionClosed}, nil).IsZero())
}

func TestBankBalance(t *testing.T) {
	deposits := []models.TillMovement{
		mov(models.DirectionIngress, models.DestinationBank, "30000"),
		mov(models.DirectionEgress, models.DestinationTill, "999"),
	}
	txs := []models.TreasuryTransaction{
		{Direction: models.DirectionIngress, Amount: dec("30000"), TillMovementID: ptr(4)}, // ayna
		{Direction: models.DirectionIngress, Amount: dec("5000")},
		{Direction: models.DirectionEgress, Amount: dec("12000")},
	}
	assert.Equal(t, "23000", BankBalance(deposits, txs).String())
}

func TestReserveBalance(t *testing.T) {
	sessions := []models.CashSession{
		{Status: models.SessionClosed, ReserveMoved: decimal.NewNullDecimal(dec("50000"))},
		{Status: models.SessionClosed},
		{Status: models.SessionOpen, ReserveMoved: decimal.NewNullDecimal(dec("777"))},
	}
	txs := []models.TreasuryTransaction{
		{Direction: models.DirectionIngress, Amount: dec("50000"), Source: models.SourceSessionClose},
		{Direction: models.DirectionIngress, Amount: dec("10000"), Source: models.SourceTransfer},
		{Direction: models.DirectionEgress, Amount: dec("15000"), Source: models.SourceManual},
	}
	assert.Equal(t, "45000", ReserveBalance(sessions, txs).String())
	assert.Equal(t, "6", Total(dec("1"), dec("2"), dec("3")).String())
}
