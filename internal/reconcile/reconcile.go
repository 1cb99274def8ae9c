// Package reconcile derives balances from the till and treasury ledgers.
//
// The functions in this file are pure: they only see the rows they are given.
// Stored account balances are never an input.
package reconcile

import (
	"github.com/shopspring/decimal"

	"caja-backend/internal/models"
	"caja-backend/internal/money"
)

// ComputedAmount is what the till should hold after movements: till-destined ingress
// (the OPENING movement included) minus all egress. Order does not matter.
func ComputedAmount(movements []models.TillMovement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		switch {
		case m.Direction == models.DirectionEgress:
			total = total.Sub(m.Amount)
		case m.Direction == models.DirectionIngress && !m.BankDestined():
			total = total.Add(m.Amount)
		}
	}
	return total
}

// SessionTillBalance is the live balance of an open session or the frozen retained
// amount of a closed one.
func SessionTillBalance(s models.CashSession, movements []models.TillMovement) decimal.Decimal {
	if s.IsOpen() {
		return ComputedAmount(movements)
	}
	if s.TillRetained.Valid {
		return s.TillRetained.Decimal
	}
	return decimal.Zero
}

// BankBalance adds cash sent straight to the bank from the till to the bank account's
// own postings. Mirrors of till movements are skipped so each deposit counts once.
func BankBalance(movements []models.TillMovement, bankTx []models.TreasuryTransaction) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		if m.BankDestined() {
			total = total.Add(m.Amount)
		}
	}
	for _, tx := range bankTx {
		switch tx.Direction {
		case models.DirectionIngress:
			if !tx.MirrorsTillMovement() {
				total = total.Add(tx.Amount)
			}
		case models.DirectionEgress:
			total = total.Sub(tx.Amount)
		}
	}
	return total
}

// ReserveBalance adds what closed sessions moved to the reserve to the reserve account's
// postings. Close-time deposits are skipped since ReserveMoved already carries them.
func ReserveBalance(sessions []models.CashSession, reserveTx []models.TreasuryTransaction) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sessions {
		if s.Status == models.SessionClosed && s.ReserveMoved.Valid {
			total = total.Add(s.ReserveMoved.Decimal)
		}
	}
	for _, tx := range reserveTx {
		switch tx.Direction {
		case models.DirectionIngress:
			if tx.Source != models.SourceSessionClose {
				total = total.Add(tx.Amount)
			}
		case models.DirectionEgress:
			total = total.Sub(tx.Amount)
		}
	}
	return total
}

func Total(till, bank, reserve decimal.Decimal) decimal.Decimal {
	return money.Sum(till, bank, reserve)
}
