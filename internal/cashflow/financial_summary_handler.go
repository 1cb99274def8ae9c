package cashflow

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"caja-backend/internal/models"
	"caja-backend/internal/money"
)

type FinancialSummaryResponse struct {
	TillBalance    decimal.Decimal     `json:"till_balance"`
	BankBalance    decimal.Decimal     `json:"bank_balance"`
	ReserveBalance decimal.Decimal     `json:"reserve_balance"`
	TotalAvailable decimal.Decimal     `json:"total_available"`
	OpenSession    *models.CashSession `json:"open_session"`
	Currency       string              `json:"currency"`
	Display        map[string]string   `json:"display"` // para birimi biçimli değerler
}

// GET /api/treasury/state
func FinancialSummaryHandler(svc Sessions, currency string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		b, err := svc.CurrentState(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(FinancialSummaryResponse{
			TillBalance:    b.TillBalance,
			BankBalance:    b.BankBalance,
			ReserveBalance: b.ReserveBalance,
			TotalAvailable: b.TotalAvailable,
			OpenSession:    b.OpenSession,
			Currency:       currency,
			Display: map[string]string{
				"till_balance":    money.Format(b.TillBalance, currency),
				"bank_balance":    money.Format(b.BankBalance, currency),
				"reserve_balance": money.Format(b.ReserveBalance, currency),
				"total_available": money.Format(b.TotalAvailable, currency),
			},
		})
	}
}
