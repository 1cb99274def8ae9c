// Package dashboard summarizes recent till sessions for charts.
package dashboard

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"caja-backend/internal/models"
)

type SessionLister interface {
	ListSessions(ctx context.Context, limit int) ([]models.CashSession, error)
}

type CashChartPoint struct {
	Label        string          `json:"label"` // oturum açılış tarihi
	SessionID    uint            `json:"session_id"`
	Opening      decimal.Decimal `json:"opening"`
	Computed     decimal.Decimal `json:"computed"`
	Declared     decimal.Decimal `json:"declared"`
	Difference   decimal.Decimal `json:"difference"`
	ReserveMoved decimal.Decimal `json:"reserve_moved"`
}

type CashChartGrandTotals struct {
	Computed     decimal.Decimal `json:"computed"`
	Declared     decimal.Decimal `json:"declared"`
	Difference   decimal.Decimal `json:"difference"`
	ReserveMoved decimal.Decimal `json:"reserve_moved"`
}

type CashChartResponse struct {
	Points      []CashChartPoint     `json:"points"`
	GrandTotals CashChartGrandTotals `json:"grand_totals"`
}

// BuildChart turns closed sessions into chart points, oldest first. Open sessions are skipped.
func BuildChart(sessions []models.CashSession) CashChartResponse {
	resp := CashChartResponse{
		Points: []CashChartPoint{},
		GrandTotals: CashChartGrandTotals{
			Computed:     decimal.Zero,
			Declared:     decimal.Zero,
			Difference:   decimal.Zero,
			ReserveMoved: decimal.Zero,
		},
	}
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		if s.IsOpen() {
			continue
		}
		p := CashChartPoint{
			Label:        s.OpenedAt.Format("2006-01-02"),
			SessionID:    s.ID,
			Opening:      s.OpeningAmount,
			Computed:     s.ComputedAmount.Decimal,
			Declared:     s.DeclaredAmount.Decimal,
			Difference:   s.Difference.Decimal,
			ReserveMoved: s.ReserveMoved.Decimal,
		}
		resp.Points = append(resp.Points, p)

		resp.GrandTotals.Computed = resp.GrandTotals.Computed.Add(p.Computed)
		resp.GrandTotals.Declared = resp.GrandTotals.Declared.Add(p.Declared)
		resp.GrandTotals.Difference = resp.GrandTotals.Difference.Add(p.Difference)
		resp.GrandTotals.ReserveMoved = resp.GrandTotals.ReserveMoved.Add(p.ReserveMoved)
	}
	return resp
}

// GET /api/dashboard/cash-chart?count=30
func CashChartHandler(svc SessionLister) fiber.Handler {
	return func(c *fiber.Ctx) error {
		count := c.QueryInt("count", 30)
		if count <= 0 || count > 200 {
			return fiber.NewError(fiber.StatusBadRequest, "count 1 ile 200 arasında olmalı")
		}
		sessions, err := svc.ListSessions(c.UserContext(), count)
		if err != nil {
			return err
		}
		return c.JSON(BuildChart(sessions))
	}
}
