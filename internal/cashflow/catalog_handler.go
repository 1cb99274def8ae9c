package cashflow

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"caja-backend/internal/catalog"
	"caja-backend/internal/counting"
	"caja-backend/internal/models"
)

type Catalog interface {
	Denominations(ctx context.Context) ([]models.Denomination, error)
	MovementTypes(ctx context.Context, d models.Direction) ([]models.MovementType, error)
}

type SuggestResponse struct {
	Amount decimal.Decimal `json:"amount"`
	catalog.Suggestion
}

// GET /api/denominations
func ListDenominationsHandler(cat Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		denoms, err := cat.Denominations(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(denoms)
	}
}

// GET /api/denominations/suggest?amount=130000
// amount yoksa açık oturumun kasa bakiyesi kullanılır.
func SuggestBreakdownHandler(cat Catalog, svc Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Query("amount")
		if raw == "" {
			s, till, err := svc.SuggestClosingCount(c.UserContext())
			if err != nil {
				return err
			}
			return c.JSON(SuggestResponse{Amount: till, Suggestion: s})
		}

		amount, err := decimal.NewFromString(raw)
		if err != nil || amount.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz amount")
		}
		denoms, err := cat.Denominations(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(SuggestResponse{Amount: amount, Suggestion: catalog.SuggestBreakdown(amount, denoms)})
	}
}

type CountRequest struct {
	Lines []counting.LineInput `json:"lines"`
}

type CountLine struct {
	DenominationID uint                    `json:"denomination_id"`
	Kind           models.DenominationKind `json:"kind"`
	Value          decimal.Decimal         `json:"value"`
	Quantity       int                     `json:"quantity"`
	Subtotal       decimal.Decimal         `json:"subtotal"`
}

type CountResponse struct {
	Lines []CountLine     `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// POST /api/denominations/count
// Sayım önizlemesi; hiçbir şey kaydedilmez.
func CountHandler(svc Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req CountRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		tally, err := svc.PreviewCount(c.UserContext(), req.Lines)
		if err != nil {
			return err
		}
		resp := CountResponse{Lines: make([]CountLine, 0, len(tally.Lines)), Total: tally.Total}
		for _, l := range tally.Lines {
			resp.Lines = append(resp.Lines, CountLine{
				DenominationID: l.DenominationID,
				Kind:           l.Denomination.Kind,
				Value:          l.Denomination.Value,
				Quantity:       l.Quantity,
				Subtotal:       l.Subtotal,
			})
		}
		return c.JSON(resp)
	}
}

// GET /api/movement-types?direction=EGRESS
func ListMovementTypesHandler(cat Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dir := models.Direction(c.Query("direction"))
		if dir != "" && !dir.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz direction (INGRESS|EGRESS)")
		}
		types, err := cat.MovementTypes(c.UserContext(), dir)
		if err != nil {
			return err
		}
		return c.JSON(types)
	}
}
