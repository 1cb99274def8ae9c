// Package cashflow serves the till endpoints: sessions, movements and the catalog
// screens the cashier needs while counting.
package cashflow

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"caja-backend/internal/auth"
	"caja-backend/internal/cashsession"
	"caja-backend/internal/catalog"
	"caja-backend/internal/counting"
	"caja-backend/internal/models"
	"caja-backend/internal/reconcile"
)

// Sessions is the part of cashsession.Service the handlers use.
type Sessions interface {
	Open(ctx context.Context, p cashsession.OpenParams) (*models.CashSession, error)
	AddMovement(ctx context.Context, p cashsession.MovementParams) (*models.TillMovement, error)
	Close(ctx context.Context, p cashsession.CloseParams) (*cashsession.CloseResult, error)
	CurrentState(ctx context.Context) (reconcile.Balances, error)
	Current(ctx context.Context) (*cashsession.SessionView, error)
	Get(ctx context.Context, id uint) (*cashsession.SessionView, error)
	ListSessions(ctx context.Context, limit int) ([]models.CashSession, error)
	Movements(ctx context.Context, sessionID uint) ([]models.TillMovement, error)
	SuggestClosingCount(ctx context.Context) (catalog.Suggestion, decimal.Decimal, error)
	PreviewCount(ctx context.Context, inputs []counting.LineInput) (counting.Tally, error)
}

type OpenSessionRequest struct {
	OpeningAmount *decimal.Decimal     `json:"opening_amount"` // boşsa sayımdan
	Breakdown     []counting.LineInput `json:"breakdown"`
	Notes         string               `json:"notes"`
}

type AddMovementRequest struct {
	Type         string             `json:"type"` // hareket türü kodu, ör: SALE
	Direction    models.Direction   `json:"direction"`
	Destination  models.Destination `json:"destination"` // TILL | BANK, boşsa TILL
	Amount       decimal.Decimal    `json:"amount"`
	Description  string             `json:"description"`
	Reference    string             `json:"reference"`
	TillInternal bool               `json:"till_internal"`
}

type CloseSessionRequest struct {
	DeclaredAmount decimal.Decimal      `json:"declared_amount"`
	TillRetained   decimal.Decimal      `json:"till_retained"`
	ReserveMoved   decimal.Decimal      `json:"reserve_moved"`
	Breakdown      []counting.LineInput `json:"breakdown"` // yalnızca kasada kalan kısım
	Notes          string               `json:"notes"`
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Geçersiz ID")
	}
	return uint(id), nil
}

// -------------------------------------------------
// POST /api/cash-sessions
// -------------------------------------------------
func OpenSessionHandler(svc Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		op, err := auth.CurrentOperator(c)
		if err != nil {
			return err
		}
		var body OpenSessionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		session, err := svc.Open(c.UserContext(), cashsession.OpenParams{
			OperatorID:    op.ID,
			OpeningAmount: body.OpeningAmount,
			Breakdown:     body.Breakdown,
			Notes:         body.Notes,
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(session)
	}
}

// GET /api/cash-sessions?limit=50
func ListSessionsHandler(svc Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessions, err := svc.ListSessions(c.UserContext(), c.QueryInt("limit", 0))
		if err != nil {
			return err
		}
		return c.JSON(sessions)
	}
}

// GET /api/cash-sessions/current
func CurrentSessionHandler(svc Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, err := svc.Current(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(view)
	}
}

// GET /api/cash-sessions/:id
func GetSessionHandler(svc Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		view, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(view)
	}
}

// -------------------------------------------------
// POST /api/cash-sessions/:id/movements
// -------------------------------------------------
func AddMovementHandler(svc Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		op, err := auth.CurrentOperator(c)
		if err != nil {
			return err
		}
		var body AddMovementRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		mov, err := svc.AddMovement(c.UserContext(), cashsession.MovementParams{
			SessionID:    id,
			TypeCode:     body.Type,
			Direction:    body.Direction,
			Destination:  body.Destination,
			Amount:       body.Amount,
			Description:  body.Description,
			Reference:    body.Reference,
			OperatorID:   op.ID,
			TillInternal: body.TillInternal,
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(mov)
	}
}

// GET /api/cash-sessions/:id/movements
func ListMovementsHandler(svc Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		movs, err := svc.Movements(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(movs)
	}
}

// -------------------------------------------------
// POST /api/cash-sessions/:id/close
// -------------------------------------------------
func CloseSessionHandler(svc Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		op, err := auth.CurrentOperator(c)
		if err != nil {
			return err
		}
		var body CloseSessionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		res, err := svc.Close(c.UserContext(), cashsession.CloseParams{
			SessionID:      id,
			DeclaredAmount: body.DeclaredAmount,
			TillRetained:   body.TillRetained,
			ReserveMoved:   body.ReserveMoved,
			Breakdown:      body.Breakdown,
			Notes:          body.Notes,
			OperatorID:     op.ID,
		})
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}
