// Package admin serves the supervisor's treasury screens.
package admin

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"caja-backend/internal/auth"
	"caja-backend/internal/models"
	"caja-backend/internal/treasury"
)

// Treasury is the part of treasury.Ledger the handlers use.
type Treasury interface {
	Post(ctx context.Context, p treasury.PostParams) (*models.TreasuryTransaction, error)
	Transfer(ctx context.Context, p treasury.TransferParams) (*treasury.TransferResult, error)
	Accounts(ctx context.Context) ([]treasury.AccountView, error)
	Transactions(ctx context.Context, accountID uint, limit int) ([]models.TreasuryTransaction, error)
	CheckFunds(ctx context.Context, accountID uint, amount decimal.Decimal) (*treasury.FundsCheck, error)
}

type PostTransactionRequest struct {
	AccountID   uint             `json:"account_id"`
	Direction   models.Direction `json:"direction"` // INGRESS | EGRESS
	Amount      decimal.Decimal  `json:"amount"`
	Type        string           `json:"type"`
	Description string           `json:"description"`
	Reference   string           `json:"reference"`
}

type TransferRequest struct {
	FromAccountID uint            `json:"from_account_id"`
	ToAccountID   uint            `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
}

// GET /api/treasury/accounts
func ListAccountsHandler(ledger Treasury) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accounts, err := ledger.Accounts(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(accounts)
	}
}

// GET /api/treasury/accounts/:id/transactions?limit=100
func ListTransactionsHandler(ledger Treasury) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz hesap ID")
		}
		txs, err := ledger.Transactions(c.UserContext(), uint(id), c.QueryInt("limit", 0))
		if err != nil {
			return err
		}
		return c.JSON(txs)
	}
}

// GET /api/treasury/accounts/:id/funds?amount=250000 (supervisor)
func CheckFundsHandler(ledger Treasury) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz hesap ID")
		}
		amount := decimal.Zero
		if raw := c.Query("amount"); raw != "" {
			if amount, err = decimal.NewFromString(raw); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz amount")
			}
		}
		check, err := ledger.CheckFunds(c.UserContext(), uint(id), amount)
		if err != nil {
			return err
		}
		return c.JSON(check)
	}
}

// -------------------------------------------------
// POST /api/treasury/transactions (supervisor)
// -------------------------------------------------
func PostTransactionHandler(ledger Treasury) fiber.Handler {
	return func(c *fiber.Ctx) error {
		op, err := auth.CurrentOperator(c)
		if err != nil {
			return err
		}
		var body PostTransactionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.AccountID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "account_id zorunlu")
		}

		tx, err := ledger.Post(c.UserContext(), treasury.PostParams{
			AccountID:   body.AccountID,
			Direction:   body.Direction,
			Amount:      body.Amount,
			TypeCode:    body.Type,
			Description: body.Description,
			Reference:   body.Reference,
			OperatorID:  op.ID,
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(tx)
	}
}

// -------------------------------------------------
// POST /api/treasury/transfers (supervisor)
// -------------------------------------------------
func TransferHandler(ledger Treasury) fiber.Handler {
	return func(c *fiber.Ctx) error {
		op, err := auth.CurrentOperator(c)
		if err != nil {
			return err
		}
		var body TransferRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.FromAccountID == 0 || body.ToAccountID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "from_account_id ve to_account_id zorunlu")
		}

		res, err := ledger.Transfer(c.UserContext(), treasury.TransferParams{
			FromAccountID: body.FromAccountID,
			ToAccountID:   body.ToAccountID,
			Amount:        body.Amount,
			Description:   body.Description,
			OperatorID:    op.ID,
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}
