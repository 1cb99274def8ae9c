// Package httperr translates ledger errors into HTTP responses.
package httperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"caja-backend/internal/ledgererr"
)

var statusByKind = []struct {
	kind   error
	status int
	code   string
}{
	{ledgererr.ErrSessionAlreadyOpen, fiber.StatusConflict, "SESSION_ALREADY_OPEN"},
	{ledgererr.ErrNoOpenSession, fiber.StatusConflict, "NO_OPEN_SESSION"},
	{ledgererr.ErrDistributionMismatch, fiber.StatusUnprocessableEntity, "DISTRIBUTION_MISMATCH"},
	{ledgererr.ErrDenominationMismatch, fiber.StatusUnprocessableEntity, "DENOMINATION_MISMATCH"},
	{ledgererr.ErrInsufficientFunds, fiber.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS"},
	{ledgererr.ErrInvalidAmount, fiber.StatusBadRequest, "INVALID_AMOUNT"},
	{ledgererr.ErrInvalidMovementType, fiber.StatusBadRequest, "INVALID_MOVEMENT_TYPE"},
	{ledgererr.ErrInvalidDestination, fiber.StatusBadRequest, "INVALID_DESTINATION"},
	{ledgererr.ErrUnknownDenomination, fiber.StatusBadRequest, "UNKNOWN_DENOMINATION"},
	{ledgererr.ErrAccountNotFound, fiber.StatusNotFound, "ACCOUNT_NOT_FOUND"},
}

// Response is the JSON body of every error.
type Response struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Field string `json:"field,omitempty"`
}

// Resolve returns the status and body for err.
func Resolve(err error) (int, Response) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, Response{Error: fe.Message}
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.StatusNotFound, Response{Error: "Kayıt bulunamadı", Code: "NOT_FOUND"}
	}
	for _, m := range statusByKind {
		if errors.Is(err, m.kind) {
			resp := Response{Error: err.Error(), Code: m.code}
			var de *ledgererr.Error
			if errors.As(err, &de) {
				resp.Field = de.Field
			}
			return m.status, resp
		}
	}
	return fiber.StatusInternalServerError, Response{Error: "Sunucu hatası"}
}

// Handler is the fiber ErrorHandler. Unexpected errors are logged as errors, rejected
// ledger operations at debug level.
func Handler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := Resolve(err)
		switch {
		case status >= fiber.StatusInternalServerError:
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		case ledgererr.IsDomain(err):
			log.Debug("request rejected",
				zap.String("path", c.Path()),
				zap.String("code", body.Code),
				zap.Error(err),
			)
		}
		return c.Status(status).JSON(body)
	}
}
