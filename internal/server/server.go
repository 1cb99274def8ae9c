// Package server wires the HTTP routes.
package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"caja-backend/internal/admin"
	"caja-backend/internal/audit"
	"caja-backend/internal/auth"
	"caja-backend/internal/cashflow"
	"caja-backend/internal/cashsession"
	"caja-backend/internal/catalog"
	"caja-backend/internal/config"
	"caja-backend/internal/dashboard"
	"caja-backend/internal/httperr"
	"caja-backend/internal/treasury"
)

type Deps struct {
	Config   *config.Config
	Log      *zap.Logger
	DB       *gorm.DB
	Sessions *cashsession.Service
	Ledger   *treasury.Ledger
	Catalog  *catalog.Catalog
}

func New(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          httperr.Handler(d.Log),
		DisableStartupMessage: true,
	})

	app.Use(recover.New())

	// CORS origins virgülle ayrılmış
	corsOrigins := strings.Split(d.Config.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(d.Config.JWTSecret))

	protected.Get("/me", auth.MeHandler())

	// Kasa oturumları
	protected.Post("/cash-sessions", cashflow.OpenSessionHandler(d.Sessions))
	protected.Get("/cash-sessions", cashflow.ListSessionsHandler(d.Sessions))
	protected.Get("/cash-sessions/current", cashflow.CurrentSessionHandler(d.Sessions))
	protected.Get("/cash-sessions/:id", cashflow.GetSessionHandler(d.Sessions))
	protected.Post("/cash-sessions/:id/movements", cashflow.AddMovementHandler(d.Sessions))
	protected.Get("/cash-sessions/:id/movements", cashflow.ListMovementsHandler(d.Sessions))
	protected.Post("/cash-sessions/:id/close", cashflow.CloseSessionHandler(d.Sessions))

	// Katalog
	protected.Get("/denominations", cashflow.ListDenominationsHandler(d.Catalog))
	protected.Get("/denominations/suggest", cashflow.SuggestBreakdownHandler(d.Catalog, d.Sessions))
	protected.Post("/denominations/count", cashflow.CountHandler(d.Sessions))
	protected.Get("/movement-types", cashflow.ListMovementTypesHandler(d.Catalog))

	// Tesoreri
	protected.Get("/treasury/state", cashflow.FinancialSummaryHandler(d.Sessions, d.Config.Currency))
	protected.Get("/treasury/accounts", admin.ListAccountsHandler(d.Ledger))
	protected.Get("/treasury/accounts/:id/transactions", admin.ListTransactionsHandler(d.Ledger))

	supervisor := auth.RequireRole(auth.RoleSupervisor)
	protected.Get("/treasury/accounts/:id/funds", supervisor, admin.CheckFundsHandler(d.Ledger))
	protected.Post("/treasury/transactions", supervisor, admin.PostTransactionHandler(d.Ledger))
	protected.Post("/treasury/transfers", supervisor, admin.TransferHandler(d.Ledger))
	protected.Get("/audit-logs", supervisor, audit.ListAuditLogsHandler(d.DB))

	// Dashboard
	protected.Get("/dashboard/cash-chart", dashboard.CashChartHandler(d.Sessions))

	return app
}
