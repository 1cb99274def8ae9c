package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestTokenRoundTrip(t *testing.T) {
	tok, err := GenerateToken(secret, time.Hour, Operator{ID: "U1", Name: "Ana", Role: RoleCashier})
	require.NoError(t, err)

	op, err := ParseToken(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, Operator{ID: "U1", Name: "Ana", Role: RoleCashier}, op)

	_, err = ParseToken("another-secret-another-secret-xx", tok)
	assert.Error(t, err)
}

func TestGenerateTokenRejects(t *testing.T) {
	_, err := GenerateToken(secret, time.Hour, Operator{Role: RoleCashier})
	assert.Error(t, err)
	_, err = GenerateToken(secret, time.Hour, Operator{ID: "U1", Role: "admin"})
	assert.Error(t, err)
}

func TestExpiredToken(t *testing.T) {
	tok, err := GenerateToken(secret, -time.Minute, Operator{ID: "U1", Role: RoleCashier})
	require.NoError(t, err)
	_, err = ParseToken(secret, tok)
	assert.Error(t, err)
}

func TestMiddlewareAndRoles(t *testing.T) {
	app := fiber.New()
	app.Use(JWTMiddleware(secret))
	app.Get("/me", MeHandler())
	app.Post("/treasury", RequireRole(RoleSupervisor), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	cashier, err := GenerateToken(secret, time.Hour, Operator{ID: "U1", Role: RoleCashier})
	require.NoError(t, err)
	super, err := GenerateToken(secret, time.Hour, Operator{ID: "S1", Role: RoleSupervisor})
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		header string
		want   int
	}{
		{"no header", "GET", "/me", "", fiber.StatusUnauthorized},
		{"bad scheme", "GET", "/me", "Token " + cashier, fiber.StatusUnauthorized},
		{"garbage", "GET", "/me", "Bearer nope", fiber.StatusUnauthorized},
		{"me", "GET", "/me", "Bearer " + cashier, fiber.StatusOK},
		{"cashier forbidden", "POST", "/treasury", "Bearer " + cashier, fiber.StatusForbidden},
		{"supervisor allowed", "POST", "/treasury", "Bearer " + super, fiber.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
