package commands

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caja-backend/internal/auth"
	"caja-backend/internal/models"
	"caja-backend/internal/reconcile"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := NewRootCommand()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate", "seed", "state", "sync", "token"}, names)
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("CAJA_CONFIG", "")

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"token", "S1", "--role", "supervisor", "--name", "Sofía"})
	require.NoError(t, root.Execute())

	op, err := auth.ParseToken(testSecret, string(bytes.TrimSpace(out.Bytes())))
	require.NoError(t, err)
	assert.Equal(t, "S1", op.ID)
	assert.Equal(t, auth.RoleSupervisor, op.Role)
}

func TestTokenCommandRejectsRole(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("CAJA_CONFIG", "")
	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"token", "S1", "--role", "owner"})
	assert.Error(t, root.Execute())
}

func TestStateAgainstSQLite(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", t.TempDir()+"/caja.db")
	t.Setenv("APP_ENV", "local")
	t.Setenv("CAJA_CONFIG", "")

	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"seed"})
	require.NoError(t, root.Execute())

	var out bytes.Buffer
	root = NewRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"state"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Open session:     none")
	assert.Contains(t, out.String(), "Total available:")
}

func TestSyncCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", t.TempDir()+"/caja.db")
	t.Setenv("APP_ENV", "local")
	t.Setenv("CAJA_CONFIG", "")

	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"seed"})
	require.NoError(t, root.Execute())

	var out bytes.Buffer
	root = NewRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"sync"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "nothing to sync\n", out.String())

	root = NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"sync", "42"})
	assert.Error(t, root.Execute())

	root = NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"sync", "abc"})
	assert.Error(t, root.Execute())
}

func TestPrintState(t *testing.T) {
	var out bytes.Buffer
	printState(&out, reconcile.Balances{
		TillBalance:    decimal.NewFromInt(80000),
		BankBalance:    decimal.NewFromInt(30000),
		ReserveBalance: decimal.NewFromInt(50000),
		TotalAvailable: decimal.NewFromInt(160000),
		OpenSession:    &models.CashSession{ID: 4, OperatorID: "U1"},
	}, "USD")
	assert.Contains(t, out.String(), "#4 by U1")
	assert.Contains(t, out.String(), "$160,000.00")
}
