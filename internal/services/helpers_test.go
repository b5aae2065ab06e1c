package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/sbilibin2017/finanfun/internal/models"
	"github.com/sbilibin2017/finanfun/internal/repositories/memory"
	"github.com/sbilibin2017/finanfun/internal/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testTTL = 168 * time.Hour

type testEnv struct {
	store      *memory.Store
	ledger     *services.Ledger
	creds      *services.CredentialStore
	sessions   *services.SessionManager
	auth       *services.AuthService
	dashboards *services.DashboardService
	family     *services.FamilyService
}

func newTestEnv(t *testing.T, kafkaWriter services.KafkaWriter, providers map[string]services.IdentityProvider) *testEnv {
	t.Helper()
	store := memory.New()
	ledger := services.NewLedger(store, store, store, store, kafkaWriter)
	creds := services.NewCredentialStore(store, store, store, store, store, ledger, services.MinBcryptCost)
	sessions := services.NewSessionManager(store, testTTL)
	return &testEnv{
		store:      store,
		ledger:     ledger,
		creds:      creds,
		sessions:   sessions,
		auth:       services.NewAuthService(creds, sessions, providers),
		dashboards: services.NewDashboardService(store, store, store, store),
		family:     services.NewFamilyService(store, store),
	}
}

func (e *testEnv) register(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := e.creds.CreateUser(context.Background(), models.NewUser{Email: email, Name: "Test", Password: "secret123"})
	require.NoError(t, err)
	return u
}

func (e *testEnv) balance(t *testing.T, userID int64) decimal.Decimal {
	t.Helper()
	b, err := e.ledger.GetBalance(context.Background(), userID, models.AccountVirtual)
	require.NoError(t, err)
	return b
}

// requireLedgerConsistent checks that every account balance equals the sum of its transactions.
func (e *testEnv) requireLedgerConsistent(t *testing.T, userID int64) {
	t.Helper()
	ctx := context.Background()
	accounts, err := e.store.GetAccounts(ctx, userID)
	require.NoError(t, err)
	for _, a := range accounts {
		sum, err := e.store.SumTransactions(ctx, a.ID)
		require.NoError(t, err)
		require.True(t, sum.Equal(a.Balance), "account %s: sum %s, balance %s", a.AccountType, sum, a.Balance)
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
