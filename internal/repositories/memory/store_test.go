package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/finanfun/internal/models"
	"github.com/sbilibin2017/finanfun/internal/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(email string) *models.User {
	return &models.User{UUID: uuid.New(), Email: email, Name: email, Provider: models.ProviderEmail, Role: models.RoleUser}
}

func TestStore_Users(t *testing.T) {
	s := New()
	ctx := context.Background()

	ana, err := s.CreateUser(ctx, newUser("ana@example.com"))
	require.NoError(t, err)
	assert.NotZero(t, ana.ID)

	_, err = s.CreateUser(ctx, newUser("ANA@example.com"))
	assert.ErrorIs(t, err, repositories.ErrUniqueViolation)

	got, err := s.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ana.ID, got.ID)

	got, err = s.GetUserByID(ctx, 42)
	assert.NoError(t, err)
	assert.Nil(t, got)

	bob, err := s.CreateUser(ctx, newUser("bob@example.com"))
	require.NoError(t, err)
	bob.Email = "ana@example.com"
	_, err = s.UpdateUser(ctx, bob)
	assert.ErrorIs(t, err, repositories.ErrUniqueViolation)

	at := time.Now()
	require.NoError(t, s.TouchLastLogin(ctx, ana.ID, at))
	got, _ = s.GetUserByID(ctx, ana.ID)
	require.NotNil(t, got.LastLogin)
	assert.True(t, got.LastLogin.Equal(at))
}

func TestStore_WithinTx_RollsBack(t *testing.T) {
	s := New()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.CreateUser(ctx, newUser("ana@example.com"))
		if err != nil {
			return err
		}
		if _, err := s.CreateProfile(ctx, u.ID); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	for table, n := range s.Counts() {
		assert.Zero(t, n, table)
	}

	assert.Panics(t, func() {
		_ = s.WithinTx(ctx, func(ctx context.Context) error {
			_, _ = s.CreateUser(ctx, newUser("ana@example.com"))
			panic("boom")
		})
	})
	assert.Zero(t, s.Counts()["users"])
}

func TestStore_WithinTx_Nested(t *testing.T) {
	s := New()
	ctx := context.Background()

	err := s.WithinTx(ctx, func(ctx context.Context) error {
		return s.WithinTx(ctx, func(ctx context.Context) error {
			_, err := s.CreateUser(ctx, newUser("ana@example.com"))
			return err
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Counts()["users"])
}

func TestStore_SessionsAndLedger(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now()

	u, err := s.CreateUser(ctx, newUser("ana@example.com"))
	require.NoError(t, err)

	_, err = s.CreateSession(ctx, &models.Session{UserID: u.ID, TokenHash: "a", ExpiresAt: now.Add(time.Hour)})
	require.NoError(t, err)
	_, err = s.CreateSession(ctx, &models.Session{UserID: u.ID, TokenHash: "b", ExpiresAt: now.Add(-time.Hour)})
	require.NoError(t, err)
	_, err = s.CreateSession(ctx, &models.Session{UserID: u.ID, TokenHash: "a", ExpiresAt: now})
	assert.ErrorIs(t, err, repositories.ErrUniqueViolation)

	n, err := s.DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	for _, a := range models.DefaultAccounts(u.ID) {
		_, err := s.CreateAccount(ctx, &a)
		require.NoError(t, err)
	}
	acc, err := s.GetAccountForUpdate(ctx, u.ID, models.AccountVirtual)
	require.NoError(t, err)
	require.NotNil(t, acc)

	for i := 1; i <= 3; i++ {
		amount := decimal.NewFromInt(int64(i))
		_, err := s.CreateTransaction(ctx, &models.Transaction{UserID: u.ID, AccountID: acc.ID, Amount: amount, Type: models.TxEarn})
		require.NoError(t, err)
	}
	recent, err := s.ListTransactions(ctx, u.ID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "3", recent[0].Amount.String())

	sum, err := s.SumTransactions(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "6", sum.String())

	ok, err := s.DeleteUser(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	for table, n := range s.Counts() {
		assert.Zero(t, n, table)
	}
}

func TestStore_Family(t *testing.T) {
	s := New()
	ctx := context.Background()

	parent, _ := s.CreateUser(ctx, newUser("parent@example.com"))
	child, _ := s.CreateUser(ctx, newUser("child@example.com"))

	_, err := s.CreateFamilyConnection(ctx, &models.FamilyConnection{ParentID: parent.ID, ChildID: child.ID, Relationship: models.RelationshipParent, Status: models.FamilyActive})
	require.NoError(t, err)
	_, err = s.CreateFamilyConnection(ctx, &models.FamilyConnection{ParentID: parent.ID, ChildID: child.ID, Relationship: models.RelationshipParent, Status: models.FamilyPending})
	assert.ErrorIs(t, err, repositories.ErrUniqueViolation)

	members, err := s.ListChildren(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "child@example.com", members[0].ChildEmail)

	changed, err := s.DeactivateConnection(ctx, parent.ID, child.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	open, err := s.GetOpenConnection(ctx, parent.ID, child.ID)
	assert.NoError(t, err)
	assert.Nil(t, open)

	members, _ = s.ListChildren(ctx, parent.ID)
	assert.Empty(t, members)
}
