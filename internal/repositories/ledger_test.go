package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sbilibin2017/finanfun/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountAndTransactionRepositories(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	ctx := context.Background()
	users := NewUserRepository(db, TxFromContext)
	accounts := NewAccountRepository(db, TxFromContext)
	txs := NewTransactionRepository(db, TxFromContext)
	transactor := NewTransactor(db)

	user := createTestUser(t, users, "ana@example.com")
	for _, a := range models.DefaultAccounts(user.ID) {
		_, err := accounts.CreateAccount(ctx, &a)
		require.NoError(t, err)
	}

	dup := models.DefaultAccounts(user.ID)[0]
	_, err := accounts.CreateAccount(ctx, &dup)
	assert.ErrorIs(t, err, ErrUniqueViolation)

	list, err := accounts.GetAccounts(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, models.AccountReal, list[0].AccountType)
	assert.Equal(t, models.AccountVirtual, list[1].AccountType)

	t.Run("CommitUpdatesBalanceAndLog", func(t *testing.T) {
		amount := decimal.RequireFromString("100.00")
		source := models.SourceSignupBonus
		err := transactor.WithinTx(ctx, func(ctx context.Context) error {
			acc, err := accounts.GetAccountForUpdate(ctx, user.ID, models.AccountVirtual)
			if err != nil {
				return err
			}
			balance := acc.Balance.Add(amount)
			if _, err := txs.CreateTransaction(ctx, &models.Transaction{
				UserID: user.ID, AccountID: acc.ID, Amount: amount, BalanceAfter: balance,
				Type: models.TxReward, Description: "bonus", Source: &source,
			}); err != nil {
				return err
			}
			return accounts.UpdateAccountBalance(ctx, acc.ID, balance)
		})
		require.NoError(t, err)

		acc, err := accounts.GetAccountForUpdate(ctx, user.ID, models.AccountVirtual)
		require.NoError(t, err)
		assert.True(t, acc.Balance.Equal(amount))

		recent, err := txs.ListTransactions(ctx, user.ID, 10)
		require.NoError(t, err)
		require.Len(t, recent, 1)
		assert.True(t, recent[0].Amount.Equal(amount))
		assert.Equal(t, models.SourceSignupBonus, *recent[0].Source)

		sum, err := txs.SumTransactions(ctx, acc.ID)
		require.NoError(t, err)
		assert.True(t, sum.Equal(acc.Balance))
	})

	t.Run("RollbackDiscardsWrites", func(t *testing.T) {
		boom := errors.New("boom")
		err := transactor.WithinTx(ctx, func(ctx context.Context) error {
			acc, err := accounts.GetAccountForUpdate(ctx, user.ID, models.AccountVirtual)
			if err != nil {
				return err
			}
			if err := accounts.UpdateAccountBalance(ctx, acc.ID, decimal.Zero); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		acc, err := accounts.GetAccountForUpdate(ctx, user.ID, models.AccountVirtual)
		require.NoError(t, err)
		assert.Equal(t, "100", acc.Balance.String())
	})

	t.Run("ListNewestFirstWithLimit", func(t *testing.T) {
		acc, err := accounts.GetAccountForUpdate(ctx, user.ID, models.AccountReal)
		require.NoError(t, err)
		for i := 1; i <= 3; i++ {
			_, err := txs.CreateTransaction(ctx, &models.Transaction{
				UserID: user.ID, AccountID: acc.ID, Amount: decimal.NewFromInt(int64(i)),
				BalanceAfter: decimal.NewFromInt(int64(i)), Type: models.TxEarn,
			})
			require.NoError(t, err)
			time.Sleep(5 * time.Millisecond)
		}
		recent, err := txs.ListTransactions(ctx, user.ID, 2)
		require.NoError(t, err)
		require.Len(t, recent, 2)
		assert.Equal(t, "3", recent[0].Amount.String())
		assert.Equal(t, "2", recent[1].Amount.String())
	})

	t.Run("MissingAccount", func(t *testing.T) {
		acc, err := accounts.GetAccountForUpdate(ctx, user.ID, models.AccountSavings)
		assert.NoError(t, err)
		assert.Nil(t, acc)
	})

	t.Run("DeleteByUser", func(t *testing.T) {
		require.NoError(t, txs.DeleteTransactionsByUser(ctx, user.ID))
		require.NoError(t, accounts.DeleteAccountsByUser(ctx, user.ID))
		list, err := accounts.GetAccounts(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestFamilyRepository(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	ctx := context.Background()
	users := NewUserRepository(db, TxFromContext)
	repo := NewFamilyRepository(db, TxFromContext)

	parent := createTestUser(t, users, "parent@example.com")
	child := createTestUser(t, users, "child@example.com")

	now := time.Now().UTC()
	link, err := repo.CreateFamilyConnection(ctx, &models.FamilyConnection{
		ParentID: parent.ID, ChildID: child.ID, Relationship: models.RelationshipParent,
		Status: models.FamilyActive, ApprovedAt: &now,
	})
	require.NoError(t, err)

	_, err = repo.CreateFamilyConnection(ctx, &models.FamilyConnection{
		ParentID: parent.ID, ChildID: child.ID, Relationship: models.RelationshipParent, Status: models.FamilyPending,
	})
	assert.ErrorIs(t, err, ErrUniqueViolation)

	open, err := repo.GetOpenConnection(ctx, parent.ID, child.ID)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, link.ID, open.ID)

	members, err := repo.ListChildren(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, child.ID, members[0].ChildID)
	assert.Equal(t, child.UUID.String(), members[0].ChildUUID)
	assert.Equal(t, "child@example.com", members[0].ChildEmail)

	changed, err := repo.DeactivateConnection(ctx, parent.ID, child.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.DeactivateConnection(ctx, parent.ID, child.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	open, err = repo.GetOpenConnection(ctx, parent.ID, child.ID)
	assert.NoError(t, err)
	assert.Nil(t, open)

	_, err = repo.CreateFamilyConnection(ctx, &models.FamilyConnection{
		ParentID: parent.ID, ChildID: child.ID, Relationship: models.RelationshipGuardian, Status: models.FamilyActive,
	})
	require.NoError(t, err)
	require.NoError(t, repo.DeleteFamilyByUser(ctx, child.ID))
	members, err = repo.ListChildren(ctx, parent.ID)
	require.NoError(t, err)
	assert.Empty(t, members)
}
