package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/finanfun/internal/models"
	"github.com/shopspring/decimal"
)

const accountColumns = `id, user_id, account_type, balance, currency, is_active, created_at, updated_at`

// AccountRepository stores per-user balances.
type AccountRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewAccountRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *AccountRepository {
	return &AccountRepository{db: db, txGetter: txGetter}
}

func (r *AccountRepository) CreateAccount(ctx context.Context, a *models.Account) (*models.Account, error) {
	query := `
		INSERT INTO accounts (user_id, account_type, balance, currency, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING ` + accountColumns
	args := []any{a.UserID, a.AccountType, a.Balance, a.Currency, a.IsActive}

	var created models.Account
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &created, query, args...)

	logQuery(query, args, created.ID, err)

	if err != nil {
		return nil, mapError(err)
	}
	return &created, nil
}

// GetAccounts returns the active accounts of a user ordered by id.
func (r *AccountRepository) GetAccounts(ctx context.Context, userID int64) ([]models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1 AND is_active
		ORDER BY id
	`

	accounts := []models.Account{}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &accounts, query, userID)

	logQuery(query, []any{userID}, len(accounts), err)

	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// GetAccountForUpdate locks the account row until the surrounding transaction ends.
// It returns nil, nil when the user has no active account of that type.
func (r *AccountRepository) GetAccountForUpdate(ctx context.Context, userID int64, accountType string) (*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1 AND account_type = $2 AND is_active
		FOR UPDATE
	`
	args := []any{userID, accountType}

	var a models.Account
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &a, query, args...)

	logQuery(query, args, a.Balance, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepository) UpdateAccountBalance(ctx context.Context, accountID int64, balance decimal.Decimal) error {
	query := `UPDATE accounts SET balance = $2, updated_at = NOW() WHERE id = $1`
	args := []any{accountID, balance}

	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, args...)
	logQuery(query, args, rowsAffected(res), err)
	return err
}

func (r *AccountRepository) DeleteAccountsByUser(ctx context.Context, userID int64) error {
	query := `DELETE FROM accounts WHERE user_id = $1`

	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, userID)
	logQuery(query, []any{userID}, rowsAffected(res), err)
	return err
}
