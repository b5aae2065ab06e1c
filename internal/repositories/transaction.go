package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/finanfun/internal/models"
	"github.com/shopspring/decimal"
)

const transactionColumns = `id, user_id, account_id, amount, balance_after, type, description, source, created_at`

// TransactionRepository appends and lists ledger entries.
type TransactionRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewTransactionRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *TransactionRepository {
	return &TransactionRepository{db: db, txGetter: txGetter}
}

func (r *TransactionRepository) CreateTransaction(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	query := `
		INSERT INTO bitfun_transactions (user_id, account_id, amount, balance_after, type, description, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING ` + transactionColumns
	args := []any{t.UserID, t.AccountID, t.Amount, t.BalanceAfter, t.Type, t.Description, t.Source}

	var created models.Transaction
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &created, query, args...)

	logQuery(query, args, created.ID, err)

	if err != nil {
		return nil, mapError(err)
	}
	return &created, nil
}

// ListTransactions returns the newest transactions of a user first.
func (r *TransactionRepository) ListTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM bitfun_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	args := []any{userID, limit}

	txs := []models.Transaction{}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &txs, query, args...)

	logQuery(query, args, len(txs), err)

	if err != nil {
		return nil, err
	}
	return txs, nil
}

// SumTransactions returns the sum of all amounts posted to an account.
func (r *TransactionRepository) SumTransactions(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM bitfun_transactions WHERE account_id = $1`

	var sum decimal.Decimal
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &sum, query, accountID)

	logQuery(query, []any{accountID}, sum, err)

	return sum, err
}

func (r *TransactionRepository) DeleteTransactionsByUser(ctx context.Context, userID int64) error {
	query := `DELETE FROM bitfun_transactions WHERE user_id = $1`

	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, userID)
	logQuery(query, []any{userID}, rowsAffected(res), err)
	return err
}
