package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/sbilibin2017/finanfun/internal/logger"
	"github.com/sbilibin2017/finanfun/internal/models"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// AccountStore reads and updates account balances.
type AccountStore interface {
	GetAccounts(ctx context.Context, userID int64) ([]models.Account, error)
	GetAccountForUpdate(ctx context.Context, userID int64, accountType string) (*models.Account, error)
	UpdateAccountBalance(ctx context.Context, accountID int64, balance decimal.Decimal) error
}

// TransactionStore appends and lists ledger entries.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, t *models.Transaction) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error)
}

// FamilyLinkReader looks up the link between a parent and a child.
type FamilyLinkReader interface {
	GetOpenConnection(ctx context.Context, parentID, childID int64) (*models.FamilyConnection, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Ledger keeps per-user accounts and their append-only transaction log.
// Every posting updates the cached balance in the same storage transaction.
type Ledger struct {
	tx           Transactor
	accounts     AccountStore
	transactions TransactionStore
	family       FamilyLinkReader
	kafkaWriter  KafkaWriter
}

// NewLedger creates a Ledger. kafkaWriter may be nil, in which case events are not published.
func NewLedger(tx Transactor, accounts AccountStore, transactions TransactionStore, family FamilyLinkReader, kafkaWriter KafkaWriter) *Ledger {
	return &Ledger{
		tx:           tx,
		accounts:     accounts,
		transactions: transactions,
		family:       family,
		kafkaWriter:  kafkaWriter,
	}
}

// validateAmount accepts positive amounts with at most two fractional digits
// that fit the storage column.
func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() || !amount.Equal(amount.Truncate(2)) || amount.GreaterThan(models.MaxAmount) {
		return ErrInvalidAmount
	}
	return nil
}

// GetAccounts returns the active accounts of a user.
func (l *Ledger) GetAccounts(ctx context.Context, userID int64) ([]models.Account, error) {
	accounts, err := l.accounts.GetAccounts(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get accounts", "user_id", userID, "err", err)
		return nil, err
	}
	return accounts, nil
}

// GetBalance returns the cached balance of one account.
func (l *Ledger) GetBalance(ctx context.Context, userID int64, accountType string) (decimal.Decimal, error) {
	accounts, err := l.GetAccounts(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	for _, a := range accounts {
		if a.AccountType == accountType {
			return a.Balance, nil
		}
	}
	return decimal.Zero, ErrAccountNotFound
}

// RecentTransactions returns at most limit transactions, newest first.
func (l *Ledger) RecentTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = models.RecentTransactionsLimit
	}
	txs, err := l.transactions.ListTransactions(ctx, userID, limit)
	if err != nil {
		logger.Log.Errorw("failed to list transactions", "user_id", userID, "err", err)
		return nil, err
	}
	return txs, nil
}

// RecordTransaction posts an earn, reward or spend entry and publishes it after commit.
func (l *Ledger) RecordTransaction(ctx context.Context, userID int64, nt models.NewTransaction) (*models.Transaction, error) {
	switch nt.Type {
	case models.TxEarn, models.TxReward, models.TxSpend:
	default:
		ledgerTransactions.WithLabelValues("invalid", "error").Inc()
		return nil, ErrInvalidTransactionType
	}
	if err := validateAmount(nt.Amount); err != nil {
		ledgerTransactions.WithLabelValues(nt.Type, "error").Inc()
		return nil, err
	}

	var posted *models.Transaction
	err := l.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		posted, err = l.Post(ctx, userID, nt)
		return err
	})
	ledgerTransactions.WithLabelValues(nt.Type, resultLabel(err)).Inc()
	if err != nil {
		logger.Log.Errorw("failed to record transaction", "user_id", userID, "type", nt.Type, "amount", nt.Amount, "err", err)
		return nil, err
	}

	l.Publish(ctx, posted)
	return posted, nil
}

// Post applies one entry using the transaction carried by ctx. The caller is
// responsible for running it inside WithinTx and for publishing afterwards.
func (l *Ledger) Post(ctx context.Context, userID int64, nt models.NewTransaction) (*models.Transaction, error) {
	rule, ok := models.TxRules[nt.Type]
	if !ok {
		return nil, ErrInvalidTransactionType
	}
	if err := validateAmount(nt.Amount); err != nil {
		return nil, err
	}

	account, err := l.accounts.GetAccountForUpdate(ctx, userID, rule.AccountType)
	if err != nil {
		return nil, fmt.Errorf("lock account: %w", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	amount := nt.Amount
	if !rule.Credit {
		amount = amount.Neg()
	}
	balance := account.Balance.Add(amount)
	if balance.IsNegative() {
		return nil, ErrInsufficientFunds
	}
	if balance.GreaterThan(models.MaxAmount) {
		return nil, fmt.Errorf("%w: balance would exceed %s", ErrInvalidAmount, models.MaxAmount.StringFixed(2))
	}

	posted, err := l.transactions.CreateTransaction(ctx, &models.Transaction{
		UserID:       userID,
		AccountID:    account.ID,
		Amount:       amount,
		BalanceAfter: balance,
		Type:         nt.Type,
		Description:  nt.Description,
		Source:       nt.Source,
	})
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}

	if err := l.accounts.UpdateAccountBalance(ctx, account.ID, balance); err != nil {
		return nil, fmt.Errorf("update balance: %w", err)
	}
	return posted, nil
}

// Transfer moves BitFun from a parent's virtual account to a linked child's.
func (l *Ledger) Transfer(ctx context.Context, parentID, childID int64, amount decimal.Decimal, description string) (out, in *models.Transaction, err error) {
	if parentID == childID {
		return nil, nil, fmt.Errorf("%w: cannot transfer to yourself", ErrValidation)
	}
	if err := validateAmount(amount); err != nil {
		return nil, nil, err
	}

	link, err := l.family.GetOpenConnection(ctx, parentID, childID)
	if err != nil {
		logger.Log.Errorw("failed to get family link", "parent_id", parentID, "child_id", childID, "err", err)
		return nil, nil, err
	}
	if link == nil || link.Status != models.FamilyActive {
		return nil, nil, ErrNotLinked
	}

	source := models.SourceParentTransfer
	err = l.tx.WithinTx(ctx, func(ctx context.Context) error {
		// lock both accounts in id order so opposite transfers cannot deadlock
		first, second := parentID, childID
		if second < first {
			first, second = second, first
		}
		for _, id := range []int64{first, second} {
			account, err := l.accounts.GetAccountForUpdate(ctx, id, models.AccountVirtual)
			if err != nil {
				return fmt.Errorf("lock account: %w", err)
			}
			if account == nil {
				return ErrAccountNotFound
			}
		}

		var err error
		if out, err = l.Post(ctx, parentID, models.NewTransaction{
			Amount: amount, Type: models.TxTransferOut, Description: description, Source: &source,
		}); err != nil {
			return err
		}
		in, err = l.Post(ctx, childID, models.NewTransaction{
			Amount: amount, Type: models.TxTransferIn, Description: description, Source: &source,
		})
		return err
	})
	ledgerTransactions.WithLabelValues("transfer", resultLabel(err)).Inc()
	if err != nil {
		logger.Log.Errorw("failed to transfer", "parent_id", parentID, "child_id", childID, "amount", amount, "err", err)
		return nil, nil, err
	}

	l.Publish(ctx, out)
	l.Publish(ctx, in)
	return out, in, nil
}

// Publish sends a committed transaction to Kafka. Failures are logged only.
func (l *Ledger) Publish(ctx context.Context, t *models.Transaction) {
	if t == nil {
		return
	}
	if l.kafkaWriter == nil {
		logger.Log.Debugw("Kafka writer not configured, skipping publishing", "transaction_id", t.ID)
		return
	}

	data, err := json.Marshal(models.NewTransactionEvent(t))
	if err != nil {
		logger.Log.Errorw("Failed to marshal transaction for Kafka", "transaction_id", t.ID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(t.UserID, 10)),
		Value: data,
	}

	if err := l.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish transaction to Kafka", "transaction_id", t.ID, "error", err)
	} else {
		logger.Log.Infow("Transaction published to Kafka", "transaction_id", t.ID, "amount", t.Amount)
	}
}
