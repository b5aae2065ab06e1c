package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Supported transaction types
const (
	TxEarn        = "earn"
	TxReward      = "reward"
	TxSpend       = "spend"
	TxTransferIn  = "transfer_in"
	TxTransferOut = "transfer_out"
)

// Well-known transaction sources
const (
	SourceTask           = "task"
	SourceGoal           = "goal"
	SourcePurchase       = "purchase"
	SourceParentTransfer = "parent_transfer"
	SourceAchievement    = "achievement"
	SourceSignupBonus    = "signup_bonus"
)

// MaxAmount is the largest value a NUMERIC(12,2) column holds.
var MaxAmount = decimal.RequireFromString("9999999999.99")

// TxRule tells which account a transaction type touches and in which direction.
type TxRule struct {
	AccountType string
	Credit      bool
}

// TxRules maps every transaction type to its account rule.
var TxRules = map[string]TxRule{
	TxEarn:        {AccountType: AccountVirtual, Credit: true},
	TxReward:      {AccountType: AccountVirtual, Credit: true},
	TxSpend:       {AccountType: AccountVirtual, Credit: false},
	TxTransferIn:  {AccountType: AccountVirtual, Credit: true},
	TxTransferOut: {AccountType: AccountVirtual, Credit: false},
}

// Transaction is an immutable ledger entry. Amount is signed.
type Transaction struct {
	ID           int64           `json:"id" db:"id"`
	UserID       int64           `json:"user_id" db:"user_id"`
	AccountID    int64           `json:"account_id" db:"account_id"`
	Amount       decimal.Decimal `json:"amount" db:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after" db:"balance_after"`
	Type         string          `json:"type" db:"type"`
	Description  string          `json:"description" db:"description"`
	Source       *string         `json:"source,omitempty" db:"source"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// MarshalJSON renders money fields with exactly two decimals.
func (t Transaction) MarshalJSON() ([]byte, error) {
	type plain Transaction
	return json.Marshal(struct {
		plain
		Amount       string `json:"amount"`
		BalanceAfter string `json:"balance_after"`
	}{plain(t), t.Amount.StringFixed(2), t.BalanceAfter.StringFixed(2)})
}

// NewTransaction is the input for recording a ledger entry. Amount is positive;
// the sign is derived from Type.
type NewTransaction struct {
	Amount      decimal.Decimal
	Type        string
	Description string
	Source      *string
}

// TransactionEvent is published after a ledger entry is committed.
type TransactionEvent struct {
	TransactionID int64  `json:"transaction_id"`
	UserID        int64  `json:"user_id"`
	AccountID     int64  `json:"account_id"`
	Amount        string `json:"amount"`
	BalanceAfter  string `json:"balance_after"`
	Type          string `json:"type"`
	Source        string `json:"source,omitempty"`
	Timestamp     int64  `json:"timestamp"`
}

// NewTransactionEvent builds the event payload for a committed transaction.
func NewTransactionEvent(t *Transaction) TransactionEvent {
	ev := TransactionEvent{
		TransactionID: t.ID,
		UserID:        t.UserID,
		AccountID:     t.AccountID,
		Amount:        t.Amount.StringFixed(2),
		BalanceAfter:  t.BalanceAfter.StringFixed(2),
		Type:          t.Type,
		Timestamp:     t.CreatedAt.Unix(),
	}
	if t.Source != nil {
		ev.Source = *t.Source
	}
	return ev
}
