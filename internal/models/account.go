package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Supported account types
const (
	AccountReal    = "real"
	AccountVirtual = "virtual"
	AccountSavings = "savings"
)

// Supported currency tags
const (
	CurrencyBRL    = "BRL"
	CurrencyBitFun = "BitFun"
)

// SignupBonus is credited to the virtual account of every new user.
var SignupBonus = decimal.RequireFromString("100.00")

// Account represents a named balance bucket owned by a user.
type Account struct {
	ID          int64           `json:"id" db:"id"`                     // Primary key
	UserID      int64           `json:"user_id" db:"user_id"`           // Owner
	AccountType string          `json:"account_type" db:"account_type"` // real, virtual or savings
	Balance     decimal.Decimal `json:"balance" db:"balance"`           // Cached sum of the account's transactions
	Currency    string          `json:"currency" db:"currency"`         // BRL or BitFun
	IsActive    bool            `json:"is_active" db:"is_active"`       // Inactive accounts are hidden
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// DefaultAccounts returns the accounts opened for every new user, with zero balances.
// The virtual account receives SignupBonus through the ledger afterwards.
func DefaultAccounts(userID int64) []Account {
	return []Account{
		{UserID: userID, AccountType: AccountReal, Balance: decimal.Zero, Currency: CurrencyBRL, IsActive: true},
		{UserID: userID, AccountType: AccountVirtual, Balance: decimal.Zero, Currency: CurrencyBitFun, IsActive: true},
	}
}

// MarshalJSON renders the balance with exactly two decimals.
func (a Account) MarshalJSON() ([]byte, error) {
	type plain Account
	return json.Marshal(struct {
		plain
		Balance string `json:"balance"`
	}{plain(a), a.Balance.StringFixed(2)})
}
