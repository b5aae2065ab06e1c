package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountJSON_FixedBalance(t *testing.T) {
	for _, a := range DefaultAccounts(9) {
		raw, err := json.Marshal(a)
		require.NoError(t, err)

		var m map[string]any
		require.NoError(t, json.Unmarshal(raw, &m))
		assert.Equal(t, "0.00", m["balance"])
		assert.Equal(t, float64(9), m["user_id"])
	}

	raw, err := json.Marshal(&Account{Balance: SignupBonus})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"balance":"100.00"`)
}

func TestTransactionJSON_FixedAmounts(t *testing.T) {
	src := SourceTask
	tx := Transaction{ID: 1, Amount: decimal.RequireFromString("-15.5"), BalanceAfter: decimal.NewFromInt(100), Type: TxSpend, Source: &src}

	raw, err := json.Marshal(tx)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "-15.50", m["amount"])
	assert.Equal(t, "100.00", m["balance_after"])
	assert.Equal(t, "task", m["source"])
}

func TestUserJSON_HidesPasswordHash(t *testing.T) {
	hash := "$2a$10$abc"
	raw, err := json.Marshal(User{ID: 1, Email: "ana@example.com", PasswordHash: &hash})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), hash)
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	s := &Session{ExpiresAt: now}
	assert.True(t, s.Expired(now))
	assert.False(t, s.Expired(now.Add(-time.Second)))
}

func TestNewTransactionEvent(t *testing.T) {
	created := time.Unix(1700000000, 0)
	ev := NewTransactionEvent(&Transaction{ID: 4, UserID: 2, AccountID: 3, Amount: decimal.NewFromInt(5), BalanceAfter: decimal.NewFromInt(105), Type: TxEarn, CreatedAt: created})
	assert.Equal(t, "5.00", ev.Amount)
	assert.Equal(t, "105.00", ev.BalanceAfter)
	assert.Equal(t, int64(1700000000), ev.Timestamp)
	assert.Empty(t, ev.Source)
}
