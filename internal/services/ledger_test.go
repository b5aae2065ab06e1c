package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/finanfun/internal/models"
	"github.com/sbilibin2017/finanfun/internal/services"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_RecordTransaction(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	ctx := context.Background()
	user := env.register(t, "ana@example.com")

	task := models.SourceTask
	tests := []struct {
		name        string
		nt          models.NewTransaction
		wantErr     error
		wantBalance string
	}{
		{name: "Earn", nt: models.NewTransaction{Amount: dec("10.50"), Type: models.TxEarn, Source: &task}, wantBalance: "110.50"},
		{name: "Reward", nt: models.NewTransaction{Amount: dec("5"), Type: models.TxReward}, wantBalance: "115.50"},
		{name: "Spend", nt: models.NewTransaction{Amount: dec("15.50"), Type: models.TxSpend}, wantBalance: "100.00"},
		{name: "SpendAll", nt: models.NewTransaction{Amount: dec("100"), Type: models.TxSpend}, wantBalance: "0.00"},
		{name: "Overdraw", nt: models.NewTransaction{Amount: dec("0.01"), Type: models.TxSpend}, wantErr: services.ErrInsufficientFunds, wantBalance: "0.00"},
		{name: "Zero", nt: models.NewTransaction{Amount: dec("0"), Type: models.TxEarn}, wantErr: services.ErrInvalidAmount, wantBalance: "0.00"},
		{name: "Negative", nt: models.NewTransaction{Amount: dec("-5"), Type: models.TxEarn}, wantErr: services.ErrInvalidAmount, wantBalance: "0.00"},
		{name: "Overflow", nt: models.NewTransaction{Amount: dec("99999999999999.99"), Type: models.TxEarn}, wantErr: services.ErrInvalidAmount, wantBalance: "0.00"},
		{name: "ThreeDecimals", nt: models.NewTransaction{Amount: dec("1.005"), Type: models.TxEarn}, wantErr: services.ErrInvalidAmount, wantBalance: "0.00"},
		{name: "TransferTypeNotAllowed", nt: models.NewTransaction{Amount: dec("1"), Type: models.TxTransferIn}, wantErr: services.ErrInvalidTransactionType, wantBalance: "0.00"},
		{name: "UnknownType", nt: models.NewTransaction{Amount: dec("1"), Type: "gift"}, wantErr: services.ErrInvalidTransactionType, wantBalance: "0.00"},
		{name: "MaxAmount", nt: models.NewTransaction{Amount: dec("9999999999.99"), Type: models.TxEarn}, wantBalance: "9999999999.99"},
		{name: "BalanceOverflow", nt: models.NewTransaction{Amount: dec("0.01"), Type: models.TxReward}, wantErr: services.ErrInvalidAmount, wantBalance: "9999999999.99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posted, err := env.ledger.RecordTransaction(ctx, user.ID, tt.nt)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, posted)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantBalance, posted.BalanceAfter.StringFixed(2))
				if tt.nt.Type == models.TxSpend {
					assert.True(t, posted.Amount.IsNegative())
				}
			}
			assert.Equal(t, tt.wantBalance, env.balance(t, user.ID).StringFixed(2))
			env.requireLedgerConsistent(t, user.ID)
		})
	}
}

func TestLedger_RecordTransaction_Concurrent(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	ctx := context.Background()
	user := env.register(t, "ana@example.com")

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.ledger.RecordTransaction(ctx, user.ID, models.NewTransaction{Amount: dec("10"), Type: models.TxSpend})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, services.ErrInsufficientFunds)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.True(t, env.balance(t, user.ID).IsZero())
	env.requireLedgerConsistent(t, user.ID)
}

func TestLedger_PublishesEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockKafka := services.NewMockKafkaWriter(ctrl)
	env := newTestEnv(t, mockKafka, nil)
	ctx := context.Background()

	// signup bonus
	mockKafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)
	user := env.register(t, "ana@example.com")

	var got models.TransactionEvent
	mockKafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, msgs ...kafka.Message) error {
			require.Len(t, msgs, 1)
			return json.Unmarshal(msgs[0].Value, &got)
		})

	source := models.SourceGoal
	posted, err := env.ledger.RecordTransaction(ctx, user.ID, models.NewTransaction{Amount: dec("2.5"), Type: models.TxEarn, Source: &source})
	require.NoError(t, err)
	assert.Equal(t, posted.ID, got.TransactionID)
	assert.Equal(t, "2.50", got.Amount)
	assert.Equal(t, "102.50", got.BalanceAfter)
	assert.Equal(t, models.SourceGoal, got.Source)

	t.Run("PublishFailureDoesNotFailPosting", func(t *testing.T) {
		mockKafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))
		_, err := env.ledger.RecordTransaction(ctx, user.ID, models.NewTransaction{Amount: dec("1"), Type: models.TxEarn})
		assert.NoError(t, err)
		assert.Equal(t, "103.50", env.balance(t, user.ID).StringFixed(2))
	})

	t.Run("NoEventOnFailure", func(t *testing.T) {
		_, err := env.ledger.RecordTransaction(ctx, user.ID, models.NewTransaction{Amount: dec("1000"), Type: models.TxSpend})
		assert.ErrorIs(t, err, services.ErrInsufficientFunds)
	})
}

func TestLedger_Transfer(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	ctx := context.Background()
	parent := env.register(t, "parent@example.com")
	child := env.register(t, "child@example.com")

	_, _, err := env.ledger.Transfer(ctx, parent.ID, child.ID, dec("30"), "mesada")
	assert.ErrorIs(t, err, services.ErrNotLinked)

	_, err = env.family.LinkChild(ctx, parent.ID, child.Email, models.RelationshipParent)
	require.NoError(t, err)

	out, in, err := env.ledger.Transfer(ctx, parent.ID, child.ID, dec("30"), "mesada")
	require.NoError(t, err)
	assert.Equal(t, models.TxTransferOut, out.Type)
	assert.Equal(t, "-30.00", out.Amount.StringFixed(2))
	assert.Equal(t, models.TxTransferIn, in.Type)
	assert.Equal(t, models.SourceParentTransfer, *in.Source)
	assert.Equal(t, "70.00", env.balance(t, parent.ID).StringFixed(2))
	assert.Equal(t, "130.00", env.balance(t, child.ID).StringFixed(2))

	_, _, err = env.ledger.Transfer(ctx, parent.ID, child.ID, dec("70.01"), "")
	assert.ErrorIs(t, err, services.ErrInsufficientFunds)
	assert.Equal(t, "70.00", env.balance(t, parent.ID).StringFixed(2))
	assert.Equal(t, "130.00", env.balance(t, child.ID).StringFixed(2))

	_, _, err = env.ledger.Transfer(ctx, parent.ID, parent.ID, dec("1"), "")
	assert.ErrorIs(t, err, services.ErrValidation)

	_, _, err = env.ledger.Transfer(ctx, parent.ID, child.ID, dec("0.001"), "")
	assert.ErrorIs(t, err, services.ErrInvalidAmount)

	env.requireLedgerConsistent(t, parent.ID)
	env.requireLedgerConsistent(t, child.ID)
}

func TestLedger_GetBalance(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	ctx := context.Background()
	user := env.register(t, "ana@example.com")

	brl, err := env.ledger.GetBalance(ctx, user.ID, models.AccountReal)
	require.NoError(t, err)
	assert.True(t, brl.IsZero())

	_, err = env.ledger.GetBalance(ctx, user.ID, models.AccountSavings)
	assert.ErrorIs(t, err, services.ErrAccountNotFound)
}
