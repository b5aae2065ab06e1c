package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/finanfun/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		mockSetup    func(m *MockAccountLister)
		expectedCode int
		balances     []any
	}{
		{
			name: "success",
			mockSetup: func(m *MockAccountLister) {
				m.EXPECT().GetAccounts(gomock.Any(), int64(5)).Return([]models.Account{
					{ID: 1, UserID: 5, AccountType: models.AccountReal, Balance: decimal.RequireFromString("0.00"), Currency: models.CurrencyBRL},
					{ID: 2, UserID: 5, AccountType: models.AccountVirtual, Balance: decimal.RequireFromString("100.00"), Currency: models.CurrencyBitFun},
				}, nil)
			},
			expectedCode: http.StatusOK,
			balances:     []any{"0.00", "100.00"},
		},
		{
			name: "no accounts",
			mockSetup: func(m *MockAccountLister) {
				m.EXPECT().GetAccounts(gomock.Any(), int64(5)).Return(nil, nil)
			},
			expectedCode: http.StatusOK,
			balances:     []any{},
		},
		{
			name: "storage failure",
			mockSetup: func(m *MockAccountLister) {
				m.EXPECT().GetAccounts(gomock.Any(), int64(5)).Return(nil, errors.New("db down"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMockAccountLister(ctrl)
			tt.mockSetup(m)

			rr := httptest.NewRecorder()
			NewAccountsHandler(m).ServeHTTP(rr, newRequest(t, http.MethodGet, "/api/accounts", nil, 5))

			require.Equal(t, tt.expectedCode, rr.Code)
			if tt.balances == nil {
				return
			}
			body := decodeBody(t, rr)
			accounts := body["accounts"].([]any)
			got := make([]any, 0, len(accounts))
			for _, a := range accounts {
				got = append(got, a.(map[string]any)["balance"])
			}
			assert.Equal(t, tt.balances, got)
		})
	}
}
