package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/finanfun/internal/models"
)

// AccountLister lists a user's active accounts.
type AccountLister interface {
	GetAccounts(ctx context.Context, userID int64) ([]models.Account, error)
}

// AccountsResponse lists the caller's accounts.
// swagger:model AccountsResponse
type AccountsResponse struct {
	Success  bool             `json:"success"`
	Accounts []models.Account `json:"accounts"`
}

// NewAccountsHandler returns the caller's accounts and balances.
// @Summary List accounts
// @Tags ledger
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.AccountsResponse
// @Failure 401 {object} handlers.ErrorResponse
// @Router /accounts [get]
func NewAccountsHandler(svc AccountLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUserID(w, r)
		if !ok {
			return
		}

		accounts, err := svc.GetAccounts(r.Context(), userID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		if accounts == nil {
			accounts = []models.Account{}
		}

		writeJSON(w, http.StatusOK, AccountsResponse{Success: true, Accounts: accounts})
	}
}
