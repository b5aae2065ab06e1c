package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/finanfun/internal/models"
	"github.com/shopspring/decimal"
)

// TransactionRecorder posts a BitFun ledger entry.
type TransactionRecorder interface {
	RecordTransaction(ctx context.Context, userID int64, nt models.NewTransaction) (*models.Transaction, error)
}

// TransactionRequest represents a BitFun earn, reward or spend.
// swagger:model TransactionRequest
type TransactionRequest struct {
	// Positive amount with at most two decimals
	// required: true
	// default: 10.50
	Amount decimal.Decimal `json:"amount" swaggertype:"string"`

	// earn, reward or spend
	// required: true
	// default: earn
	Type string `json:"type" validate:"required"`

	// default: Tarefa concluída
	Description string `json:"description" validate:"max=500"`

	// task, goal, purchase or achievement
	Source *string `json:"source" validate:"omitempty,max=50"`
}

// TransactionResponse returns the entry and the resulting balance.
// swagger:model TransactionResponse
type TransactionResponse struct {
	Success     bool                `json:"success"`
	Transaction *models.Transaction `json:"transaction"`
	// default: 110.50
	Balance string `json:"balance"`
}

// NewTransactionHandler records a BitFun transaction for the caller.
// @Summary Record BitFun transaction
// @Description Credits (earn, reward) or debits (spend) the caller's BitFun account. Spending more than the balance fails.
// @Tags ledger
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param transactionRequest body handlers.TransactionRequest true "Transaction"
// @Success 200 {object} handlers.TransactionResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid amount, invalid type or insufficient funds"
// @Failure 401 {object} handlers.ErrorResponse
// @Router /bitfun/transaction [post]
func NewTransactionHandler(svc TransactionRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUserID(w, r)
		if !ok {
			return
		}

		var req TransactionRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		tx, err := svc.RecordTransaction(r.Context(), userID, models.NewTransaction{
			Amount:      req.Amount,
			Type:        req.Type,
			Description: req.Description,
			Source:      req.Source,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, TransactionResponse{
			Success:     true,
			Transaction: tx,
			Balance:     tx.BalanceAfter.StringFixed(2),
		})
	}
}
