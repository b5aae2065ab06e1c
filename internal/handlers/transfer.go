package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/finanfun/internal/models"
	"github.com/shopspring/decimal"
)

// Transferer moves BitFun from a parent to a linked child.
type Transferer interface {
	Transfer(ctx context.Context, parentID, childID int64, amount decimal.Decimal, description string) (out, in *models.Transaction, err error)
}

// TransferRequest represents a parent to child BitFun transfer.
// swagger:model TransferRequest
type TransferRequest struct {
	// required: true
	ChildID int64 `json:"child_id" validate:"required,gt=0"`

	// required: true
	// default: 5.00
	Amount decimal.Decimal `json:"amount" swaggertype:"string"`

	// default: Mesada
	Description string `json:"description" validate:"max=500"`
}

// TransferResponse holds both legs of the transfer.
// swagger:model TransferResponse
type TransferResponse struct {
	Success     bool                `json:"success"`
	TransferOut *models.Transaction `json:"transfer_out"`
	TransferIn  *models.Transaction `json:"transfer_in"`
}

// NewTransferHandler transfers BitFun from the caller to a linked child.
// @Summary Transfer BitFun to a child
// @Tags ledger
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param transferRequest body handlers.TransferRequest true "Transfer"
// @Success 200 {object} handlers.TransferResponse
// @Failure 400 {object} handlers.ErrorResponse
// @Failure 403 {object} handlers.ErrorResponse "Not linked"
// @Router /bitfun/transfer [post]
func NewTransferHandler(svc Transferer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parentID, ok := currentUserID(w, r)
		if !ok {
			return
		}

		var req TransferRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		out, in, err := svc.Transfer(r.Context(), parentID, req.ChildID, req.Amount, req.Description)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, TransferResponse{Success: true, TransferOut: out, TransferIn: in})
	}
}
