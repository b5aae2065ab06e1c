package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sbilibin2017/finanfun/internal/models"
	"github.com/sbilibin2017/finanfun/internal/services"
)

// FamilyManager links and unlinks children.
type FamilyManager interface {
	LinkChild(ctx context.Context, parentID int64, childEmail, relationship string) (*models.FamilyConnection, error)
	UnlinkChild(ctx context.Context, parentID, childID int64) error
}

// LinkChildRequest names the child by email.
// swagger:model LinkChildRequest
type LinkChildRequest struct {
	// required: true
	// default: bia@example.com
	ChildEmail string `json:"child_email" validate:"required,email"`

	// parent or guardian
	// default: parent
	Relationship string `json:"relationship" validate:"omitempty,oneof=parent guardian"`
}

// LinkChildResponse returns the new connection.
// swagger:model LinkChildResponse
type LinkChildResponse struct {
	Success    bool                     `json:"success"`
	Connection *models.FamilyConnection `json:"connection"`
}

// NewLinkChildHandler links the caller to a child account.
// @Summary Link child
// @Tags family
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param linkChildRequest body handlers.LinkChildRequest true "Child"
// @Success 200 {object} handlers.LinkChildResponse
// @Failure 400 {object} handlers.ErrorResponse
// @Failure 404 {object} handlers.ErrorResponse "Child not found"
// @Failure 409 {object} handlers.ErrorResponse "Already linked"
// @Router /family/children [post]
func NewLinkChildHandler(svc FamilyManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parentID, ok := currentUserID(w, r)
		if !ok {
			return
		}

		var req LinkChildRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		link, err := svc.LinkChild(r.Context(), parentID, req.ChildEmail, req.Relationship)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, LinkChildResponse{Success: true, Connection: link})
	}
}

// NewUnlinkChildHandler deactivates the caller's link to a child.
// @Summary Unlink child
// @Tags family
// @Produce json
// @Security BearerAuth
// @Param childID path int true "Child user id"
// @Success 200 {object} handlers.SuccessResponse
// @Failure 404 {object} handlers.ErrorResponse "No active link"
// @Router /family/children/{childID} [delete]
func NewUnlinkChildHandler(svc FamilyManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parentID, ok := currentUserID(w, r)
		if !ok {
			return
		}
		childID, ok := pathID(w, r, "childID")
		if !ok {
			return
		}

		err := svc.UnlinkChild(r.Context(), parentID, childID)
		if errors.Is(err, services.ErrNotLinked) {
			writeError(w, http.StatusNotFound, msgNotLinked)
			return
		}
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
	}
}
