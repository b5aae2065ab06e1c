package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/finanfun/internal/models"
)

// CurrentUserGetter returns the user behind a session.
type CurrentUserGetter interface {
	CurrentUser(ctx context.Context, userID int64) (*models.User, error)
}

// UserResponse wraps a single user.
// swagger:model UserResponse
type UserResponse struct {
	Success bool         `json:"success"`
	User    *models.User `json:"user"`
}

// NewMeHandler returns the authenticated user.
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.UserResponse
// @Failure 401 {object} handlers.ErrorResponse
// @Failure 404 {object} handlers.ErrorResponse
// @Router /auth/me [get]
func NewMeHandler(svc CurrentUserGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUserID(w, r)
		if !ok {
			return
		}

		user, err := svc.CurrentUser(r.Context(), userID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, UserResponse{Success: true, User: user})
	}
}
