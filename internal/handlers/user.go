package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/finanfun/internal/models"
)

// UserManager updates and deletes the authenticated user.
type UserManager interface {
	UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// UpdateUserRequest is a partial update; omitted fields are left unchanged.
// swagger:model UpdateUserRequest
type UpdateUserRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
}

// NewUpdateUserHandler applies a partial update to the caller's user.
// @Summary Update current user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param updateUserRequest body handlers.UpdateUserRequest true "Fields to change"
// @Success 200 {object} handlers.UserResponse
// @Failure 400 {object} handlers.ErrorResponse
// @Failure 404 {object} handlers.ErrorResponse
// @Router /users/me [patch]
func NewUpdateUserHandler(svc UserManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUserID(w, r)
		if !ok {
			return
		}

		var req UpdateUserRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		user, err := svc.UpdateUser(r.Context(), userID, models.UserPatch{
			Name:      req.Name,
			Email:     req.Email,
			AvatarURL: req.AvatarURL,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, UserResponse{Success: true, User: user})
	}
}

// NewDeleteUserHandler deletes the caller's user and all of its data.
// @Summary Delete current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.SuccessResponse
// @Failure 404 {object} handlers.ErrorResponse
// @Router /users/me [delete]
func NewDeleteUserHandler(svc UserManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUserID(w, r)
		if !ok {
			return
		}

		if err := svc.DeleteUser(r.Context(), userID); err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
	}
}
