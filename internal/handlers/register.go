package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/sbilibin2017/finanfun/internal/models"
	"github.com/sbilibin2017/finanfun/internal/services"
)

// Registerer defines the interface that the service must implement.
type Registerer interface {
	Register(ctx context.Context, in services.RegisterInput, meta models.ClientMeta) (*services.AuthResult, error)
}

// RegisterRequest represents the JSON body for email/password registration.
// Social accounts are created by the provider callback, so provider fields
// are not read here and a password is always required.
// swagger:model RegisterRequest
type RegisterRequest struct {
	// Email
	// required: true
	// default: ana@example.com
	Email string `json:"email" validate:"required,email,max=255"`

	// Display name
	// required: true
	// default: Ana
	Name string `json:"name" validate:"required,max=255"`

	// Password
	// required: true
	// default: secret123
	Password string `json:"password" validate:"required,pwd"`

	// Role: user, parent or child
	// default: user
	Role string `json:"role" validate:"omitempty,oneof=user parent child"`
}

// AuthResponse is returned by every endpoint that opens a session.
// swagger:model AuthResponse
type AuthResponse struct {
	Success      bool         `json:"success"`
	User         *models.User `json:"user"`
	SessionToken string       `json:"session_token"`
	ExpiresAt    time.Time    `json:"expires_at"`
}

func newAuthResponse(res *services.AuthResult) AuthResponse {
	return AuthResponse{
		Success:      true,
		User:         res.User,
		SessionToken: res.Token,
		ExpiresAt:    res.ExpiresAt,
	}
}

// NewRegisterHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates the user with its profile, a BRL account and a BitFun account credited with the signup bonus, then opens a session.
// @Tags auth
// @Accept json
// @Produce json
// @Param registerRequest body handlers.RegisterRequest true "User registration request"
// @Success 200 {object} handlers.AuthResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid data or user already exists"
// @Failure 500 {object} handlers.ErrorResponse
// @Router /auth/register [post]
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		res, err := svc.Register(r.Context(), services.RegisterInput{
			Email:    req.Email,
			Name:     req.Name,
			Password: req.Password,
			Role:     req.Role,
		}, clientMeta(r))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, newAuthResponse(res))
	}
}
