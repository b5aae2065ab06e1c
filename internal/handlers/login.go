package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/finanfun/internal/models"
	"github.com/sbilibin2017/finanfun/internal/services"
)

// Loginer defines the interface for password login.
type Loginer interface {
	Login(ctx context.Context, email, password string, meta models.ClientMeta) (*services.AuthResult, error)
}

// LoginRequest represents the login request body.
// swagger:model LoginRequest
type LoginRequest struct {
	// required: true
	// default: ana@example.com
	Email string `json:"email" validate:"required,email"`
	// required: true
	// default: secret123
	Password string `json:"password" validate:"required"`
}

// NewLoginHandler returns an HTTP handler for password login.
// @Summary Login
// @Description Checks email and password and opens a new session.
// @Tags auth
// @Accept json
// @Produce json
// @Param loginRequest body handlers.LoginRequest true "Login credentials"
// @Success 200 {object} handlers.AuthResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid data"
// @Failure 401 {object} handlers.ErrorResponse "Invalid credentials"
// @Failure 500 {object} handlers.ErrorResponse
// @Router /auth/login [post]
func NewLoginHandler(svc Loginer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		res, err := svc.Login(r.Context(), req.Email, req.Password, clientMeta(r))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, newAuthResponse(res))
	}
}
