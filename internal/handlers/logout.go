package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sbilibin2017/finanfun/internal/middlewares"
)

// Logouter revokes a session token.
type Logouter interface {
	Logout(ctx context.Context, token string)
}

// LogoutRequest optionally carries the token in the body.
// swagger:model LogoutRequest
type LogoutRequest struct {
	SessionToken string `json:"session_token"`
}

// NewLogoutHandler returns an HTTP handler that revokes the caller's session.
// @Summary Logout
// @Description Revokes the session given in the body or the Authorization header. Always succeeds.
// @Tags auth
// @Accept json
// @Produce json
// @Param logoutRequest body handlers.LogoutRequest false "Session token"
// @Success 200 {object} handlers.SuccessResponse
// @Router /auth/logout [post]
func NewLogoutHandler(svc Logouter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LogoutRequest
		_ = json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req)

		token := req.SessionToken
		if token == "" {
			token = middlewares.BearerToken(r)
		}
		svc.Logout(r.Context(), token)

		writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
	}
}
