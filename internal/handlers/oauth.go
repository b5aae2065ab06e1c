package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/finanfun/internal/logger"
	"github.com/sbilibin2017/finanfun/internal/models"
	"github.com/sbilibin2017/finanfun/internal/services"
)

// ProviderAuthenticator drives the social login flow.
type ProviderAuthenticator interface {
	ProviderAuthURL(provider, state string) (string, error)
	LoginWithProvider(ctx context.Context, provider, code string, meta models.ClientMeta) (*services.AuthResult, error)
}

// StateSigner issues and checks the OAuth state parameter.
type StateSigner interface {
	Generate(provider string) (string, error)
	Verify(state, provider string) error
}

// NewOAuthStartHandler redirects the browser to the provider's consent page.
// @Summary Start social login
// @Tags auth
// @Param provider path string true "google or facebook"
// @Success 302
// @Failure 404 {object} handlers.ErrorResponse "Unknown provider"
// @Router /auth/{provider}/start [get]
func NewOAuthStartHandler(svc ProviderAuthenticator, states StateSigner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provider := chi.URLParam(r, "provider")

		state, err := states.Generate(provider)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		url, err := svc.ProviderAuthURL(provider, state)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		http.Redirect(w, r, url, http.StatusFound)
	}
}

// NewOAuthCallbackHandler completes social login and opens a session.
// @Summary Social login callback
// @Tags auth
// @Produce json
// @Param provider path string true "google or facebook"
// @Param state query string true "Signed state from the start step"
// @Param code query string true "Authorization code"
// @Success 200 {object} handlers.AuthResponse
// @Failure 400 {object} handlers.ErrorResponse "Bad state or missing code"
// @Failure 401 {object} handlers.ErrorResponse "Code exchange failed"
// @Router /auth/{provider}/callback [get]
func NewOAuthCallbackHandler(svc ProviderAuthenticator, states StateSigner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provider := chi.URLParam(r, "provider")
		q := r.URL.Query()

		if err := states.Verify(q.Get("state"), provider); err != nil {
			logger.Log.Infow("rejected oauth state", "provider", provider, "err", err)
			writeError(w, http.StatusBadRequest, msgInvalidState)
			return
		}

		if reason := q.Get("error"); reason != "" {
			logger.Log.Infow("provider denied authorization", "provider", provider, "reason", reason)
			writeError(w, http.StatusUnauthorized, msgInvalidCredentials)
			return
		}

		res, err := svc.LoginWithProvider(r.Context(), provider, q.Get("code"), clientMeta(r))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, newAuthResponse(res))
	}
}
