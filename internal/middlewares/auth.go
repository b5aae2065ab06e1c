package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sbilibin2017/finanfun/internal/logger"
	"github.com/sbilibin2017/finanfun/internal/models"
	"github.com/sbilibin2017/finanfun/internal/services"
)

// SessionValidator resolves a bearer token to a live session.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*models.Session, error)
}

type sessionKey struct{}

// AuthMiddleware rejects requests without a valid bearer session and stores
// the session in the request context.
func AuthMiddleware(validator SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := BearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "Token não fornecido")
				return
			}

			session, err := validator.Validate(ctx, token)
			switch {
			case err == nil:
			case errors.Is(err, services.ErrSessionInvalid):
				logger.Log.Infow("authorization failed", "request_id", RequestIDFromContext(ctx), "err", err)
				writeError(w, http.StatusUnauthorized, "Sessão inválida ou expirada")
				return
			case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
				logger.Log.Errorw("session validation aborted", "request_id", RequestIDFromContext(ctx), "err", err)
				writeError(w, http.StatusServiceUnavailable, "Serviço indisponível")
				return
			default:
				logger.Log.Errorw("session validation failed", "request_id", RequestIDFromContext(ctx), "err", err)
				writeError(w, http.StatusInternalServerError, "Erro interno do servidor")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(ctx, session)))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) string {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// WithSession returns a copy of ctx carrying session.
func WithSession(ctx context.Context, session *models.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the authenticated session, or nil.
func SessionFromContext(ctx context.Context) *models.Session {
	s, _ := ctx.Value(sessionKey{}).(*models.Session)
	return s
}

// UserIDFromContext returns the authenticated user id.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	s := SessionFromContext(ctx)
	if s == nil {
		return 0, false
	}
	return s.UserID, true
}
