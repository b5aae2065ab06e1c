package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/finanfun/internal/logger"
	"github.com/sbilibin2017/finanfun/internal/middlewares"
	"github.com/sbilibin2017/finanfun/internal/models"
	"github.com/sbilibin2017/finanfun/internal/services"
	"github.com/sbilibin2017/finanfun/internal/validation"
)

// Error messages returned to clients.
const (
	msgInvalidData        = "Dados inválidos"
	msgUserExists         = "Usuário já existe"
	msgInvalidCredentials = "Credenciais inválidas"
	msgSessionInvalid     = "Sessão inválida ou expirada"
	msgUserNotFound       = "Usuário não encontrado"
	msgInvalidAmount      = "Valor inválido"
	msgInvalidTxType      = "Tipo de transação inválido"
	msgInsufficientFunds  = "Saldo insuficiente"
	msgNotLinked          = "Vínculo familiar não encontrado"
	msgAlreadyLinked      = "Vínculo familiar já existe"
	msgUnknownProvider    = "Provedor desconhecido"
	msgInvalidState       = "Estado OAuth inválido"
	msgUnavailable        = "Serviço indisponível"
	msgInternal           = "Erro interno do servidor"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every failed request.
// swagger:model ErrorResponse
type ErrorResponse struct {
	// default: false
	Success bool `json:"success"`
	// default: Dados inválidos
	Message string `json:"message"`
	// Same as message
	Error string `json:"error"`
	// Per-field validation messages
	Details map[string]string `json:"details,omitempty"`
}

// SuccessResponse is returned by endpoints with no payload.
// swagger:model SuccessResponse
type SuccessResponse struct {
	// default: true
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Errorw("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Message: msg, Error: msg})
}

func writeValidationError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Message: msgInvalidData,
		Error:   msgInvalidData,
		Details: validation.ToDetails(err),
	})
}

// writeServiceError maps service errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		writeError(w, http.StatusBadRequest, msgInvalidData)
	case errors.Is(err, services.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, msgUserExists)
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, msgInvalidCredentials)
	case errors.Is(err, services.ErrSessionInvalid):
		writeError(w, http.StatusUnauthorized, msgSessionInvalid)
	case errors.Is(err, services.ErrUserNotFound):
		writeError(w, http.StatusNotFound, msgUserNotFound)
	case errors.Is(err, services.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, msgInvalidAmount)
	case errors.Is(err, services.ErrInvalidTransactionType):
		writeError(w, http.StatusBadRequest, msgInvalidTxType)
	case errors.Is(err, services.ErrInsufficientFunds):
		writeError(w, http.StatusBadRequest, msgInsufficientFunds)
	case errors.Is(err, services.ErrNotLinked):
		writeError(w, http.StatusForbidden, msgNotLinked)
	case errors.Is(err, services.ErrAlreadyLinked):
		writeError(w, http.StatusConflict, msgAlreadyLinked)
	case errors.Is(err, services.ErrUnknownProvider):
		writeError(w, http.StatusNotFound, msgUnknownProvider)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		logger.Log.Errorw("request aborted", "request_id", middlewares.RequestIDFromContext(r.Context()), "err", err)
		writeError(w, http.StatusServiceUnavailable, msgUnavailable)
	default:
		logger.Log.Errorw("internal server error", "request_id", middlewares.RequestIDFromContext(r.Context()), "err", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
// It writes the 400 response itself and reports whether the caller may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		writeValidationError(w, err)
		return false
	}
	if err := validation.Struct(dst); err != nil {
		writeValidationError(w, err)
		return false
	}
	return true
}

// currentUserID returns the authenticated user, writing 401 when absent.
func currentUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := middlewares.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgSessionInvalid)
	}
	return id, ok
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Message: msgInvalidData,
			Error:   msgInvalidData,
			Details: map[string]string{name: "deve ser um número inteiro positivo"},
		})
		return 0, false
	}
	return id, true
}

func clientMeta(r *http.Request) models.ClientMeta {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}
	return models.ClientMeta{IP: ip, UserAgent: r.UserAgent()}
}
