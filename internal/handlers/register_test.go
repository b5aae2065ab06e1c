package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/finanfun/internal/models"
	"github.com/sbilibin2017/finanfun/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestRegisterHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	expires := time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC)
	ana := &models.User{ID: 1, Email: "ana@example.com", Name: "Ana", Provider: models.ProviderEmail, Role: models.RoleUser}

	tests := []struct {
		name         string
		body         any
		mockSetup    func(m *MockRegisterer)
		expectedCode int
		expectedErr  string
		details      map[string]any
	}{
		{
			name: "success",
			body: RegisterRequest{Email: "ana@example.com", Name: "Ana", Password: "secret123"},
			mockSetup: func(m *MockRegisterer) {
				m.EXPECT().
					Register(gomock.Any(), services.RegisterInput{Email: "ana@example.com", Name: "Ana", Password: "secret123"}, testMeta).
					Return(&services.AuthResult{User: ana, Token: "tok", ExpiresAt: expires}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "user already exists",
			body: RegisterRequest{Email: "ana@example.com", Name: "Ana", Password: "secret123", Role: "parent"},
			mockSetup: func(m *MockRegisterer) {
				m.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, services.ErrDuplicateEmail)
			},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "Usuário já existe",
		},
		{
			name: "internal server error",
			body: RegisterRequest{Email: "bob@example.com", Name: "Bob", Password: "secret123"},
			mockSetup: func(m *MockRegisterer) {
				m.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("database failure"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedErr:  "Erro interno do servidor",
		},
		{
			name:         "invalid json",
			body:         `{"email":`,
			mockSetup:    func(m *MockRegisterer) {},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "Dados inválidos",
			details:      map[string]any{"payload": "JSON inválido"},
		},
		{
			name:         "provider sign-up without password",
			body:         `{"name":"Ana","email":"ana@example.com","provider":"google","provider_id":"g-123"}`,
			mockSetup:    func(m *MockRegisterer) {},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "Dados inválidos",
			details:      map[string]any{"password": "é obrigatório"},
		},
		{
			name:         "validation fails before service",
			body:         RegisterRequest{Email: "nope", Name: "", Password: "123", Role: "admin"},
			mockSetup:    func(m *MockRegisterer) {},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "Dados inválidos",
			details: map[string]any{
				"email":    "deve ser um email válido",
				"name":     "é obrigatório",
				"password": "deve ter entre 6 e 72 caracteres",
				"role":     "deve ser um de: user, parent, child",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMockRegisterer(ctrl)
			tt.mockSetup(m)

			rr := httptest.NewRecorder()
			NewRegisterHandler(m).ServeHTTP(rr, newRequest(t, http.MethodPost, "/api/auth/register", tt.body, 0))

			assert.Equal(t, tt.expectedCode, rr.Code)
			body := decodeBody(t, rr)
			if tt.expectedErr != "" {
				assert.Equal(t, tt.expectedErr, body["error"])
				if tt.details != nil {
					assert.Equal(t, tt.details, body["details"])
				}
				return
			}

			assert.Equal(t, true, body["success"])
			assert.Equal(t, "tok", body["session_token"])
			assert.Equal(t, "2026-01-08T00:00:00Z", body["expires_at"])
			user := body["user"].(map[string]any)
			assert.Equal(t, "ana@example.com", user["email"])
			assert.NotContains(t, user, "password_hash")
		})
	}
}
