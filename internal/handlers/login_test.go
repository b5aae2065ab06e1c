package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/finanfun/internal/models"
	"github.com/sbilibin2017/finanfun/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestLoginHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		body         any
		mockSetup    func(m *MockLoginer)
		expectedCode int
		expectedErr  string
	}{
		{
			name: "success",
			body: LoginRequest{Email: "ana@example.com", Password: "secret123"},
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().Login(gomock.Any(), "ana@example.com", "secret123", testMeta).
					Return(&services.AuthResult{User: &models.User{ID: 1, Email: "ana@example.com"}, Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "wrong password",
			body: LoginRequest{Email: "ana@example.com", Password: "wrong"},
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().Login(gomock.Any(), "ana@example.com", "wrong", testMeta).Return(nil, services.ErrInvalidCredentials)
			},
			expectedCode: http.StatusUnauthorized,
			expectedErr:  "Credenciais inválidas",
		},
		{
			name:         "missing password",
			body:         map[string]string{"email": "ana@example.com"},
			mockSetup:    func(m *MockLoginer) {},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "Dados inválidos",
		},
		{
			name:         "invalid json",
			body:         "not json",
			mockSetup:    func(m *MockLoginer) {},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "Dados inválidos",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMockLoginer(ctrl)
			tt.mockSetup(m)

			rr := httptest.NewRecorder()
			NewLoginHandler(m).ServeHTTP(rr, newRequest(t, http.MethodPost, "/api/auth/login", tt.body, 0))

			assert.Equal(t, tt.expectedCode, rr.Code)
			body := decodeBody(t, rr)
			if tt.expectedErr != "" {
				assert.Equal(t, tt.expectedErr, body["error"])
				assert.NotContains(t, body, "session_token")
				return
			}
			assert.Equal(t, "tok", body["session_token"])
		})
	}
}

func TestLogoutHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name   string
		body   any
		header string
		token  string
	}{
		{name: "token in body", body: LogoutRequest{SessionToken: "body-token"}, header: "Bearer header-token", token: "body-token"},
		{name: "token in header", header: "Bearer header-token", token: "header-token"},
		{name: "no token", token: ""},
		{name: "garbage body", body: "{", token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMockLogouter(ctrl)
			m.EXPECT().Logout(gomock.Any(), tt.token)

			req := newRequest(t, http.MethodPost, "/api/auth/logout", tt.body, 0)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			NewLogoutHandler(m).ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, map[string]any{"success": true}, decodeBody(t, rr))
		})
	}
}

func TestMeHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := NewMockCurrentUserGetter(ctrl)
	m.EXPECT().CurrentUser(gomock.Any(), int64(7)).Return(&models.User{ID: 7, Email: "ana@example.com"}, nil)

	rr := httptest.NewRecorder()
	NewMeHandler(m).ServeHTTP(rr, newRequest(t, http.MethodGet, "/api/auth/me", nil, 7))
	assert.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "ana@example.com", body["user"].(map[string]any)["email"])

	rr = httptest.NewRecorder()
	NewMeHandler(m).ServeHTTP(rr, newRequest(t, http.MethodGet, "/api/auth/me", nil, 0))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
