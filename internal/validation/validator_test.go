package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=255"`
	Password string `json:"password" validate:"required,pwd"`
	Role     string `json:"role" validate:"omitempty,oneof=user parent child"`
}

func TestStructAndToDetails(t *testing.T) {
	tests := []struct {
		name    string
		req     registerRequest
		details map[string]string
	}{
		{
			name: "Valid",
			req:  registerRequest{Email: "ana@example.com", Name: "Ana", Password: "secret123", Role: "parent"},
		},
		{
			name: "AllMissing",
			req:  registerRequest{},
			details: map[string]string{
				"email":    "é obrigatório",
				"name":     "é obrigatório",
				"password": "é obrigatório",
			},
		},
		{
			name: "BadValues",
			req:  registerRequest{Email: "not-an-email", Name: "Ana", Password: "123", Role: "admin"},
			details: map[string]string{
				"email":    "deve ser um email válido",
				"password": "deve ter entre 6 e 72 caracteres",
				"role":     "deve ser um de: user, parent, child",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.req)
			if tt.details == nil {
				assert.NoError(t, err)
				assert.Nil(t, ToDetails(err))
				return
			}
			assert.Error(t, err)
			assert.Equal(t, tt.details, ToDetails(err))
		})
	}
}

func TestToDetails_DecodeErrors(t *testing.T) {
	var v registerRequest
	err := json.Unmarshal([]byte(`{"email":`), &v)
	assert.Equal(t, map[string]string{"payload": "JSON inválido"}, ToDetails(err))

	err = json.Unmarshal([]byte(`{"email": 42}`), &v)
	assert.Equal(t, map[string]string{"payload": "JSON inválido"}, ToDetails(err))

	assert.Equal(t, map[string]string{"payload": "conteúdo inválido"}, ToDetails(errors.New("other")))
}
