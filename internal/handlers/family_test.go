package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/finanfun/internal/models"
	"github.com/sbilibin2017/finanfun/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestLinkChildHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		body         any
		mockSetup    func(m *MockFamilyManager)
		expectedCode int
	}{
		{
			name: "success",
			body: LinkChildRequest{ChildEmail: "bia@example.com"},
			mockSetup: func(m *MockFamilyManager) {
				m.EXPECT().LinkChild(gomock.Any(), int64(1), "bia@example.com", "").
					Return(&models.FamilyConnection{ID: 5, ParentID: 1, ChildID: 2, Relationship: "parent", Status: "active"}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "child not found",
			body: LinkChildRequest{ChildEmail: "ghost@example.com"},
			mockSetup: func(m *MockFamilyManager) {
				m.EXPECT().LinkChild(gomock.Any(), int64(1), "ghost@example.com", "").Return(nil, services.ErrUserNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "already linked",
			body: LinkChildRequest{ChildEmail: "bia@example.com", Relationship: "guardian"},
			mockSetup: func(m *MockFamilyManager) {
				m.EXPECT().LinkChild(gomock.Any(), int64(1), "bia@example.com", "guardian").Return(nil, services.ErrAlreadyLinked)
			},
			expectedCode: http.StatusConflict,
		},
		{
			name:         "bad relationship",
			body:         LinkChildRequest{ChildEmail: "bia@example.com", Relationship: "uncle"},
			mockSetup:    func(m *MockFamilyManager) {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMockFamilyManager(ctrl)
			tt.mockSetup(m)

			rr := httptest.NewRecorder()
			NewLinkChildHandler(m).ServeHTTP(rr, newRequest(t, http.MethodPost, "/api/family/children", tt.body, 1))
			assert.Equal(t, tt.expectedCode, rr.Code)
		})
	}
}

func TestUnlinkChildHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := NewMockFamilyManager(ctrl)
	gomock.InOrder(
		m.EXPECT().UnlinkChild(gomock.Any(), int64(1), int64(2)).Return(nil),
		m.EXPECT().UnlinkChild(gomock.Any(), int64(1), int64(2)).Return(services.ErrNotLinked),
	)

	rr := httptest.NewRecorder()
	NewUnlinkChildHandler(m).ServeHTTP(rr, newRequest(t, http.MethodDelete, "/api/family/children/2", nil, 1, "childID", "2"))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	NewUnlinkChildHandler(m).ServeHTTP(rr, newRequest(t, http.MethodDelete, "/api/family/children/2", nil, 1, "childID", "2"))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Vínculo familiar não encontrado", decodeBody(t, rr)["error"])
}
