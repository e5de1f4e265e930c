package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/restchat/internal/errs"
	"github.com/sbilibin2017/restchat/internal/models"
	"github.com/stretchr/testify/assert"
)

var memberParams = map[string]string{"chat_id": "10", "user_id": "2"}

func TestListMembersHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockMemberLister(ctrl)
	mockSvc.EXPECT().ListMembers(gomock.Any(), alice.ID, int64(10)).Return([]models.User{{ID: 2}, {ID: 1}}, nil)

	rr := httptest.NewRecorder()
	NewListMembersHandler(mockSvc)(rr, newRequest(http.MethodGet, "/chats/10/users", nil, alice, chatParams))

	assert.Equal(t, http.StatusOK, rr.Code)
	users := decodeBody(t, rr)["users"].([]any)
	assert.Equal(t, float64(1), users[0].(map[string]any)["id"])
}

func TestAddMemberHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		mockSetup    func(m *MockMemberAdder)
		expectedCode int
	}{
		{
			name: "added",
			mockSetup: func(m *MockMemberAdder) {
				m.EXPECT().AddMember(gomock.Any(), alice.ID, int64(10), int64(2)).Return([]models.User{{ID: 1}, {ID: 2}}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "unknown user",
			mockSetup: func(m *MockMemberAdder) {
				m.EXPECT().AddMember(gomock.Any(), alice.ID, int64(10), int64(2)).Return(nil, errs.NotFound("User", 2))
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "not owner",
			mockSetup: func(m *MockMemberAdder) {
				m.EXPECT().AddMember(gomock.Any(), alice.ID, int64(10), int64(2)).Return(nil, errs.NoPermission("requires permission to edit chat members"))
			},
			expectedCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockMemberAdder(ctrl)
			tt.mockSetup(mockSvc)

			rr := httptest.NewRecorder()
			NewAddMemberHandler(mockSvc)(rr, newRequest(http.MethodPut, "/chats/10/users/2", nil, alice, memberParams))
			assert.Equal(t, tt.expectedCode, rr.Code)
		})
	}
}

func TestRemoveMemberHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		mockSetup    func(m *MockMemberRemover)
		expectedCode int
		wantError    string
	}{
		{
			name: "removed",
			mockSetup: func(m *MockMemberRemover) {
				m.EXPECT().RemoveMember(gomock.Any(), alice.ID, int64(10), int64(2)).Return([]models.User{{ID: 1}}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "owner",
			mockSetup: func(m *MockMemberRemover) {
				m.EXPECT().RemoveMember(gomock.Any(), alice.ID, int64(10), int64(2)).Return(nil, errs.InvalidState("owner of a chat cannot be removed"))
			},
			expectedCode: http.StatusUnprocessableEntity,
			wantError:    "invalid_state",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockMemberRemover(ctrl)
			tt.mockSetup(mockSvc)

			rr := httptest.NewRecorder()
			NewRemoveMemberHandler(mockSvc)(rr, newRequest(http.MethodDelete, "/chats/10/users/2", nil, alice, memberParams))
			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, detail(t, rr)["error"])
			}
		})
	}
}

func TestHealthHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHealthHandler()(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}
