package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sbilibin2017/restchat/internal/errs"
	"github.com/stretchr/testify/assert"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail map[string]any
	}{
		{
			name:       "not found",
			err:        errs.NotFound("Chat", 7),
			wantStatus: http.StatusNotFound,
			wantDetail: map[string]any{"type": "entity_not_found", "entity_name": "Chat", "entity_id": float64(7)},
		},
		{
			name:       "wrapped not found",
			err:        fmt.Errorf("loading: %w", errs.NotFound("Message", 3)),
			wantStatus: http.StatusNotFound,
			wantDetail: map[string]any{"type": "entity_not_found", "entity_name": "Message", "entity_id": float64(3)},
		},
		{
			name:       "duplicate",
			err:        errs.DuplicateField("User", "email", "a@x"),
			wantStatus: http.StatusUnprocessableEntity,
			wantDetail: map[string]any{"type": "duplicate_value", "entity_name": "User", "entity_field": "email", "entity_value": "a@x"},
		},
		{
			name:       "no permission",
			err:        errs.NoPermission("requires permission to view chat"),
			wantStatus: http.StatusForbidden,
			wantDetail: map[string]any{"error": "no_permission", "error_description": "requires permission to view chat"},
		},
		{
			name:       "invalid state",
			err:        errs.InvalidState("owner of a chat cannot be removed"),
			wantStatus: http.StatusUnprocessableEntity,
			wantDetail: map[string]any{"error": "invalid_state", "error_description": "owner of a chat cannot be removed"},
		},
		{
			name:       "validation",
			err:        errs.Validation("name is required"),
			wantStatus: http.StatusBadRequest,
			wantDetail: map[string]any{"error": "invalid_request", "error_description": "name is required"},
		},
		{
			name:       "invalid credentials",
			err:        errs.ErrInvalidCredentials,
			wantStatus: http.StatusUnauthorized,
			wantDetail: map[string]any{"error": "invalid_client", "error_description": errs.ErrInvalidCredentials.Error()},
		},
		{
			name:       "expired token",
			err:        errs.ErrTokenExpired,
			wantStatus: http.StatusUnauthorized,
			wantDetail: map[string]any{"error": "invalid_client", "error_description": errs.ErrTokenExpired.Error()},
		},
		{
			name:       "unexpected",
			err:        errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantDetail: map[string]any{"error": "internal_error", "error_description": "internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeError(rr, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantDetail, detail(t, rr))

			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestWriteError_InternalDoesNotLeak(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pq: password authentication failed"))
	assert.NotContains(t, rr.Body.String(), "password")
}
