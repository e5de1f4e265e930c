package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/restchat/internal/middlewares"
	"github.com/sbilibin2017/restchat/internal/models"
	"github.com/stretchr/testify/require"
)

var alice = &models.User{ID: 1, Username: "alice", Email: "alice@example.com"}

// newRequest builds a request with chi URL params and, when user is set, an
// authenticated caller.
func newRequest(method, target string, body any, user *models.User, params map[string]string) *http.Request {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewBuffer(data)
	}

	req := httptest.NewRequest(method, target, reader)

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if user != nil {
		ctx = middlewares.WithUser(ctx, user)
	}
	return req.WithContext(ctx)
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func detail(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	d, ok := decodeBody(t, rr)["detail"].(map[string]any)
	require.True(t, ok, "response has no detail: %s", rr.Body.String())
	return d
}
