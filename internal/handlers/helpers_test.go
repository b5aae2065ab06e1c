package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/finanfun/internal/middlewares"
	"github.com/sbilibin2017/finanfun/internal/models"
	"github.com/stretchr/testify/require"
)

// newRequest builds a request with an optional JSON body, an authenticated
// user when userID > 0, and chi URL params given as name/value pairs.
func newRequest(t *testing.T, method, target string, body any, userID int64, params ...string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "test-agent")
	req.RemoteAddr = "192.0.2.1:4242"

	ctx := req.Context()
	if userID > 0 {
		ctx = middlewares.WithSession(ctx, &models.Session{ID: 1, UserID: userID, ExpiresAt: time.Now().Add(time.Hour)})
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for i := 0; i+1 < len(params); i += 2 {
			rctx.URLParams.Add(params[i], params[i+1])
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

var testMeta = models.ClientMeta{IP: "192.0.2.1", UserAgent: "test-agent"}
