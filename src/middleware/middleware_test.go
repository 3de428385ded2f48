package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tally-server/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthenticator map[string]models.Principal

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (models.Principal, error) {
	p, ok := s[token]
	if !ok {
		return models.Principal{}, errors.New("unknown token")
	}
	return p, nil
}

var noContent = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestJWTAuthMiddleware(t *testing.T) {
	auth := stubAuthenticator{"good": {UserID: 7, Username: "alice"}}

	var seen models.Principal
	var seenToken string
	handler := JWTAuthMiddleware(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = PrincipalFromContext(r.Context())
		seenToken, _ = TokenFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "bearer good")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(7), seen.UserID)
	assert.Equal(t, "good", seenToken)

	for _, header := range []string{"", "Bearer ", "Basic good", "Bearer bad"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code, header)

		var body models.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 401, body.Status)
		assert.Equal(t, "/api/v1/users/me", body.Path)
	}
}

func TestCORSMiddleware(t *testing.T) {
	handler := CORSMiddleware([]string{"https://app.example.com"})(noContent)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDemoModeMiddleware(t *testing.T) {
	cases := []struct {
		demo   bool
		method string
		path   string
		want   int
	}{
		{false, http.MethodPost, "/api/v1/transactions", http.StatusNoContent},
		{true, http.MethodGet, "/api/v1/transactions", http.StatusNoContent},
		{true, http.MethodPost, "/api/v1/auth/login", http.StatusNoContent},
		{true, http.MethodPost, "/api/v1/auth/register", http.StatusForbidden},
		{true, http.MethodDelete, "/api/v1/transactions/1", http.StatusForbidden},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		DemoModeMiddleware(tc.demo)(noContent).ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, tc.want, rec.Code, "%s %s demo=%v", tc.method, tc.path, tc.demo)
	}
}
