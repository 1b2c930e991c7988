package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/coursemanager/internal/models"
	"github.com/iudanet/coursemanager/internal/server/handlers"
	"github.com/iudanet/coursemanager/internal/server/jwt"
)

const testSecret = "test-secret-key-test-secret-key!"

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testAccount = &models.Account{
	ID:    42,
	Email: "user@x.com",
	Roles: []models.Role{models.RoleUser},
}

func rejectHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("Handler should not be called")
	})
}

func TestAuthMiddleware_Success(t *testing.T) {
	tokens := jwt.NewService(testSecret, 15*time.Minute, time.Hour)

	token, err := tokens.GenerateAccessToken(testAccount)
	require.NoError(t, err)

	handler := AuthMiddleware(setupTestLogger(), tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := handlers.GetClaims(r.Context())
		require.True(t, ok, "claims should be in context")
		assert.Equal(t, int64(42), claims.UserID)
		assert.Equal(t, "user@x.com", claims.Email)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/user-service/user@x.com", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	tokens := jwt.NewService(testSecret, 15*time.Minute, time.Hour)

	foreign, err := jwt.NewService("another-secret-another-secret-xx", time.Minute, time.Hour).GenerateAccessToken(testAccount)
	require.NoError(t, err)

	revoked, err := tokens.GenerateAccessToken(testAccount)
	require.NoError(t, err)
	claims, err := tokens.ValidateAccessToken(revoked)
	require.NoError(t, err)
	tokens.Revoke(claims)

	tests := []struct {
		name        string
		header      string
		wantMessage string
	}{
		{name: "missing header", header: "", wantMessage: "missing token"},
		{name: "no Bearer prefix", header: "token123", wantMessage: "invalid token format"},
		{name: "wrong prefix", header: "Basic token123", wantMessage: "invalid token format"},
		{name: "only Bearer", header: "Bearer", wantMessage: "invalid token format"},
		{name: "malformed token", header: "Bearer invalid.token.here", wantMessage: "invalid token"},
		{name: "empty token", header: "Bearer ", wantMessage: "invalid token"},
		{name: "wrong secret", header: "Bearer " + foreign, wantMessage: "invalid token"},
		{name: "revoked", header: "Bearer " + revoked, wantMessage: "invalid token"},
	}

	handler := AuthMiddleware(setupTestLogger(), tokens)(rejectHandler(t))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/user-service/user@x.com", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Contains(t, w.Body.String(), tt.wantMessage)
		})
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Len(t, seen, 36)
		assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "abc", seen)
		assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
	})

	assert.Empty(t, GetRequestID(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}
