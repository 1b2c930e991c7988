package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iudanet/coursemanager/internal/models"
	"github.com/iudanet/coursemanager/internal/server/jwt"
	"github.com/iudanet/coursemanager/pkg/api"
)

// authed добавляет claims владельца токена и параметр email
func authed(t *testing.T, tokens *jwt.Service, caller *models.Account, r *http.Request, email string) *http.Request {
	t.Helper()

	access, err := tokens.GenerateAccessToken(caller)
	require.NoError(t, err)
	claims, err := tokens.ValidateAccessToken(access)
	require.NoError(t, err)

	r = r.WithContext(WithClaims(r.Context(), claims))
	return withURLParams(r, map[string]string{"email": email})
}

func TestUserHandler_GetUser(t *testing.T) {
	store := newMemStore()
	tokens := newTestTokens()
	user := seedAccount(t, store, "u@x.com", "secret1")
	other := seedAccount(t, store, "other@x.com", "secret1")
	admin := seedAccount(t, store, "admin@x.com", "secret1", models.RoleAdmin)

	tests := []struct {
		caller     *models.Account
		name       string
		email      string
		wantStatus int
	}{
		{name: "own profile", caller: user, email: "u@x.com", wantStatus: http.StatusOK},
		{name: "own profile, other case", caller: user, email: "U@X.com", wantStatus: http.StatusOK},
		{name: "someone else", caller: other, email: "u@x.com", wantStatus: http.StatusForbidden},
		{name: "admin reads anyone", caller: admin, email: "u@x.com", wantStatus: http.StatusOK},
		{name: "admin, missing user", caller: admin, email: "ghost@x.com", wantStatus: http.StatusNotFound},
		{name: "empty email", caller: user, email: "", wantStatus: http.StatusBadRequest},
	}

	handler := NewUserHandler(setupTestLogger(), store, store, tokens)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := authed(t, tokens, tt.caller, httptest.NewRequest(http.MethodGet, api.PathUserService+tt.email, nil), tt.email)
			w := httptest.NewRecorder()

			handler.GetUser(w, req)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}
			resp := decode[api.UserResponse](t, w)
			assert.Equal(t, user.ID, resp.ID)
			assert.Equal(t, "u@x.com", resp.Email)
			assert.Equal(t, []models.Role{models.RoleUser}, resp.Roles)
			assert.Empty(t, resp.Password)
			assert.Empty(t, resp.AccessToken)
		})
	}
}

func TestUserHandler_GetUser_NoClaims(t *testing.T) {
	store := newMemStore()
	handler := NewUserHandler(setupTestLogger(), store, store, newTestTokens())

	req := withURLParams(httptest.NewRequest(http.MethodGet, api.PathUserService+"u@x.com", nil), map[string]string{"email": "u@x.com"})
	w := httptest.NewRecorder()
	handler.GetUser(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserHandler_PartialUpdate_Profile(t *testing.T) {
	store := newMemStore()
	tokens := newTestTokens()
	user := seedAccount(t, store, "u@x.com", "secret1")
	handler := NewUserHandler(setupTestLogger(), store, store, tokens)

	body := jsonBody(t, api.PartialUpdateRequest{FullName: "Renamed", Phone: "5550001111"})
	req := authed(t, tokens, user, httptest.NewRequest(http.MethodPatch, api.PathPartialUpdate+"u@x.com", body), "u@x.com")
	w := httptest.NewRecorder()

	handler.PartialUpdate(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[api.UserResponse](t, w)
	assert.Equal(t, "Renamed", resp.FullName)
	assert.Equal(t, "5550001111", resp.Phone)
	// без смены пароля токены не выдаются
	assert.Empty(t, resp.AccessToken)
	assert.Empty(t, resp.RefreshToken)

	stored, err := store.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.FullName)
}

func TestUserHandler_PartialUpdate_PasswordRotatesTokens(t *testing.T) {
	store := newMemStore()
	tokens := newTestTokens()
	user := seedAccount(t, store, "u@x.com", "secret1")
	handler := NewUserHandler(setupTestLogger(), store, store, tokens)

	old, err := issueTokens(context.Background(), tokens, store, user, user.CreatedAt)
	require.NoError(t, err)
	oldClaims, err := tokens.ValidateAccessToken(old.AccessToken)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, api.PathPartialUpdate+"u@x.com", jsonBody(t, api.PartialUpdateRequest{Password: "brand-new"}))
	req = withURLParams(req.WithContext(WithClaims(req.Context(), oldClaims)), map[string]string{"email": "u@x.com"})
	w := httptest.NewRecorder()

	handler.PartialUpdate(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[api.UserResponse](t, w)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	assert.NotEqual(t, old.AccessToken, resp.AccessToken)

	// старая пара отозвана, новая действует
	_, err = tokens.ValidateAccessToken(old.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrRevoked)
	_, err = store.GetRefreshToken(context.Background(), old.RefreshToken)
	assert.Error(t, err)
	_, err = tokens.ValidateAccessToken(resp.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, 1, store.tokenCount(user.ID))

	stored, err := store.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("brand-new")))
}

func TestUserHandler_PartialUpdate_AdminChangesOthersPassword(t *testing.T) {
	store := newMemStore()
	tokens := newTestTokens()
	user := seedAccount(t, store, "u@x.com", "secret1")
	admin := seedAccount(t, store, "admin@x.com", "secret1", models.RoleAdmin)
	handler := NewUserHandler(setupTestLogger(), store, store, tokens)

	_, err := issueTokens(context.Background(), tokens, store, user, user.CreatedAt)
	require.NoError(t, err)

	req := authed(t, tokens, admin,
		httptest.NewRequest(http.MethodPatch, api.PathPartialUpdate+"u@x.com", jsonBody(t, api.PartialUpdateRequest{Password: "reset-by-admin"})),
		"u@x.com")
	w := httptest.NewRecorder()

	handler.PartialUpdate(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[api.UserResponse](t, w)
	// токены владельца админу не отдаются
	assert.Empty(t, resp.AccessToken)
	assert.Zero(t, store.tokenCount(user.ID))
}

func TestUserHandler_PartialUpdate_Rejects(t *testing.T) {
	store := newMemStore()
	tokens := newTestTokens()
	user := seedAccount(t, store, "u@x.com", "secret1")
	other := seedAccount(t, store, "other@x.com", "secret1")
	seedAccount(t, store, "taken@x.com", "secret1")

	tests := []struct {
		caller     *models.Account
		name       string
		body       string
		wantStatus int
	}{
		{name: "empty update", caller: user, body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "invalid json", caller: user, body: `{`, wantStatus: http.StatusBadRequest},
		{name: "bad email", caller: user, body: `{"email":"nope"}`, wantStatus: http.StatusBadRequest},
		{name: "short password", caller: user, body: `{"password":"123"}`, wantStatus: http.StatusBadRequest},
		{name: "email taken", caller: user, body: `{"email":"taken@x.com"}`, wantStatus: http.StatusConflict},
		{name: "not the owner", caller: other, body: `{"fullName":"Hacked"}`, wantStatus: http.StatusForbidden},
	}

	handler := NewUserHandler(setupTestLogger(), store, store, tokens)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := authed(t, tokens, tt.caller,
				httptest.NewRequest(http.MethodPatch, api.PathPartialUpdate+"u@x.com", strings.NewReader(tt.body)),
				"u@x.com")
			w := httptest.NewRecorder()

			handler.PartialUpdate(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}

	stored, err := store.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "u@x.com", stored.Email)
	assert.Equal(t, user.FullName, stored.FullName)
}

func TestHealthHandler_Health(t *testing.T) {
	tests := []struct {
		db         Pinger
		name       string
		wantStatus string
		wantCode   int
	}{
		{name: "ok", db: pingFunc(func(context.Context) error { return nil }), wantCode: http.StatusOK, wantStatus: "ok"},
		{name: "db down", db: pingFunc(func(context.Context) error { return context.DeadlineExceeded }), wantCode: http.StatusServiceUnavailable, wantStatus: "unavailable"},
		{name: "no db", wantCode: http.StatusOK, wantStatus: "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(setupTestLogger(), tt.db, "1.2.3")

			w := httptest.NewRecorder()
			handler.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			resp := decode[HealthResponse](t, w)
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, "1.2.3", resp.Version)
		})
	}
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }
