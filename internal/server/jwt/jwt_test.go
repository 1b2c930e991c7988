package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/coursemanager/internal/models"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var testUser = &models.Account{
	ID:    7,
	Email: "admin@x.com",
	Roles: []models.Role{models.RoleAdmin},
}

func TestService_AccessToken_RoundTrip(t *testing.T) {
	s := NewService(testSecret, 15*time.Minute, time.Hour)

	token, err := s.GenerateAccessToken(testUser)
	require.NoError(t, err)

	claims, err := s.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "admin@x.com", claims.Email)
	assert.Equal(t, []models.Role{models.RoleAdmin}, claims.Roles)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, 15*time.Minute, s.AccessTokenTTL())
}

func TestService_AccessToken_UniqueID(t *testing.T) {
	s := NewService(testSecret, time.Minute, time.Hour)

	t1, err := s.GenerateAccessToken(testUser)
	require.NoError(t, err)
	t2, err := s.GenerateAccessToken(testUser)
	require.NoError(t, err)

	assert.NotEqual(t, t1, t2)
}

func TestService_ValidateAccessToken_Rejects(t *testing.T) {
	s := NewService(testSecret, time.Minute, time.Hour)
	valid, err := s.GenerateAccessToken(testUser)
	require.NoError(t, err)

	other := NewService("another-secret-another-secret-xx", time.Minute, time.Hour)
	foreign, err := other.GenerateAccessToken(testUser)
	require.NoError(t, err)

	expired := NewService(testSecret, time.Minute, time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, err := expired.GenerateAccessToken(testUser)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"iss": issuer,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-jwt"},
		{name: "empty", token: ""},
		{name: "wrong secret", token: foreign},
		{name: "expired", token: old},
		{name: "alg none", token: none},
		{name: "tampered", token: valid[:len(valid)-2] + "xx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := s.ValidateAccessToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestService_Revoke(t *testing.T) {
	s := NewService(testSecret, time.Minute, time.Hour)

	token, err := s.GenerateAccessToken(testUser)
	require.NoError(t, err)
	claims, err := s.ValidateAccessToken(token)
	require.NoError(t, err)

	s.Revoke(claims)

	_, err = s.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrRevoked)

	// другой токен того же пользователя жив
	fresh, err := s.GenerateAccessToken(testUser)
	require.NoError(t, err)
	_, err = s.ValidateAccessToken(fresh)
	assert.NoError(t, err)

	s.Revoke(nil)
}

func TestService_Revoke_PurgesExpired(t *testing.T) {
	s := NewService(testSecret, time.Minute, time.Hour)
	now := time.Now()
	s.now = func() time.Time { return now }

	s.Revoke(&Claims{RegisteredClaims: jwt.RegisteredClaims{ID: "old", ExpiresAt: jwt.NewNumericDate(now.Add(-time.Second))}})
	s.Revoke(&Claims{RegisteredClaims: jwt.RegisteredClaims{ID: "live", ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute))}})

	assert.False(t, s.isRevoked("old"))
	assert.True(t, s.isRevoked("live"))
}

func TestService_GenerateRefreshToken(t *testing.T) {
	s := NewService(testSecret, time.Minute, 24*time.Hour)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	t1, exp, err := s.GenerateRefreshToken()
	require.NoError(t, err)
	t2, _, err := s.GenerateRefreshToken()
	require.NoError(t, err)

	assert.NotEqual(t, t1, t2)
	assert.Len(t, t1, 43)
	assert.Equal(t, now.Add(24*time.Hour), exp)
}
