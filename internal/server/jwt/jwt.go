// Package jwt issues and checks the tokens handed out by auth-service.
package jwt

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/iudanet/coursemanager/internal/models"
)

const issuer = "coursemanager"

// ErrRevoked возвращается для access token, отозванного через log-out
var ErrRevoked = errors.New("token revoked")

// Claims represents JWT claims
type Claims struct {
	Email string        `json:"email"`
	Roles []models.Role `json:"roles"`
	jwt.RegisteredClaims
	UserID int64 `json:"user_id"`
}

// Service provides JWT token generation and validation
type Service struct {
	revoked         map[string]time.Time // jti -> exp
	now             func() time.Time
	secret          []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	mu              sync.Mutex
}

// NewService creates a new JWT service
// secret should be a cryptographically secure random string
func NewService(secret string, accessTokenTTL, refreshTokenTTL time.Duration) *Service {
	return &Service{
		secret:          []byte(secret),
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
		revoked:         make(map[string]time.Time),
		now:             time.Now,
	}
}

// AccessTokenTTL returns the lifetime of issued access tokens.
func (s *Service) AccessTokenTTL() time.Duration {
	return s.accessTokenTTL
}

// GenerateAccessToken creates a new HS256 access token for the account
func (s *Service) GenerateAccessToken(user *models.Account) (string, error) {
	now := s.now()

	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Roles:  user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.Email,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// GenerateRefreshToken creates a new random refresh token
func (s *Service) GenerateRefreshToken() (string, time.Time, error) {
	// Генерируем случайные 32 байта
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate random token: %w", err)
	}

	token := base64.RawURLEncoding.EncodeToString(tokenBytes)
	return token, s.now().Add(s.refreshTokenTTL), nil
}

// ValidateAccessToken validates and parses an access token.
// Revoked tokens fail with ErrRevoked.
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if s.isRevoked(claims.ID) {
		return nil, ErrRevoked
	}

	return claims, nil
}

// Revoke отзывает access token до истечения его срока
func (s *Service) Revoke(claims *Claims) {
	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.revoked[claims.ID] = claims.ExpiresAt.Time
	s.purgeLocked()
}

func (s *Service) isRevoked(jti string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.revoked[jti]
	return ok
}

// purgeLocked выбрасывает записи, чьи токены всё равно истекли
func (s *Service) purgeLocked() {
	now := s.now()
	for jti, exp := range s.revoked {
		if now.After(exp) {
			delete(s.revoked, jti)
		}
	}
}
