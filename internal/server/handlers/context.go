package handlers

import (
	"context"

	"github.com/iudanet/coursemanager/internal/server/jwt"
)

// contextKey тип для ключей контекста
type contextKey string

// ClaimsKey ключ для хранения claims проверенного access token
const ClaimsKey contextKey = "claims"

// WithClaims кладёт claims в контекст запроса
func WithClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// GetClaims извлекает claims из контекста запроса
func GetClaims(ctx context.Context) (*jwt.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*jwt.Claims)
	return claims, ok && claims != nil
}
