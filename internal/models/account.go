package models

import (
	"slices"
	"strings"
	"time"
)

// Account - учётная запись на стороне reference backend.
// Пароль хранится только в виде bcrypt хеша.
type Account struct {
	CreatedAt    time.Time
	LastLogin    *time.Time
	Email        string
	FullName     string
	PasswordHash string
	Phone        string
	Roles        []Role
	ID           int64
}

// Profile converts the account into the record returned by user-service.
func (a Account) Profile() Profile {
	return Profile{
		ID:       a.ID,
		FullName: a.FullName,
		Email:    a.Email,
		Phone:    a.Phone,
		Roles:    slices.Clone(a.Roles),
	}
}

// HasRole reports whether the account carries role r.
func (a Account) HasRole(r Role) bool {
	return slices.Contains(a.Roles, r)
}

// SameEmail сравнивает адреса без учёта регистра
func SameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// RefreshToken - выданный refresh token
type RefreshToken struct {
	ExpiresAt time.Time
	CreatedAt time.Time
	Token     string
	UserID    int64
}

// Expired reports whether the token is past its expiry at now.
func (t RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
