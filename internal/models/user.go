package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Role определяет набор действий, доступных пользователю в UI
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// ErrNoRoles возвращается, если у профиля пустой набор ролей
var ErrNoRoles = errors.New("profile has no roles")

// Session - пара токенов, выданная Credential Service.
// Хранится в Session Store под ключом "user".
type Session struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Valid reports whether the session carries an access token.
func (s Session) Valid() bool {
	return s.AccessToken != ""
}

// Profile - данные пользователя из Profile Service.
// Хранится в Session Store под ключом "userProfile".
type Profile struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Roles    []Role `json:"roles"`
	ID       int64  `json:"id"`
}

// HasRole reports whether the profile carries role r.
func (p Profile) HasRole(r Role) bool {
	return slices.Contains(p.Roles, r)
}

// Validate checks the invariants of an authenticated profile:
// a non-empty e-mail and at least one non-blank role.
func (p Profile) Validate() error {
	if p.Email == "" {
		return fmt.Errorf("profile email is empty")
	}
	if len(p.Roles) == 0 {
		return ErrNoRoles
	}
	for _, r := range p.Roles {
		if strings.TrimSpace(string(r)) == "" {
			return fmt.Errorf("profile has blank role: %w", ErrNoRoles)
		}
	}
	return nil
}

// Clone returns a deep copy so callers can't mutate the roles slice.
func (p Profile) Clone() Profile {
	cp := p
	cp.Roles = slices.Clone(p.Roles)
	return cp
}

// Registration - данные формы регистрации.
// Roles всегда перезаписываются на USER перед отправкой.
type Registration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Roles    []Role `json:"roles"`
}

// ProfileUpdate - частичное обновление профиля; пустые поля не отправляются.
type ProfileUpdate struct {
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}
