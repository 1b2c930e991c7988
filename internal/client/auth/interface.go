package auth

import (
	"context"

	"github.com/iudanet/coursemanager/pkg/api"
)

//go:generate moq -out credential_client_mock.go . CredentialClient

// CredentialClient - удалённые Credential Service и Profile Service.
// *api.Client из internal/client/api реализует этот интерфейс.
type CredentialClient interface {
	// SignUp регистрирует пользователя и возвращает пару токенов
	SignUp(ctx context.Context, req api.SignUpRequest) (*api.TokenResponse, error)

	// SignIn обменивает email и пароль на пару токенов
	SignIn(ctx context.Context, req api.SignInRequest) (*api.TokenResponse, error)

	// LogOut уведомляет сервер о выходе
	LogOut(ctx context.Context, req api.LogOutRequest) error

	// ValidateAccessToken возвращает nil только если сервер ответил 200
	ValidateAccessToken(ctx context.Context, accessToken string) error

	// GetUser возвращает профиль пользователя по email
	GetUser(ctx context.Context, email, accessToken string) (*api.UserResponse, error)

	// PartialUpdateUser частично обновляет профиль или пароль
	PartialUpdateUser(ctx context.Context, email string, req api.PartialUpdateRequest, accessToken string) (*api.UserResponse, error)
}
