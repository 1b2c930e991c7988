package api

import "github.com/iudanet/coursemanager/internal/models"

// Пути auth-service и user-service
const (
	PathSignUp              = "/auth-service/sign-up"
	PathSignIn              = "/auth-service/sign-in"
	PathLogOut              = "/auth-service/log-out"
	PathValidateAccessToken = "/auth-service/validate-access-token/"
	PathUserService         = "/user-service/"
	PathPartialUpdate       = "/user-service/partial-update/"
)

// SignUpRequest представляет запрос на регистрацию нового пользователя
type SignUpRequest struct {
	Email    string        `json:"email"`
	Password string        `json:"password"`
	FullName string        `json:"fullName"`
	Phone    string        `json:"phone,omitempty"`
	Roles    []models.Role `json:"roles"`
}

// SignInRequest представляет запрос на аутентификацию
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LogOutRequest представляет запрос на выход
type LogOutRequest struct {
	Email       string `json:"email"`
	AccessToken string `json:"accessToken"`
}

// TokenResponse представляет ответ с токенами доступа
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// UserResponse - ответ user-service.
// После смены пароля сервер дополнительно возвращает новые токены.
type UserResponse struct {
	FullName     string        `json:"fullName"`
	Email        string        `json:"email"`
	Password     string        `json:"password,omitempty"`
	Phone        string        `json:"phone,omitempty"`
	AccessToken  string        `json:"accessToken,omitempty"`
	RefreshToken string        `json:"refreshToken,omitempty"`
	Roles        []models.Role `json:"roles"`
	ID           int64         `json:"id"`
}

// PartialUpdateRequest - тело PATCH /user-service/partial-update/{email}
type PartialUpdateRequest struct {
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password,omitempty"`
}

// ValidateResponse - тело ответа 200 на validate-access-token.
// Клиент смотрит только на статус.
type ValidateResponse struct {
	Email string `json:"email,omitempty"`
	Valid bool   `json:"valid"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}

// Profile converts the response into the client-side profile record.
func (u UserResponse) Profile() models.Profile {
	return models.Profile{
		ID:       u.ID,
		FullName: u.FullName,
		Email:    u.Email,
		Password: u.Password,
		Phone:    u.Phone,
		Roles:    u.Roles,
	}
}

// Session converts a token response into the client-side session record.
func (t TokenResponse) Session() models.Session {
	return models.Session{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
	}
}
