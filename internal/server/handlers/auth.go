package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/iudanet/coursemanager/internal/models"
	"github.com/iudanet/coursemanager/internal/server/jwt"
	"github.com/iudanet/coursemanager/internal/server/storage"
	"github.com/iudanet/coursemanager/internal/validation"
	"github.com/iudanet/coursemanager/pkg/api"
)

// bcryptCost - стоимость хеширования паролей; тесты понижают её
var bcryptCost = bcrypt.DefaultCost

// HashPassword returns the bcrypt hash stored for an account.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// AuthHandler обрабатывает запросы auth-service
type AuthHandler struct {
	userStorage  storage.UserStorage
	tokenStorage storage.TokenStorage
	tokens       *jwt.Service
	now          func() time.Time
	responder
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, userStorage storage.UserStorage, tokenStorage storage.TokenStorage, tokens *jwt.Service) *AuthHandler {
	return &AuthHandler{
		responder:    responder{logger: logger},
		userStorage:  userStorage,
		tokenStorage: tokenStorage,
		tokens:       tokens,
		now:          time.Now,
	}
}

// SignUp обрабатывает POST /auth-service/sign-up
// Регистрация всегда создаёт пользователя с единственной ролью USER
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode sign-up request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	reg := models.Registration{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
		FullName: strings.TrimSpace(req.FullName),
		Phone:    strings.TrimSpace(req.Phone),
	}
	if err := validation.ValidateRegistration(reg); err != nil {
		h.logger.WarnContext(ctx, "invalid sign-up request", slog.Any("error", err))
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if len(req.Roles) > 0 && !(len(req.Roles) == 1 && req.Roles[0] == models.RoleUser) {
		h.logger.WarnContext(ctx, "sign-up roles overridden", slog.Any("requested", req.Roles))
	}

	hash, err := HashPassword(reg.Password)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	user := &models.Account{
		Email:        reg.Email,
		FullName:     reg.FullName,
		Phone:        reg.Phone,
		PasswordHash: hash,
		Roles:        []models.Role{models.RoleUser},
		CreatedAt:    h.now(),
	}

	if err := h.userStorage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			h.logger.WarnContext(ctx, "user already exists", slog.String("email", reg.Email))
			h.sendError(w, "email already registered", http.StatusConflict)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp, err := h.issueTokens(ctx, user)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue tokens", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user registered successfully",
		slog.String("email", user.Email),
		slog.Int64("user_id", user.ID))

	h.sendJSON(w, resp, http.StatusCreated)
}

// SignIn обрабатывает POST /auth-service/sign-in
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode sign-in request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(req.Email)
	if err := validation.ValidateCredentials(email, req.Password); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.userStorage.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.logger.WarnContext(ctx, "sign-in failed: user not found", slog.String("email", email))
			h.sendError(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.logger.WarnContext(ctx, "sign-in failed: wrong password", slog.String("email", email))
		h.sendError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	resp, err := h.issueTokens(ctx, user)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue tokens", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.userStorage.UpdateLastLogin(ctx, user.ID, h.now()); err != nil {
		// Не критичная ошибка, логируем но не прерываем
		h.logger.WarnContext(ctx, "failed to update last login", slog.Any("error", err))
	}

	h.logger.InfoContext(ctx, "user signed in successfully",
		slog.String("email", user.Email),
		slog.Int64("user_id", user.ID))

	h.sendJSON(w, resp, http.StatusOK)
}

// LogOut обрабатывает POST /auth-service/log-out
// Отзывает переданный access token и все refresh tokens пользователя
func (h *AuthHandler) LogOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LogOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode log-out request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.AccessToken == "" {
		h.sendError(w, "access token is required", http.StatusUnauthorized)
		return
	}

	claims, err := h.tokens.ValidateAccessToken(req.AccessToken)
	if err != nil {
		h.logger.WarnContext(ctx, "log-out with invalid access token", slog.Any("error", err))
		h.sendError(w, "invalid or expired access token", http.StatusUnauthorized)
		return
	}

	if req.Email != "" && !models.SameEmail(req.Email, claims.Email) {
		h.logger.WarnContext(ctx, "log-out email mismatch", slog.Int64("user_id", claims.UserID))
		h.sendError(w, "token does not belong to this user", http.StatusForbidden)
		return
	}

	h.tokens.Revoke(claims)

	deletedCount, err := h.tokenStorage.DeleteUserTokens(ctx, claims.UserID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to delete user tokens", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user logged out successfully",
		slog.Int64("user_id", claims.UserID),
		slog.Int("tokens_deleted", deletedCount))

	w.WriteHeader(http.StatusNoContent)
}

// ValidateAccessToken обрабатывает POST /auth-service/validate-access-token/{token}
// 200 - токен жив и пользователь существует, иначе 401
func (h *AuthHandler) ValidateAccessToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, err := url.PathUnescape(chi.URLParam(r, "token"))
	if err != nil || token == "" {
		h.sendError(w, "access token is required", http.StatusUnauthorized)
		return
	}

	claims, err := h.tokens.ValidateAccessToken(token)
	if err != nil {
		h.logger.DebugContext(ctx, "access token rejected", slog.Any("error", err))
		h.sendError(w, "invalid or expired access token", http.StatusUnauthorized)
		return
	}

	if _, err := h.userStorage.GetUserByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.sendError(w, "user no longer exists", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.sendJSON(w, api.ValidateResponse{Valid: true, Email: claims.Email}, http.StatusOK)
}

// issueTokens выдаёт пару токенов и сохраняет refresh token
func (h *AuthHandler) issueTokens(ctx context.Context, user *models.Account) (*api.TokenResponse, error) {
	return issueTokens(ctx, h.tokens, h.tokenStorage, user, h.now())
}

func issueTokens(ctx context.Context, tokens *jwt.Service, tokenStorage storage.TokenStorage, user *models.Account, now time.Time) (*api.TokenResponse, error) {
	accessToken, err := tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, expiresAt, err := tokens.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	if err := tokenStorage.SaveRefreshToken(ctx, &models.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	return &api.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
