package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/coursemanager/internal/models"
	"github.com/iudanet/coursemanager/internal/server/jwt"
	"github.com/iudanet/coursemanager/internal/server/storage"
	"github.com/iudanet/coursemanager/internal/validation"
	"github.com/iudanet/coursemanager/pkg/api"
)

// UserHandler обрабатывает запросы user-service.
// Маршруты закрыты AuthMiddleware: claims всегда в контексте.
type UserHandler struct {
	userStorage  storage.UserStorage
	tokenStorage storage.TokenStorage
	tokens       *jwt.Service
	now          func() time.Time
	responder
}

// NewUserHandler создает handler профиля
func NewUserHandler(logger *slog.Logger, userStorage storage.UserStorage, tokenStorage storage.TokenStorage, tokens *jwt.Service) *UserHandler {
	return &UserHandler{
		responder:    responder{logger: logger},
		userStorage:  userStorage,
		tokenStorage: tokenStorage,
		tokens:       tokens,
		now:          time.Now,
	}
}

// GetUser обрабатывает GET /user-service/{email}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, claims, ok := h.target(w, r)
	if !ok {
		return
	}

	h.logger.DebugContext(ctx, "returning profile",
		slog.Int64("user_id", user.ID),
		slog.Int64("caller_id", claims.UserID))

	h.sendJSON(w, userResponse(user), http.StatusOK)
}

// PartialUpdate обрабатывает PATCH /user-service/partial-update/{email}
// Смена пароля или email владельцем аккаунта возвращает новые токены
func (h *UserHandler) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.PartialUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode partial update", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	update := models.ProfileUpdate{
		FullName: strings.TrimSpace(req.FullName),
		Email:    strings.TrimSpace(req.Email),
		Phone:    strings.TrimSpace(req.Phone),
	}
	if update == (models.ProfileUpdate{}) && req.Password == "" {
		h.sendError(w, "nothing to update", http.StatusBadRequest)
		return
	}
	if update != (models.ProfileUpdate{}) {
		if err := validation.ValidateProfileUpdate(update); err != nil {
			h.sendError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if req.Password != "" {
		if err := validation.ValidatePassword(req.Password); err != nil {
			h.sendError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	user, claims, ok := h.target(w, r)
	if !ok {
		return
	}

	rotate := false
	if update.FullName != "" {
		user.FullName = update.FullName
	}
	if update.Phone != "" {
		user.Phone = update.Phone
	}
	if update.Email != "" && !models.SameEmail(update.Email, user.Email) {
		user.Email = update.Email
		rotate = true
	}
	if req.Password != "" {
		hash, err := HashPassword(req.Password)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
			h.sendError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		user.PasswordHash = hash
		rotate = true
	}

	if err := h.userStorage.UpdateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, storage.ErrUserAlreadyExists):
			h.sendError(w, "email already registered", http.StatusConflict)
		case errors.Is(err, storage.ErrUserNotFound):
			h.sendError(w, "user not found", http.StatusNotFound)
		default:
			h.logger.ErrorContext(ctx, "failed to update user", slog.Any("error", err))
			h.sendError(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	resp := userResponse(user)

	if rotate {
		// Старые refresh tokens больше не действуют
		if _, err := h.tokenStorage.DeleteUserTokens(ctx, user.ID); err != nil {
			h.logger.ErrorContext(ctx, "failed to revoke refresh tokens", slog.Any("error", err))
			h.sendError(w, "internal server error", http.StatusInternalServerError)
			return
		}

		if claims.UserID == user.ID {
			h.tokens.Revoke(claims)

			pair, err := issueTokens(ctx, h.tokens, h.tokenStorage, user, h.now())
			if err != nil {
				h.logger.ErrorContext(ctx, "failed to issue tokens", slog.Any("error", err))
				h.sendError(w, "internal server error", http.StatusInternalServerError)
				return
			}
			resp.AccessToken = pair.AccessToken
			resp.RefreshToken = pair.RefreshToken
		}
	}

	h.logger.InfoContext(ctx, "profile updated",
		slog.Int64("user_id", user.ID),
		slog.Bool("tokens_rotated", resp.AccessToken != ""))

	h.sendJSON(w, resp, http.StatusOK)
}

// target находит аккаунт из пути и проверяет, что вызывающий - его владелец или ADMIN.
// При ошибке ответ уже отправлен.
func (h *UserHandler) target(w http.ResponseWriter, r *http.Request) (*models.Account, *jwt.Claims, bool) {
	ctx := r.Context()

	claims, ok := GetClaims(ctx)
	if !ok {
		h.sendError(w, "missing access token", http.StatusUnauthorized)
		return nil, nil, false
	}

	email, err := url.PathUnescape(chi.URLParam(r, "email"))
	if err != nil || strings.TrimSpace(email) == "" {
		h.sendError(w, "email is required", http.StatusBadRequest)
		return nil, nil, false
	}

	if !slices.Contains(claims.Roles, models.RoleAdmin) && !models.SameEmail(email, claims.Email) {
		h.logger.WarnContext(ctx, "profile access denied",
			slog.Int64("caller_id", claims.UserID),
			slog.String("email", email))
		h.sendError(w, "access denied", http.StatusForbidden)
		return nil, nil, false
	}

	user, err := h.userStorage.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.sendError(w, "user not found", http.StatusNotFound)
			return nil, nil, false
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return nil, nil, false
	}

	return user, claims, true
}

func userResponse(user *models.Account) api.UserResponse {
	p := user.Profile()
	return api.UserResponse{
		ID:       p.ID,
		FullName: p.FullName,
		Email:    p.Email,
		Phone:    p.Phone,
		Roles:    p.Roles,
	}
}
