// Package server wires the reference auth-service and user-service backend.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/iudanet/coursemanager/internal/models"
	"github.com/iudanet/coursemanager/internal/server/handlers"
	"github.com/iudanet/coursemanager/internal/server/jwt"
	"github.com/iudanet/coursemanager/internal/server/middleware"
	"github.com/iudanet/coursemanager/internal/server/storage"
	"github.com/iudanet/coursemanager/internal/validation"
)

// Store - всё, что backend хранит
type Store interface {
	storage.UserStorage
	storage.TokenStorage
	handlers.Pinger
}

// Config - параметры роутера
type Config struct {
	Logger      *slog.Logger
	Store       Store
	Tokens      *jwt.Service
	Version     string
	CORSOrigins []string
	// AuthRate - запросов sign-in/sign-up с одного адреса за AuthWindow; 0 отключает лимит
	AuthRate   int
	AuthWindow time.Duration
}

// NewRouter builds the HTTP handler. The returned stop func releases the
// rate limiter goroutine.
func NewRouter(cfg Config) (http.Handler, func()) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	authHandler := handlers.NewAuthHandler(logger, cfg.Store, cfg.Store, cfg.Tokens)
	userHandler := handlers.NewUserHandler(logger, cfg.Store, cfg.Store, cfg.Tokens)
	healthHandler := handlers.NewHealthHandler(logger, cfg.Store, cfg.Version)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.LoggingWithSkip(logger, []string{"/health"}))
	r.Use(middleware.RecoveryMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	stop := func() {}
	limit := func(next http.Handler) http.Handler { return next }
	if cfg.AuthRate > 0 {
		limiter := middleware.NewRateLimiter(cfg.AuthRate, cfg.AuthWindow, logger)
		limit = limiter.Middleware
		stop = limiter.Stop
	}

	r.Get("/health", healthHandler.Health)

	r.Route("/auth-service", func(r chi.Router) {
		r.With(limit).Post("/sign-up", authHandler.SignUp)
		r.With(limit).Post("/sign-in", authHandler.SignIn)
		r.Post("/log-out", authHandler.LogOut)
		r.Post("/validate-access-token/{token}", authHandler.ValidateAccessToken)
	})

	r.Route("/user-service", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(logger, cfg.Tokens))
		r.Patch("/partial-update/{email}", userHandler.PartialUpdate)
		r.Get("/{email}", userHandler.GetUser)
	})

	return r, stop
}

// SeedAdmin создаёт администратора, если его ещё нет.
// Единственный путь появления роли ADMIN: sign-up всегда выдаёт USER.
func SeedAdmin(ctx context.Context, users storage.UserStorage, email, password string, logger *slog.Logger) error {
	if email == "" {
		return nil
	}

	if err := validation.ValidateCredentials(email, password); err != nil {
		return fmt.Errorf("invalid admin credentials: %w", err)
	}

	_, err := users.GetUserByEmail(ctx, email)
	if err == nil {
		logger.InfoContext(ctx, "admin account already exists", slog.String("email", email))
		return nil
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	hash, err := handlers.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &models.Account{
		Email:        email,
		FullName:     "Administrator",
		PasswordHash: hash,
		Roles:        []models.Role{models.RoleAdmin, models.RoleUser},
		CreatedAt:    time.Now(),
	}
	if err := users.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	logger.InfoContext(ctx, "admin account created", slog.String("email", email), slog.Int64("user_id", admin.ID))
	return nil
}

// PurgeExpiredTokens periodically deletes expired refresh tokens until ctx is done.
func PurgeExpiredTokens(ctx context.Context, tokens storage.TokenStorage, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := tokens.DeleteExpiredTokens(ctx, now)
			if err != nil {
				if ctx.Err() == nil {
					logger.ErrorContext(ctx, "failed to purge expired tokens", slog.Any("error", err))
				}
				continue
			}
			if n > 0 {
				logger.InfoContext(ctx, "expired refresh tokens purged", slog.Int("count", n))
			}
		}
	}
}
