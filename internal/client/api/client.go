package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iudanet/coursemanager/internal/client/apierror"
	"github.com/iudanet/coursemanager/pkg/api"
)

// DefaultTimeout - таймаут HTTP клиента по умолчанию
const DefaultTimeout = 30 * time.Second

// Client представляет HTTP клиент для auth-service и user-service
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
}

// Option настраивает Client
type Option func(*Client)

// WithLogger sets the logger used for failed calls.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout overrides DefaultTimeout. Zero disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient создает новый API клиент
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  slog.Default(),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SignUp регистрирует нового пользователя
func (c *Client) SignUp(ctx context.Context, req api.SignUpRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if _, err := c.doRequest(ctx, "sign-up", http.MethodPost, api.PathSignUp, "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SignIn выполняет аутентификацию пользователя
func (c *Client) SignIn(ctx context.Context, req api.SignInRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if _, err := c.doRequest(ctx, "sign-in", http.MethodPost, api.PathSignIn, "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LogOut уведомляет сервер о выходе. Тело ответа игнорируется.
func (c *Client) LogOut(ctx context.Context, req api.LogOutRequest) error {
	_, err := c.doRequest(ctx, "log-out", http.MethodPost, api.PathLogOut, "", req, nil)
	return err
}

// ValidateAccessToken succeeds only on HTTP 200. Any other outcome,
// including other 2xx codes, is returned as an error.
func (c *Client) ValidateAccessToken(ctx context.Context, accessToken string) error {
	const op = "validate-access-token"

	path := api.PathValidateAccessToken + url.PathEscape(accessToken)
	status, err := c.doRequest(ctx, op, http.MethodPost, path, "", nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		err := apierror.FromStatus(op, status, "")
		c.logFailure(ctx, err)
		return err
	}
	return nil
}

// GetUser получает профиль пользователя по email
func (c *Client) GetUser(ctx context.Context, email, accessToken string) (*api.UserResponse, error) {
	var resp api.UserResponse
	path := api.PathUserService + url.PathEscape(email)
	if _, err := c.doRequest(ctx, "get-user", http.MethodGet, path, accessToken, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PartialUpdateUser выполняет PATCH профиля. При смене пароля ответ содержит новые токены.
func (c *Client) PartialUpdateUser(ctx context.Context, email string, req api.PartialUpdateRequest, accessToken string) (*api.UserResponse, error) {
	var resp api.UserResponse
	path := api.PathPartialUpdate + url.PathEscape(email)
	if _, err := c.doRequest(ctx, "partial-update-user", http.MethodPatch, path, accessToken, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// doRequest выполняет HTTP запрос и возвращает статус ответа.
// Любая ошибка логируется и возвращается как *apierror.Error.
func (c *Client) doRequest(ctx context.Context, op, method, path, bearer string, body, result any) (int, error) {
	status, err := c.roundTrip(ctx, op, method, path, bearer, body, result)
	if err != nil {
		c.logFailure(ctx, err)
	}
	return status, err
}

func (c *Client) roundTrip(ctx context.Context, op, method, path, bearer string, body, result any) (int, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return 0, apierror.Setup(op, fmt.Errorf("failed to marshal request body: %w", err))
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return 0, apierror.Setup(op, fmt.Errorf("failed to create request: %w", err))
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, apierror.Network(op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, apierror.Network(op, fmt.Errorf("failed to read response body: %w", err))
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		msg := ""
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			msg = errResp.Message
		}
		return resp.StatusCode, apierror.FromStatus(op, resp.StatusCode, msg)
	}

	// Декодируем успешный ответ
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return resp.StatusCode, &apierror.Error{
				Op:     op,
				Kind:   apierror.KindUnknown,
				Status: resp.StatusCode,
				Err:    fmt.Errorf("failed to decode response: %w", err),
			}
		}
	}

	return resp.StatusCode, nil
}

// logFailure пишет ошибку без токенов и тел запросов
func (c *Client) logFailure(ctx context.Context, err error) {
	var apiErr *apierror.Error
	if !errors.As(err, &apiErr) {
		c.logger.ErrorContext(ctx, "request failed", slog.Any("error", err))
		return
	}

	level := slog.LevelWarn
	if apiErr.Kind == apierror.KindNetwork || apiErr.Kind == apierror.KindSetup || apiErr.Status >= 500 {
		level = slog.LevelError
	}
	c.logger.Log(ctx, level, "request failed",
		slog.String("op", apiErr.Op),
		slog.String("kind", apiErr.Kind.String()),
		slog.Int("status", apiErr.Status),
		slog.Any("error", apiErr.Err),
	)
}
