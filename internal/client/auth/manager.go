package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iudanet/coursemanager/internal/client/storage"
	"github.com/iudanet/coursemanager/internal/models"
	"github.com/iudanet/coursemanager/internal/validation"
	"github.com/iudanet/coursemanager/pkg/api"
)

var (
	// ErrNoSession - операция требует активной сессии
	ErrNoSession = errors.New("no active session")

	// ErrNoRoles - Profile Service вернул профиль без ролей
	ErrNoRoles = models.ErrNoRoles

	// ErrInvalidInput - данные формы не прошли валидацию, запрос не отправлялся
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedResponse - сервер ответил 2xx, но без токенов или профиля
	ErrMalformedResponse = errors.New("malformed response")
)

// Manager owns the client's session: the token pair and the profile that
// belongs to it. It is the only writer of the session store.
//
// Session and Profile are either both present or both absent. Every mutation,
// clearing included, first writes the store, then swaps the in-memory copy, so
// a failed call leaves the previous state untouched.
type Manager struct {
	client CredentialClient
	store  storage.Store
	logger *slog.Logger

	session *models.Session
	profile *models.Profile

	subscribers map[int]chan struct{}
	nextSubID   int

	// opMu сериализует мутирующие операции целиком, включая сетевые вызовы
	opMu sync.Mutex
	// mu защищает session, profile и subscribers
	mu sync.RWMutex
}

// Option настраивает Manager
type Option func(*Manager)

// WithLogger sets the logger. Tokens and passwords are never logged.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a Manager and hydrates it from store exactly once.
// A record pair that is incomplete or unreadable is dropped from the store.
func NewManager(ctx context.Context, client CredentialClient, store storage.Store, opts ...Option) (*Manager, error) {
	m := &Manager{
		client:      client,
		store:       store,
		logger:      slog.Default(),
		subscribers: make(map[int]chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	if err := m.hydrate(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) hydrate(ctx context.Context) error {
	rawSession, sessionErr := m.store.Get(ctx, storage.KeySession)
	if !readable(sessionErr) {
		return fmt.Errorf("failed to read session: %w", sessionErr)
	}
	rawProfile, profileErr := m.store.Get(ctx, storage.KeyProfile)
	if !readable(profileErr) {
		return fmt.Errorf("failed to read profile: %w", profileErr)
	}

	// Обе записи отсутствуют - обычный старт без сессии
	if errors.Is(sessionErr, storage.ErrNotFound) && errors.Is(profileErr, storage.ErrNotFound) {
		return nil
	}

	// Запись, которую не удалось расшифровать, считается нечитаемой, как и битый JSON
	err := errors.Join(corrupt(sessionErr), corrupt(profileErr))
	var (
		session models.Session
		profile models.Profile
	)
	if err == nil {
		session, profile, err = decodePair(rawSession, rawProfile)
	}
	if err != nil {
		m.logger.WarnContext(ctx, "dropping stored session", "error", err)
		if err := m.store.RemoveAll(ctx, storage.KeySession, storage.KeyProfile); err != nil {
			return fmt.Errorf("failed to clear stored session: %w", err)
		}
		return nil
	}

	m.session = &session
	m.profile = &profile
	m.logger.DebugContext(ctx, "session restored", "email", profile.Email)
	return nil
}

// readable - запись прочитана, отсутствует или повреждена; остальное - отказ хранилища
func readable(err error) bool {
	return err == nil || errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrCorrupt)
}

func corrupt(err error) error {
	if errors.Is(err, storage.ErrCorrupt) {
		return err
	}
	return nil
}

func decodePair(rawSession, rawProfile []byte) (models.Session, models.Profile, error) {
	var (
		session models.Session
		profile models.Profile
	)
	if rawSession == nil || rawProfile == nil {
		return session, profile, fmt.Errorf("incomplete session record")
	}
	if err := json.Unmarshal(rawSession, &session); err != nil {
		return session, profile, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	if err := json.Unmarshal(rawProfile, &profile); err != nil {
		return session, profile, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	if !session.Valid() {
		return session, profile, fmt.Errorf("stored session has no access token")
	}
	if err := profile.Validate(); err != nil {
		return session, profile, err
	}
	return session, profile, nil
}

// Session returns a copy of the current session.
func (m *Manager) Session() (models.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.session == nil {
		return models.Session{}, false
	}
	return *m.session, true
}

// Profile returns a copy of the current profile.
func (m *Manager) Profile() (models.Profile, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.profile == nil {
		return models.Profile{}, false
	}
	return m.profile.Clone(), true
}

// Login обменивает email и пароль на сессию и загружает профиль.
// Сессия сохраняется только вместе с валидным профилем.
func (m *Manager) Login(ctx context.Context, email, password string) (*models.Session, error) {
	if err := validation.ValidateCredentials(email, password); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	tokens, err := m.client.SignIn(ctx, api.SignInRequest{Email: email, Password: password})
	if err != nil {
		m.logger.InfoContext(ctx, "sign-in failed", "email", email, "error", err)
		return nil, err
	}

	session, profile, err := m.resolve(ctx, email, tokens)
	if err != nil {
		return nil, err
	}

	if err := m.commit(ctx, &session, &profile); err != nil {
		return nil, err
	}

	m.logger.InfoContext(ctx, "signed in", "email", profile.Email, "roles", profile.Roles)
	return &session, nil
}

// Register создает учетную запись с ролью USER и сразу открывает сессию.
// Роли из формы игнорируются.
func (m *Manager) Register(ctx context.Context, reg models.Registration) (*models.Session, error) {
	reg.Roles = []models.Role{models.RoleUser}
	if err := validation.ValidateRegistration(reg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	tokens, err := m.client.SignUp(ctx, api.SignUpRequest{
		Email:    reg.Email,
		Password: reg.Password,
		FullName: reg.FullName,
		Phone:    reg.Phone,
		Roles:    reg.Roles,
	})
	if err != nil {
		m.logger.InfoContext(ctx, "sign-up failed", "email", reg.Email, "error", err)
		return nil, err
	}

	session, profile, err := m.resolve(ctx, reg.Email, tokens)
	if err != nil {
		return nil, err
	}

	if err := m.commit(ctx, &session, &profile); err != nil {
		return nil, err
	}

	m.logger.InfoContext(ctx, "registered", "email", profile.Email)
	return &session, nil
}

// resolve превращает ответ Credential Service в пару Session/Profile
func (m *Manager) resolve(ctx context.Context, email string, tokens *api.TokenResponse) (models.Session, models.Profile, error) {
	if tokens == nil || tokens.AccessToken == "" {
		return models.Session{}, models.Profile{}, fmt.Errorf("credential service: %w: no access token", ErrMalformedResponse)
	}
	session := tokens.Session()

	profile, err := m.fetchProfile(ctx, email, session.AccessToken)
	if err != nil {
		// Токены уже выданы, но без профиля сессию не сохраняем
		m.logger.WarnContext(ctx, "profile lookup failed, discarding session", "email", email, "error", err)
		return models.Session{}, models.Profile{}, err
	}
	return session, profile, nil
}

func (m *Manager) fetchProfile(ctx context.Context, email, accessToken string) (models.Profile, error) {
	resp, err := m.client.GetUser(ctx, email, accessToken)
	if err != nil {
		return models.Profile{}, err
	}
	if resp == nil {
		return models.Profile{}, fmt.Errorf("profile service: %w: empty body", ErrMalformedResponse)
	}

	profile := resp.Profile()
	if err := profile.Validate(); err != nil {
		return models.Profile{}, fmt.Errorf("profile %s: %w", email, err)
	}
	return profile, nil
}

// Logout завершает сессию. Ошибка сервера только логируется:
// локальные данные удаляются всегда. Повторный вызов безопасен.
func (m *Manager) Logout(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	session, hasSession := m.Session()
	profile, _ := m.Profile()

	if hasSession {
		req := api.LogOutRequest{Email: profile.Email, AccessToken: session.AccessToken}
		if err := m.client.LogOut(ctx, req); err != nil {
			// Не прерываем процесс, если сервер недоступен
			m.logger.WarnContext(ctx, "failed to logout on server", "email", profile.Email, "error", err)
		}
	}

	if err := m.clear(ctx); err != nil {
		return err
	}

	if hasSession {
		m.logger.InfoContext(ctx, "signed out", "email", profile.Email)
	}
	return nil
}

// Invalidate drops the session locally without contacting the server.
func (m *Manager) Invalidate(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	return m.clear(ctx)
}

// InvalidateToken drops the session only if accessToken is still the current
// one. A session replaced by a concurrent login survives a stale rejection.
func (m *Manager) InvalidateToken(ctx context.Context, accessToken string) (bool, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	session, ok := m.Session()
	if !ok || session.AccessToken != accessToken {
		return false, nil
	}

	m.logger.InfoContext(ctx, "access token rejected, clearing session")
	if err := m.clear(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// RefreshProfile reloads the profile of the current session.
func (m *Manager) RefreshProfile(ctx context.Context) (*models.Profile, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	session, profile, err := m.current()
	if err != nil {
		return nil, err
	}

	fresh, err := m.fetchProfile(ctx, profile.Email, session.AccessToken)
	if err != nil {
		return nil, err
	}

	if err := m.commit(ctx, nil, &fresh); err != nil {
		return nil, err
	}
	return &fresh, nil
}

// UpdateProfile частично обновляет профиль текущего пользователя.
// Пустые поля не отправляются. Смена email переносит сессию на новый адрес.
func (m *Manager) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.Profile, error) {
	if err := validation.ValidateProfileUpdate(upd); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	session, profile, err := m.current()
	if err != nil {
		return nil, err
	}

	resp, err := m.client.PartialUpdateUser(ctx, profile.Email, api.PartialUpdateRequest{
		FullName: upd.FullName,
		Email:    upd.Email,
		Phone:    upd.Phone,
	}, session.AccessToken)
	if err != nil {
		m.logger.InfoContext(ctx, "profile update failed", "email", profile.Email, "error", err)
		return nil, err
	}

	updated, rotated, err := m.applyUserResponse(resp, session)
	if err != nil {
		return nil, err
	}

	if err := m.commit(ctx, rotated, &updated); err != nil {
		return nil, err
	}

	m.logger.InfoContext(ctx, "profile updated", "email", updated.Email)
	return &updated, nil
}

// ChangePassword меняет пароль. Сервер выдает новую пару токенов,
// которая заменяет текущую сессию.
func (m *Manager) ChangePassword(ctx context.Context, newPassword string) error {
	if err := validation.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	session, profile, err := m.current()
	if err != nil {
		return err
	}

	resp, err := m.client.PartialUpdateUser(ctx, profile.Email, api.PartialUpdateRequest{
		Password: newPassword,
	}, session.AccessToken)
	if err != nil {
		m.logger.InfoContext(ctx, "password change failed", "email", profile.Email, "error", err)
		return err
	}

	updated, rotated, err := m.applyUserResponse(resp, session)
	if err != nil {
		return err
	}

	if err := m.commit(ctx, rotated, &updated); err != nil {
		return err
	}

	m.logger.InfoContext(ctx, "password changed", "email", updated.Email, "tokens_rotated", rotated != nil)
	return nil
}

// applyUserResponse возвращает новый профиль и, если сервер выдал токены, новую сессию
func (m *Manager) applyUserResponse(resp *api.UserResponse, current models.Session) (models.Profile, *models.Session, error) {
	if resp == nil {
		return models.Profile{}, nil, fmt.Errorf("profile service: %w: empty body", ErrMalformedResponse)
	}

	profile := resp.Profile()
	if err := profile.Validate(); err != nil {
		return models.Profile{}, nil, err
	}

	if resp.AccessToken == "" {
		return profile, nil, nil
	}

	rotated := models.Session{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	if rotated == current {
		return profile, nil, nil
	}
	return profile, &rotated, nil
}

func (m *Manager) current() (models.Session, models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.session == nil || m.profile == nil {
		return models.Session{}, models.Profile{}, ErrNoSession
	}
	return *m.session, m.profile.Clone(), nil
}

// commit пишет изменения в хранилище одной транзакцией, затем в память.
// nil session означает "сессия не меняется".
func (m *Manager) commit(ctx context.Context, session *models.Session, profile *models.Profile) error {
	entries := make(map[string][]byte, 2)

	if session != nil {
		data, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}
		entries[storage.KeySession] = data
	}
	if profile != nil {
		data, err := json.Marshal(profile)
		if err != nil {
			return fmt.Errorf("failed to marshal profile: %w", err)
		}
		entries[storage.KeyProfile] = data
	}

	if err := m.store.SetAll(ctx, entries); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	m.mu.Lock()
	if session != nil {
		s := *session
		m.session = &s
	}
	if profile != nil {
		p := profile.Clone()
		m.profile = &p
	}
	m.mu.Unlock()

	if session != nil {
		m.notify()
	}
	return nil
}

// clear удаляет сессию из хранилища, затем из памяти.
// Отмена ctx (например, Ctrl-C во время log-out) локальное удаление не прерывает.
func (m *Manager) clear(ctx context.Context) error {
	if err := m.store.RemoveAll(context.WithoutCancel(ctx), storage.KeySession, storage.KeyProfile); err != nil {
		return fmt.Errorf("failed to delete local session: %w", err)
	}

	m.mu.Lock()
	hadSession := m.session != nil
	m.session = nil
	m.profile = nil
	m.mu.Unlock()

	if hadSession {
		m.notify()
	}
	return nil
}

// Subscribe returns a channel that receives a value after every session
// change, and a function that cancels the subscription. Notifications are
// coalesced: a slow reader sees at least one signal after the last change.
func (m *Manager) Subscribe() (<-chan struct{}, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSubID
	m.nextSubID++
	ch := make(chan struct{}, 1)
	m.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subscribers, id)
			m.mu.Unlock()
		})
	}
	return ch, cancel
}

func (m *Manager) notify() {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, ch := range m.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
