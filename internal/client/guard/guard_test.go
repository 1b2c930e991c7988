package guard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/coursemanager/internal/client/apierror"
	"github.com/iudanet/coursemanager/internal/client/auth"
	"github.com/iudanet/coursemanager/internal/client/storage/memory"
	"github.com/iudanet/coursemanager/internal/models"
	"github.com/iudanet/coursemanager/pkg/api"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestTransition(t *testing.T) {
	tests := []struct {
		from  State
		event Event
		want  State
	}{
		{Pending, EventNoSession, Unauthenticated},
		{Pending, EventTokenAccepted, Authenticated},
		{Pending, EventTokenRejected, Unauthenticated},
		{Pending, EventReset, Pending},
		{Authenticated, EventReset, Pending},
		{Unauthenticated, EventReset, Pending},
		// терминальные состояния не реагируют на посторонние события
		{Authenticated, EventTokenRejected, Authenticated},
		{Unauthenticated, EventTokenAccepted, Unauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.from.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Transition(tt.from, tt.event))
		})
	}
}

func TestRender(t *testing.T) {
	assert.Equal(t, ShowLoading, Render(Pending))
	assert.Equal(t, RenderProtected, Render(Authenticated))
	assert.Equal(t, RedirectSignIn, Render(Unauthenticated))
	assert.Equal(t, "redirect /sign-in", RedirectSignIn.String())
	assert.Equal(t, "unknown", State(42).String())
}

// managerWith создаёт Auth Core с выполненным входом admin@x.com
func managerWith(t *testing.T, client *auth.CredentialClientMock) (*auth.Manager, *memory.Storage) {
	t.Helper()

	if client.SignInFunc == nil {
		client.SignInFunc = func(ctx context.Context, req api.SignInRequest) (*api.TokenResponse, error) {
			return &api.TokenResponse{AccessToken: "T1", RefreshToken: "R1"}, nil
		}
	}
	if client.GetUserFunc == nil {
		client.GetUserFunc = func(ctx context.Context, email, accessToken string) (*api.UserResponse, error) {
			return &api.UserResponse{ID: 1, Email: email, Roles: []models.Role{models.RoleAdmin}}, nil
		}
	}

	store := memory.New()
	m, err := auth.NewManager(context.Background(), client, store, auth.WithLogger(discardLogger))
	require.NoError(t, err)

	_, err = m.Login(context.Background(), "admin@x.com", "secret")
	require.NoError(t, err)
	return m, store
}

func TestGuard_Evaluate_NoSession(t *testing.T) {
	client := &auth.CredentialClientMock{}
	m, err := auth.NewManager(context.Background(), client, memory.New(), auth.WithLogger(discardLogger))
	require.NoError(t, err)

	g := New(m, client, WithLogger(discardLogger))

	assert.Equal(t, Unauthenticated, g.Evaluate(context.Background()))
	// Без сессии сеть не трогаем
	assert.Empty(t, client.ValidateAccessTokenCalls())
}

func TestGuard_Evaluate_TokenAccepted(t *testing.T) {
	client := &auth.CredentialClientMock{
		ValidateAccessTokenFunc: func(ctx context.Context, accessToken string) error {
			return nil
		},
	}
	m, store := managerWith(t, client)

	g := New(m, client, WithLogger(discardLogger), WithRecorder(store))
	g.now = func() time.Time { return time.Unix(1700000000, 0) }

	assert.Equal(t, Authenticated, g.Evaluate(context.Background()))

	require.Len(t, client.ValidateAccessTokenCalls(), 1)
	assert.Equal(t, "T1", client.ValidateAccessTokenCalls()[0].AccessToken)

	ts, err := store.GetLastValidated(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), ts)
}

func TestGuard_Evaluate_ExpiredTokenClearsSession(t *testing.T) {
	client := &auth.CredentialClientMock{
		ValidateAccessTokenFunc: func(ctx context.Context, accessToken string) error {
			return apierror.FromStatus("validate access token", http.StatusUnauthorized, "")
		},
	}
	m, store := managerWith(t, client)

	g := New(m, client, WithLogger(discardLogger))

	assert.Equal(t, Unauthenticated, g.Evaluate(context.Background()))

	_, ok := m.Session()
	assert.False(t, ok)
	_, ok = m.Profile()
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestGuard_Evaluate_FailClosed(t *testing.T) {
	tests := []struct {
		err  error
		name string
	}{
		{name: "server error", err: apierror.FromStatus("validate", http.StatusInternalServerError, "")},
		{name: "unavailable", err: apierror.FromStatus("validate", http.StatusServiceUnavailable, "")},
		{name: "no content", err: apierror.FromStatus("validate", http.StatusNoContent, "")},
		{name: "network", err: apierror.Network("validate", errors.New("connection refused"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &auth.CredentialClientMock{
				ValidateAccessTokenFunc: func(ctx context.Context, accessToken string) error {
					return tt.err
				},
			}
			m, store := managerWith(t, client)
			g := New(m, client, WithLogger(discardLogger))

			assert.Equal(t, Unauthenticated, g.Evaluate(context.Background()))
			assert.Equal(t, 0, store.Len())
		})
	}
}

func TestGuard_Evaluate_CanceledKeepsSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	client := &auth.CredentialClientMock{
		ValidateAccessTokenFunc: func(ctx context.Context, accessToken string) error {
			cancel()
			return apierror.Network("validate", ctx.Err())
		},
	}
	m, _ := managerWith(t, client)
	g := New(m, client, WithLogger(discardLogger))

	assert.Equal(t, Pending, g.Evaluate(ctx))

	_, ok := m.Session()
	assert.True(t, ok)
}

// staleSource возвращает старый токен, хотя сессия уже заменена
type staleSource struct {
	invalidated []string
}

func (s *staleSource) Session() (models.Session, bool) {
	return models.Session{AccessToken: "OLD"}, true
}

func (s *staleSource) InvalidateToken(ctx context.Context, accessToken string) (bool, error) {
	s.invalidated = append(s.invalidated, accessToken)
	return false, nil
}

func (s *staleSource) Subscribe() (<-chan struct{}, func()) {
	return make(chan struct{}), func() {}
}

func TestGuard_Evaluate_InvalidatesCheckedToken(t *testing.T) {
	src := &staleSource{}
	client := &auth.CredentialClientMock{
		ValidateAccessTokenFunc: func(ctx context.Context, accessToken string) error {
			return apierror.FromStatus("validate", http.StatusUnauthorized, "")
		},
	}
	g := New(src, client, WithLogger(discardLogger))

	assert.Equal(t, Unauthenticated, g.Evaluate(context.Background()))
	assert.Equal(t, []string{"OLD"}, src.invalidated)
}

func TestGuard_Watch_ReevaluatesOnSessionChange(t *testing.T) {
	client := &auth.CredentialClientMock{
		ValidateAccessTokenFunc: func(ctx context.Context, accessToken string) error {
			return nil
		},
		LogOutFunc: func(ctx context.Context, req api.LogOutRequest) error {
			return nil
		},
	}
	m, _ := managerWith(t, client)
	g := New(m, client, WithLogger(discardLogger))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu     sync.Mutex
		states []State
	)
	settled := make(chan State, 10)

	done := make(chan struct{})
	go func() {
		defer close(done)
		g.Watch(ctx, func(s State) {
			mu.Lock()
			states = append(states, s)
			mu.Unlock()
			if s != Pending {
				settled <- s
			}
		})
	}()

	select {
	case s := <-settled:
		assert.Equal(t, Authenticated, s)
	case <-time.After(time.Second):
		t.Fatal("guard did not settle")
	}

	require.NoError(t, m.Logout(context.Background()))

	select {
	case s := <-settled:
		assert.Equal(t, Unauthenticated, s)
	case <-time.After(time.Second):
		t.Fatal("guard did not re-evaluate after logout")
	}

	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, len(states), 4)
	// Перед каждой проверкой guard проходит через Pending
	assert.Equal(t, []State{Pending, Authenticated, Pending, Unauthenticated}, states[:4])
}
