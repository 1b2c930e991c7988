// Package guard decides whether protected content may be shown.
//
// Each evaluation starts in Pending, checks the current access token with the
// Credential Service and settles in Authenticated or Unauthenticated. Any
// answer other than HTTP 200 is a rejection and clears the session.
package guard

import (
	"context"
	"log/slog"
	"time"

	"github.com/iudanet/coursemanager/internal/client/apierror"
	"github.com/iudanet/coursemanager/internal/models"
)

// SignInPath - куда отправляется пользователь без сессии
const SignInPath = "/sign-in"

// State - состояние guard
type State int

const (
	Pending State = iota
	Authenticated
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Event - входное событие машины состояний
type Event int

const (
	// EventNoSession - в Auth Core нет сессии, сеть не нужна
	EventNoSession Event = iota
	// EventTokenAccepted - validate-access-token ответил 200
	EventTokenAccepted
	// EventTokenRejected - любой другой ответ или отсутствие ответа
	EventTokenRejected
	// EventReset - новая активация или смена сессии
	EventReset
)

// Transition is the guard's transition function. Terminal states only leave
// on EventReset; unexpected events keep the current state.
func Transition(s State, e Event) State {
	if e == EventReset {
		return Pending
	}
	if s != Pending {
		return s
	}
	switch e {
	case EventNoSession, EventTokenRejected:
		return Unauthenticated
	case EventTokenAccepted:
		return Authenticated
	default:
		return s
	}
}

// Outcome - что показать пользователю в данном состоянии
type Outcome int

const (
	ShowLoading Outcome = iota
	RenderProtected
	RedirectSignIn
)

func (o Outcome) String() string {
	switch o {
	case ShowLoading:
		return "loading"
	case RenderProtected:
		return "render"
	case RedirectSignIn:
		return "redirect " + SignInPath
	default:
		return "unknown"
	}
}

// Render maps a state to what the user sees.
func Render(s State) Outcome {
	switch s {
	case Authenticated:
		return RenderProtected
	case Unauthenticated:
		return RedirectSignIn
	default:
		return ShowLoading
	}
}

// SessionSource - часть Auth Core, нужная guard
type SessionSource interface {
	Session() (models.Session, bool)
	InvalidateToken(ctx context.Context, accessToken string) (bool, error)
	Subscribe() (<-chan struct{}, func())
}

// TokenValidator проверяет access token на сервере
type TokenValidator interface {
	ValidateAccessToken(ctx context.Context, accessToken string) error
}

// ValidationRecorder запоминает время последней успешной проверки
type ValidationRecorder interface {
	SaveLastValidated(ctx context.Context, timestamp int64) error
}

// Guard evaluates access to protected content.
type Guard struct {
	sessions  SessionSource
	validator TokenValidator
	recorder  ValidationRecorder
	logger    *slog.Logger
	now       func() time.Time
}

// Option настраивает Guard
type Option func(*Guard)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Guard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithRecorder stores the time of every accepted token check.
func WithRecorder(r ValidationRecorder) Option {
	return func(g *Guard) {
		g.recorder = r
	}
}

// New creates a Guard.
func New(sessions SessionSource, validator TokenValidator, opts ...Option) *Guard {
	g := &Guard{
		sessions:  sessions,
		validator: validator,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Evaluate runs one activation of the guard from Pending to a terminal state.
// If ctx is canceled while the token is being checked, Evaluate returns
// Pending and leaves the session alone.
func (g *Guard) Evaluate(ctx context.Context) State {
	state := Transition(Pending, EventReset)

	session, ok := g.sessions.Session()
	if !ok {
		return Transition(state, EventNoSession)
	}

	err := g.validator.ValidateAccessToken(ctx, session.AccessToken)
	if err == nil {
		g.record(ctx)
		return Transition(state, EventTokenAccepted)
	}

	// Проверку отменил сам вызывающий - это не ответ сервера
	if ctx.Err() != nil {
		return state
	}

	g.logger.InfoContext(ctx, "access token rejected",
		"kind", apierror.KindOf(err).String(),
		"status", apierror.StatusOf(err),
	)

	// Сессию сбрасываем только если за время проверки её не заменили
	if _, clearErr := g.sessions.InvalidateToken(ctx, session.AccessToken); clearErr != nil {
		g.logger.ErrorContext(ctx, "failed to clear rejected session", "error", clearErr)
	}
	return Transition(state, EventTokenRejected)
}

func (g *Guard) record(ctx context.Context) {
	if g.recorder == nil {
		return
	}
	if err := g.recorder.SaveLastValidated(ctx, g.now().Unix()); err != nil {
		g.logger.WarnContext(ctx, "failed to record token check", "error", err)
	}
}

// Watch evaluates the guard once and again after every session change until
// ctx is done. fn receives Pending before each evaluation, then the result.
func (g *Guard) Watch(ctx context.Context, fn func(State)) {
	changes, cancel := g.sessions.Subscribe()
	defer cancel()

	for {
		fn(Pending)
		state := g.Evaluate(ctx)
		if ctx.Err() != nil {
			return
		}
		fn(state)

		select {
		case <-ctx.Done():
			return
		case <-changes:
		}
	}
}
