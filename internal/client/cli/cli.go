package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/iudanet/coursemanager/internal/client/apierror"
	"github.com/iudanet/coursemanager/internal/client/auth"
	"github.com/iudanet/coursemanager/internal/client/guard"
	"github.com/iudanet/coursemanager/internal/client/iocli"
	"github.com/iudanet/coursemanager/internal/client/storage"
)

// PasswordEnv - переменная окружения с паролем для неинтерактивного входа
const PasswordEnv = "COURSEMANAGER_PASSWORD"

var (
	// ErrUnauthenticated - guard не пустил к защищённой команде
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrUnknownCommand - команда не распознана
	ErrUnknownCommand = errors.New("unknown command")
)

// PasswordSources - откуда брать пароль, кроме интерактивного ввода
type PasswordSources struct {
	FromFile string
	FromArgs string
}

type Cli struct {
	io      iocli.IO
	manager *auth.Manager
	guard   *guard.Guard
	meta    storage.MetadataStorage
	getenv  func(string) string
}

// Option настраивает Cli
type Option func(*Cli)

// WithMetadata enables the "last checked" line in status.
func WithMetadata(meta storage.MetadataStorage) Option {
	return func(c *Cli) {
		c.meta = meta
	}
}

// WithGetenv replaces os.Getenv.
func WithGetenv(getenv func(string) string) Option {
	return func(c *Cli) {
		c.getenv = getenv
	}
}

func New(io iocli.IO, manager *auth.Manager, g *guard.Guard, opts ...Option) *Cli {
	c := &Cli{
		io:      io,
		manager: manager,
		guard:   g,
		getenv:  os.Getenv,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getPassword retrieves the sign-in password with priority:
// 1. Environment variable COURSEMANAGER_PASSWORD
// 2. File given by --password-file
// 3. --password parameter
// 4. Interactive prompt (fallback)
func (c *Cli) getPassword(sources PasswordSources) (string, error) {
	if envPassword := c.getenv(PasswordEnv); envPassword != "" {
		return envPassword, nil
	}

	if sources.FromFile != "" {
		content, err := os.ReadFile(sources.FromFile)
		if err != nil {
			return "", fmt.Errorf("failed to read password file: %w", err)
		}
		// Убираем trailing newline/whitespace
		password := strings.TrimSpace(string(content))
		if password == "" {
			return "", fmt.Errorf("password file is empty")
		}
		return password, nil
	}

	if sources.FromArgs != "" {
		return sources.FromArgs, nil
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	return password, nil
}

// protected повторяет поведение защищённого маршрута: проверяет токен
// и пускает дальше только в состоянии Authenticated
func (c *Cli) protected(ctx context.Context) error {
	state := c.guard.Evaluate(ctx)
	switch guard.Render(state) {
	case guard.RenderProtected:
		return nil
	case guard.RedirectSignIn:
		c.io.Printf("Session is not valid. Please sign in (%s).\n", guard.SignInPath)
		return ErrUnauthenticated
	default:
		return fmt.Errorf("access check interrupted: %w", ctx.Err())
	}
}

// displayError - ошибка с текстом для пользователя и исходной причиной
type displayError struct {
	err error
	msg string
}

func (e *displayError) Error() string { return e.msg }
func (e *displayError) Unwrap() error { return e.err }

// explain превращает ошибку в сообщение, которое можно показать пользователю
func explain(err error, message func(error) string) error {
	if err == nil {
		return nil
	}

	var apiErr *apierror.Error
	switch {
	case errors.As(err, &apiErr):
		return &displayError{err: err, msg: message(err)}
	case errors.Is(err, auth.ErrInvalidInput):
		return err
	case errors.Is(err, auth.ErrNoRoles):
		return &displayError{err: err, msg: "Your account has no roles assigned. Contact an administrator."}
	case errors.Is(err, auth.ErrNoSession):
		return &displayError{err: err, msg: "Not signed in. Run 'coursemanager login' first."}
	default:
		return &displayError{err: err, msg: apierror.GenericMessage}
	}
}

func PrintUsage(io iocli.IO) {
	io.Println("Course Manager Client")
	io.Println()
	io.Println("Usage:")
	io.Println("  coursemanager [OPTIONS] COMMAND [ARGS]")
	io.Println()
	io.Println("Options:")
	io.Println("  --version             Show version information")
	io.Println("  --server URL          Server URL (default: http://localhost:8080)")
	io.Println("  --db PATH             Path to local session database, :memory: for none")
	io.Println("  --config PATH         YAML config file")
	io.Println("  --log-level LEVEL     debug, info, warn, error (default: warn)")
	io.Println("  --log-format FORMAT   text or json")
	io.Println("  --timeout DURATION    HTTP request timeout (default: 30s)")
	io.Println()
	io.Println("Commands:")
	io.Println("  register              Create an account and sign in")
	io.Println("  login                 Sign in")
	io.Println("  logout                Sign out and delete the local session")
	io.Println("  status                Show local session status")
	io.Println("  check                 Validate the access token with the server")
	io.Println("  whoami [--refresh]    Show the signed-in profile")
	io.Println("  profile [--name N] [--email E] [--phone P]")
	io.Println("                        Update the profile")
	io.Println("  passwd                Change the password")
	io.Println()
	io.Println("Login options:")
	io.Println("  --email EMAIL         Email (prompted if empty)")
	io.Println("  --password-file PATH  Read password from file")
	io.Println("  --password PASSWORD   Password (not recommended)")
	io.Println()
	io.Println("Environment:")
	io.Println("  COURSEMANAGER_SERVER, COURSEMANAGER_DB, COURSEMANAGER_LOG_LEVEL,")
	io.Println("  COURSEMANAGER_STORE_PASSPHRASE (encrypt the local session),")
	io.Println("  COURSEMANAGER_PASSWORD (sign-in password)")
	io.Println()
	io.Println("Examples:")
	io.Println("  coursemanager login --email admin@example.com")
	io.Println("  coursemanager --server https://example.com check")
	io.Println("  coursemanager profile --phone 0123456789")
}
