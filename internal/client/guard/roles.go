package guard

import (
	"errors"
	"fmt"

	"github.com/iudanet/coursemanager/internal/models"
)

// Стартовые страницы по ролям
const (
	AdminPath = "/admin"
	UserPath  = "/user"
)

var (
	// ErrUnknownRole - у профиля нет ни одной известной роли
	ErrUnknownRole = errors.New("unknown role")
	// ErrForbidden - у профиля нет требуемой роли
	ErrForbidden = errors.New("role not permitted")
)

// LandingPath returns where a signed-in user starts. ADMIN wins over USER.
func LandingPath(p models.Profile) (string, error) {
	switch {
	case p.HasRole(models.RoleAdmin):
		return AdminPath, nil
	case p.HasRole(models.RoleUser):
		return UserPath, nil
	default:
		return "", fmt.Errorf("%w: %v", ErrUnknownRole, p.Roles)
	}
}

// RequireRole checks that p carries role.
func RequireRole(p models.Profile, role models.Role) error {
	if !p.HasRole(role) {
		return fmt.Errorf("%w: %s required", ErrForbidden, role)
	}
	return nil
}
