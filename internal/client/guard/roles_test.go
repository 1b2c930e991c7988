package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/coursemanager/internal/models"
)

func TestLandingPath(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr error
		roles   []models.Role
	}{
		{name: "admin", roles: []models.Role{models.RoleAdmin}, want: AdminPath},
		{name: "user", roles: []models.Role{models.RoleUser}, want: UserPath},
		{name: "both", roles: []models.Role{models.RoleUser, models.RoleAdmin}, want: AdminPath},
		{name: "unknown", roles: []models.Role{"GUEST"}, wantErr: ErrUnknownRole},
		{name: "none", wantErr: ErrUnknownRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := LandingPath(models.Profile{Email: "a@x.com", Roles: tt.roles})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, path)
		})
	}
}

func TestRequireRole(t *testing.T) {
	p := models.Profile{Roles: []models.Role{models.RoleUser}}

	assert.NoError(t, RequireRole(p, models.RoleUser))
	assert.ErrorIs(t, RequireRole(p, models.RoleAdmin), ErrForbidden)
}
