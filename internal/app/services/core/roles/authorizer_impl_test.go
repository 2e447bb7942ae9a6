package roles

import (
	"testing"

	"medmarket-service/internal/pkg/constvars"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizer(t *testing.T) {
	authorizer, err := NewAuthorizer()
	require.NoError(t, err)

	tests := []struct {
		name    string
		role    string
		method  string
		path    string
		allowed bool
	}{
		{"admin creates catalog item", constvars.RoleAdmin, "POST", "/catalog", true},
		{"admin reviews provider", constvars.RoleAdmin, "PUT", "/providers/p-1/review", true},
		{"admin lists users", constvars.RoleAdmin, "GET", "/admin/users", true},
		{"admin reviews prescription", constvars.RoleAdmin, "PUT", "/admin/prescriptions/rx-1/review", true},
		{"admin moves order", constvars.RoleAdmin, "PUT", "/back-office/orders/o-1/status", true},
		{"admin cannot manage offerings", constvars.RoleAdmin, "POST", "/back-office/offerings", false},
		{"superadmin inherits admin", constvars.RoleSuperadmin, "GET", "/admin/prescriptions", true},
		{"staff manages offerings", constvars.RoleProviderStaff, "DELETE", "/back-office/offerings/item-1", true},
		{"staff registers device", constvars.RoleProviderStaff, "POST", "/back-office/device-tokens", true},
		{"staff cannot reach admin", constvars.RoleProviderStaff, "GET", "/admin/users", false},
		{"staff cannot create catalog item", constvars.RoleProviderStaff, "POST", "/catalog", false},
		{"unknown role", "guest", "GET", "/back-office/orders", false},
		{"empty role", "", "GET", "/back-office/orders", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, err := authorizer.IsAllowed(tt.role, tt.path, tt.method)
			require.NoError(t, err)
			assert.Equal(t, tt.allowed, allowed)
		})
	}
}
