package constvars

const (
	RoleAdmin          = "admin"
	RoleProviderStaff  = "provider_staff"
	RoleSuperadmin     = "superadmin"
	APIKeySuperadminID = "api-key-superadmin"
)
