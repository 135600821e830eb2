package models

// AuthorizationMode defines how the system behaves when no explicit permission is defined for an endpoint
type AuthorizationMode string

const (
	// AuthorizationModeFailClosed - Deny all access to undefined endpoints (most secure)
	AuthorizationModeFailClosed AuthorizationMode = "fail_closed"

	// AuthorizationModeFailOpenAdminSystem - Allow admin and system users, deny others
	AuthorizationModeFailOpenAdminSystem AuthorizationMode = "fail_open_admin_system"

	// AuthorizationModeFailOpenAdmin - Allow only admin users, deny others
	AuthorizationModeFailOpenAdmin AuthorizationMode = "fail_open_admin"
)

// Role represents user roles in the system. The admin role is a claim carried
// in the IdP token, checked once at the authorization boundary; there is no
// privileged account recognized by email address.
type Role string

const (
	RoleAdmin  Role = "Legalese_Admin"  // Full access to all resources
	RoleMember Role = "Legalese_Member" // Access to own resources and public endpoints
	RoleSystem Role = "Legalese_System" // System-level access for internal services
)

// Permission represents specific permissions
type Permission string

const (
	// Consultation permissions
	PermissionCreateConsultation   Permission = "consultation:create"
	PermissionReadConsultation     Permission = "consultation:read"
	PermissionReadAllConsultations Permission = "consultation:read:all"
	PermissionDecideConsultation   Permission = "consultation:decide"
	PermissionDeleteConsultation   Permission = "consultation:delete"

	// Notification permissions
	PermissionReadNotification   Permission = "notification:read"
	PermissionUpdateNotification Permission = "notification:update"
	PermissionDeleteNotification Permission = "notification:delete"

	// Template permissions
	PermissionReadTemplate     Permission = "template:read"
	PermissionDownloadTemplate Permission = "template:download"

	// Profile permissions
	PermissionReadProfile Permission = "profile:read"

	// Admin console permissions
	PermissionReadStats        Permission = "admin:stats:read"
	PermissionReadActivityLog  Permission = "admin:activity:read"
	PermissionReadSystemStatus Permission = "admin:system_status:read"
	PermissionListUsers        Permission = "admin:users:list"
	PermissionManageUsers      Permission = "admin:users:manage"
)

// RolePermissions defines what permissions each role has
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		// Admin has all permissions
		PermissionCreateConsultation, PermissionReadConsultation, PermissionReadAllConsultations,
		PermissionDecideConsultation, PermissionDeleteConsultation,
		PermissionReadNotification, PermissionUpdateNotification, PermissionDeleteNotification,
		PermissionReadTemplate, PermissionDownloadTemplate,
		PermissionReadProfile,
		PermissionReadStats, PermissionReadActivityLog, PermissionReadSystemStatus,
		PermissionListUsers, PermissionManageUsers,
	},
	RoleMember: {
		// Members can submit consultations and manage their own notifications
		PermissionCreateConsultation, PermissionReadConsultation,
		PermissionReadNotification, PermissionUpdateNotification, PermissionDeleteNotification,
		PermissionReadTemplate, PermissionDownloadTemplate,
		PermissionReadProfile,
	},
	RoleSystem: {
		// System role has broad read access for internal services
		PermissionReadConsultation, PermissionReadAllConsultations,
		PermissionReadNotification,
		PermissionReadTemplate,
		PermissionReadProfile,
		PermissionReadActivityLog, PermissionReadSystemStatus,
	},
}

// EndpointPermission defines the required permission for each endpoint
type EndpointPermission struct {
	Method              string
	Path                string
	Permission          Permission
	IsOwnershipRequired bool // Whether the user must own the resource
}

// EndpointPermissions maps HTTP endpoints to required permissions
var EndpointPermissions = []EndpointPermission{
	// Consultation endpoints. Listing is scoped in the handler: holders of
	// consultation:read:all see everything, members see their own rows.
	{"GET", "/api/v1/consultations", PermissionReadConsultation, false},
	{"POST", "/api/v1/consultations", PermissionCreateConsultation, false},
	{"GET", "/api/v1/consultations/*", PermissionReadConsultation, true},
	{"PUT", "/api/v1/consultations/*", PermissionDecideConsultation, false},
	{"DELETE", "/api/v1/consultations/*", PermissionDeleteConsultation, false},

	// Notification endpoints. The wildcard GET covers the realtime stream.
	{"GET", "/api/v1/notifications", PermissionReadNotification, true},
	{"GET", "/api/v1/notifications/*", PermissionReadNotification, true},
	{"PUT", "/api/v1/notifications/*", PermissionUpdateNotification, true},
	{"DELETE", "/api/v1/notifications/*", PermissionDeleteNotification, true},

	// Template endpoints
	{"GET", "/api/v1/templates", PermissionReadTemplate, false},
	{"GET", "/api/v1/templates/*", PermissionReadTemplate, false},
	{"POST", "/api/v1/templates/*", PermissionDownloadTemplate, false},

	// Profile endpoint
	{"GET", "/api/v1/me", PermissionReadProfile, false},

	// Admin console endpoints
	{"GET", "/api/v1/admin/stats", PermissionReadStats, false},
	{"GET", "/api/v1/admin/activity", PermissionReadActivityLog, false},
	{"GET", "/api/v1/admin/system-status", PermissionReadSystemStatus, false},
	{"GET", "/api/v1/admin/users", PermissionListUsers, false},
	{"POST", "/api/v1/admin/users", PermissionManageUsers, false},
	{"PUT", "/api/v1/admin/users/*", PermissionManageUsers, false},
}

// HasPermission checks if a role has a specific permission
func (r Role) HasPermission(permission Permission) bool {
	permissions, exists := RolePermissions[r]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	_, exists := RolePermissions[r]
	return exists
}
