package authz

// Package authz holds the canonical role to permission table. The table is
// the single source of truth for authorization; every permission decision in
// the application is derived from it via PermissionsFor.

import (
	domainauth "github.com/campusarc/campusarc/internal/domain/auth"
)

// rolePermissions is the canonical mapping. Broader roles list their grants
// explicitly rather than inheriting, so the table reads as the full policy.
var rolePermissions = map[domainauth.Role][]domainauth.Permission{
	domainauth.RoleAdmin: {
		domainauth.PermissionViewAdminDashboard,
		domainauth.PermissionManageUniversities,
		domainauth.PermissionManagePrograms,
		domainauth.PermissionManageSyllabus,
		domainauth.PermissionManageResources,
		domainauth.PermissionManageQuestions,
		domainauth.PermissionManageRoles,
		domainauth.PermissionModerateForum,
		domainauth.PermissionViewResources,
		domainauth.PermissionViewQuestions,
		domainauth.PermissionPostForum,
	},
	domainauth.RoleModerator: {
		domainauth.PermissionManageResources,
		domainauth.PermissionManageQuestions,
		domainauth.PermissionModerateForum,
		domainauth.PermissionViewResources,
		domainauth.PermissionViewQuestions,
		domainauth.PermissionPostForum,
	},
	domainauth.RoleEditor: {
		domainauth.PermissionManageResources,
		domainauth.PermissionManageQuestions,
		domainauth.PermissionViewResources,
		domainauth.PermissionViewQuestions,
		domainauth.PermissionPostForum,
	},
	domainauth.RoleUser: {
		domainauth.PermissionViewResources,
		domainauth.PermissionViewQuestions,
		domainauth.PermissionPostForum,
	},
}

// PermissionsFor returns the permission set for a role. Unknown or empty
// roles map to the empty set: authorization fails closed, never open.
func PermissionsFor(role domainauth.Role) []domainauth.Permission {
	perms, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	out := make([]domainauth.Permission, len(perms))
	copy(out, perms)
	return out
}
