package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func authenticated(role Role, completed bool, perms ...Permission) *SessionState {
	return &SessionState{
		Status:    StatusAuthenticated,
		Principal: &Principal{ID: "p-1"},
		Profile: &Profile{
			ID:               "prof-1",
			PrincipalID:      "p-1",
			Username:         "ada",
			Role:             role,
			ProfileCompleted: completed,
		},
		Permissions: perms,
	}
}

func TestSessionState_StatusQueries(t *testing.T) {
	assert.True(t, Restoring().IsRestoring())
	assert.False(t, Restoring().IsAuthenticated())

	assert.False(t, Unauthenticated().IsRestoring())
	assert.False(t, Unauthenticated().IsAuthenticated())

	state := authenticated(RoleUser, true)
	assert.True(t, state.IsAuthenticated())
	assert.False(t, state.IsRestoring())
}

func TestSessionState_NilSafe(t *testing.T) {
	var state *SessionState

	assert.False(t, state.IsAuthenticated())
	assert.False(t, state.IsRestoring())
	assert.Equal(t, Role(""), state.Role())
	assert.False(t, state.ProfileCompleted())
	assert.False(t, state.HasPermission(PermissionViewResources))
	assert.False(t, state.HasRole(RoleAdmin))
}

func TestSessionState_QueriesFalseWhileRestoring(t *testing.T) {
	state := Restoring()

	assert.False(t, state.HasPermission(PermissionViewResources))
	assert.False(t, state.HasAnyPermission(PermissionViewResources, PermissionPostForum))
	assert.False(t, state.HasRole(RoleAdmin, RoleModerator, RoleEditor, RoleUser))
	assert.Equal(t, Role(""), state.Role())
	assert.False(t, state.ProfileCompleted())
}

func TestSessionState_HasPermission(t *testing.T) {
	state := authenticated(RoleUser, true, PermissionViewResources, PermissionPostForum)

	assert.True(t, state.HasPermission(PermissionViewResources))
	assert.False(t, state.HasPermission(PermissionManageRoles))
}

func TestSessionState_HasAnyPermission(t *testing.T) {
	state := authenticated(RoleUser, true, PermissionViewResources)

	assert.True(t, state.HasAnyPermission(PermissionManageRoles, PermissionViewResources))
	assert.False(t, state.HasAnyPermission(PermissionManageRoles, PermissionManageUniversities))
	assert.False(t, state.HasAnyPermission())
}

func TestSessionState_HasRole(t *testing.T) {
	state := authenticated(RoleModerator, true)

	assert.True(t, state.HasRole(RoleAdmin, RoleModerator))
	assert.False(t, state.HasRole(RoleAdmin, RoleEditor))
	assert.False(t, state.HasRole())
}

func TestSessionState_ProfileCompleted(t *testing.T) {
	assert.True(t, authenticated(RoleUser, true).ProfileCompleted())
	assert.False(t, authenticated(RoleUser, false).ProfileCompleted())
	assert.False(t, Unauthenticated().ProfileCompleted())
}
