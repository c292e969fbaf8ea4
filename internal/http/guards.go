package httpx

import (
	domainauth "github.com/campusarc/campusarc/internal/domain/auth"
	"github.com/campusarc/campusarc/internal/guard"
)

// GuardTargets holds the redirect surfaces consumed by the guard table. It
// mirrors the guard configuration so this package stays independent of the
// config package.
type GuardTargets struct {
	Login             string
	Unauthorized      string
	ProfileCompletion string
	DefaultLanding    string
	AdminLanding      string
}

// LandingFor builds the role-keyed landing table from guard targets.
func LandingFor(t GuardTargets) guard.LandingTargets {
	return guard.LandingTargets{
		ByRole: map[domainauth.Role]string{
			domainauth.RoleAdmin: t.AdminLanding,
		},
		Default: t.DefaultLanding,
	}
}

// RequireAnonymousGuard returns the guard for login/signup surfaces.
func RequireAnonymousGuard(landing guard.LandingTargets) guard.Guard {
	return guard.RequireAnonymous(landing)
}

// RequireAuthenticatedGuard returns the guard for authenticated-only surfaces.
func RequireAuthenticatedGuard(t GuardTargets) guard.Guard {
	return guard.RequireAuthenticated(t.Login)
}

// GuardedRoute binds a navigation path prefix to a guard.
type GuardedRoute struct {
	Prefix string
	Guard  guard.Guard
}

// BuildGuardTable constructs the navigation guard table for the portal
// surfaces. Longest-prefix match wins; paths without a matching entry are
// public. Order inside compositions matters: authentication, then profile
// completion on student surfaces, then permissions.
func BuildGuardTable(t GuardTargets) []GuardedRoute {
	landing := LandingFor(t)
	permTargets := guard.PermissionTargets{Login: t.Login, Unauthorized: t.Unauthorized}
	completion := guard.CompletionTargets{Login: t.Login, Completion: t.ProfileCompletion}

	return []GuardedRoute{
		{Prefix: "/login", Guard: guard.RequireAnonymous(landing)},
		{Prefix: "/signup", Guard: guard.RequireAnonymous(landing)},
		{Prefix: t.ProfileCompletion, Guard: guard.RequireAuthenticated(t.Login)},
		{Prefix: "/admin", Guard: guard.RequirePermission(permTargets, domainauth.PermissionViewAdminDashboard)},
		{Prefix: "/resources", Guard: guard.Compose(
			guard.RequireCompleteProfile(completion),
			guard.RequirePermission(permTargets, domainauth.PermissionViewResources),
		)},
		{Prefix: "/questions", Guard: guard.Compose(
			guard.RequireCompleteProfile(completion),
			guard.RequirePermission(permTargets, domainauth.PermissionViewQuestions),
		)},
		{Prefix: "/forum", Guard: guard.Compose(
			guard.RequireCompleteProfile(completion),
			guard.RequirePermission(permTargets, domainauth.PermissionPostForum),
		)},
	}
}
