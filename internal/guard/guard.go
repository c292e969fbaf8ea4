package guard

// Package guard provides composable, pure decision functions gating
// navigation on session state. Guards never perform I/O and never fail open:
// any uncertainty degrades to the most restrictive decision.

import (
	domainauth "github.com/campusarc/campusarc/internal/domain/auth"
)

// Action is the kind of decision a guard produces.
type Action string

const (
	// ActionRender allows the requested surface to render.
	ActionRender Action = "render"
	// ActionRedirect sends the client to Decision.Target.
	ActionRedirect Action = "redirect"
	// ActionBlock renders nothing. Used while the session is still
	// restoring to avoid a flash of wrong content.
	ActionBlock Action = "block"
)

// Decision is a guard outcome. Redirect decisions carry the exact target and
// the originally requested location so it can be replayed afterwards.
type Decision struct {
	Action Action
	Target string
	// From is the originally requested location, preserved across login and
	// profile-completion redirects for post-completion replay.
	From string
}

// Render allows rendering.
func Render() Decision { return Decision{Action: ActionRender} }

// Block renders nothing.
func Block() Decision { return Decision{Action: ActionBlock} }

// RedirectTo redirects to target, preserving the originally requested location.
func RedirectTo(target, from string) Decision {
	return Decision{Action: ActionRedirect, Target: target, From: from}
}

// Guard is a pure decision function over the current session state and the
// originally requested location.
type Guard func(state *domainauth.SessionState, requested string) Decision

// LandingTargets resolves the post-login landing surface for a role.
type LandingTargets struct {
	ByRole  map[domainauth.Role]string
	Default string
}

// For returns the landing target for a role.
func (l LandingTargets) For(role domainauth.Role) string {
	if target, ok := l.ByRole[role]; ok {
		return target
	}
	return l.Default
}

// PermissionTargets holds the redirect surfaces for permission guards. Login
// and Unauthorized are deliberately distinct: the unauthorized surface tells
// the user they are signed in but not allowed.
type PermissionTargets struct {
	Login        string
	Unauthorized string
}

// RequireAuthenticated gates a surface on an established session. Restoring
// blocks; unauthenticated redirects to the login surface carrying the
// requested location; authenticated renders.
func RequireAuthenticated(loginTarget string) Guard {
	return func(state *domainauth.SessionState, requested string) Decision {
		switch {
		case state.IsRestoring():
			return Block()
		case state.IsAuthenticated():
			return Render()
		default:
			return RedirectTo(loginTarget, requested)
		}
	}
}

// RequireAnonymous is the reverse guard for login/signup surfaces. An
// authenticated session is redirected away to its role's landing target;
// anything else (except restoring) renders.
func RequireAnonymous(landing LandingTargets) Guard {
	return func(state *domainauth.SessionState, _ string) Decision {
		switch {
		case state.IsRestoring():
			return Block()
		case state.IsAuthenticated():
			return Decision{Action: ActionRedirect, Target: landing.For(state.Role())}
		default:
			return Render()
		}
	}
}

// RequirePermission gates a surface on holding ANY of the required
// permissions, not all of them. A session lacking every candidate is sent to
// the unauthorized surface, never silently shown an empty page, and never
// confused with the login redirect. An empty candidate list only requires
// authentication.
func RequirePermission(targets PermissionTargets, required ...domainauth.Permission) Guard {
	return func(state *domainauth.SessionState, requested string) Decision {
		switch {
		case state.IsRestoring():
			return Block()
		case !state.IsAuthenticated():
			return RedirectTo(targets.Login, requested)
		case len(required) > 0 && !state.HasAnyPermission(required...):
			return RedirectTo(targets.Unauthorized, requested)
		default:
			return Render()
		}
	}
}

// CompletionTargets holds the redirect surfaces for the profile-completion
// guard.
type CompletionTargets struct {
	Login      string
	Completion string
}

// RequireCompleteProfile redirects authenticated sessions with an incomplete
// academic profile to the completion surface, preserving the requested
// location. Compose it before permission guards on user-scoped routes:
// elevated roles may hold permissions without any academic scope.
func RequireCompleteProfile(targets CompletionTargets) Guard {
	return func(state *domainauth.SessionState, requested string) Decision {
		switch {
		case state.IsRestoring():
			return Block()
		case !state.IsAuthenticated():
			return RedirectTo(targets.Login, requested)
		case !state.ProfileCompleted():
			return RedirectTo(targets.Completion, requested)
		default:
			return Render()
		}
	}
}

// Compose runs guards in order and returns the first non-render decision.
// Order matters: authentication, then profile completion on user-scoped
// routes, then permissions.
func Compose(guards ...Guard) Guard {
	return func(state *domainauth.SessionState, requested string) Decision {
		for _, g := range guards {
			if d := g(state, requested); d.Action != ActionRender {
				return d
			}
		}
		return Render()
	}
}
