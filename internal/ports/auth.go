package ports

// Package ports defines interfaces (hexagonal ports) for the session and RBAC
// core. Implementations live in internal/adapters; orchestration in
// internal/service.

import (
	"context"

	domainauth "github.com/campusarc/campusarc/internal/domain/auth"
)

// CredentialStore wraps the external identity provider. It owns principals
// and credential-store sessions; the application only consumes them.
type CredentialStore interface {
	// CreateSession establishes a credential-store session for the given
	// email/password pair.
	CreateSession(ctx context.Context, email, password string) error

	// DestroySession tears down the current credential-store session.
	// Implementations return an unauthenticated error when no session exists.
	DestroySession(ctx context.Context) error

	// CurrentPrincipal returns the principal bound to the current session.
	// Returns an unauthenticated error when no session exists and an
	// unavailable error on transport failure.
	CurrentPrincipal(ctx context.Context) (domainauth.Principal, error)

	// CreatePrincipal registers a new identity with the provider. It does not
	// establish a session.
	CreatePrincipal(ctx context.Context, email, password, name string) (domainauth.Principal, error)
}

// ProfilePatch carries a partial profile update. Nil fields are left
// untouched by the repository.
type ProfilePatch struct {
	Scope            *domainauth.AcademicScope
	ProfileCompleted *bool
	Role             *domainauth.Role
}

// ProfileRepository persists and retrieves the application-owned profile
// record keyed by principal id.
type ProfileRepository interface {
	// FindByPrincipalID returns the profile for a principal, or a not-found
	// error when zero documents match.
	FindByPrincipalID(ctx context.Context, principalID string) (domainauth.Profile, error)

	// FindByUsername returns the profile holding a username, or a not-found
	// error. Used for availability probing during allocation.
	FindByUsername(ctx context.Context, username string) (domainauth.Profile, error)

	// Create inserts a new profile and returns the stored document.
	// Duplicate principal ids or usernames yield a conflict error.
	Create(ctx context.Context, profile domainauth.Profile) (domainauth.Profile, error)

	// UpdateFields applies a partial update and returns the stored document
	// as persisted, so callers can mirror it without a refetch.
	UpdateFields(ctx context.Context, profileID string, patch ProfilePatch) (domainauth.Profile, error)
}

// UsernameAllocator produces a unique, available username derived from a seed
// display name, or fails after bounded attempts.
type UsernameAllocator interface {
	Generate(ctx context.Context, seedName string) (string, error)
}
