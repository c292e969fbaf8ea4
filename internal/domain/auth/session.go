package auth

// Status describes the lifecycle phase of the process-wide session.
type Status string

const (
	// StatusRestoring is the initial status while an existing credential-store
	// session is being recovered. Authorization queries answer false and
	// guards block silently until restoration settles.
	StatusRestoring Status = "restoring"
	// StatusAuthenticated means a principal and a valid profile are resolved.
	StatusAuthenticated Status = "authenticated"
	// StatusUnauthenticated means no identity is established.
	StatusUnauthenticated Status = "unauthenticated"
)

// SessionState is the immutable read model exposed by the session manager.
// Snapshots are replaced whole, never mutated in place, so readers always see
// a consistent view.
type SessionState struct {
	Status      Status
	Principal   *Principal
	Profile     *Profile
	Permissions []Permission
}

// Restoring returns the initial snapshot.
func Restoring() *SessionState {
	return &SessionState{Status: StatusRestoring}
}

// Unauthenticated returns an empty signed-out snapshot.
func Unauthenticated() *SessionState {
	return &SessionState{Status: StatusUnauthenticated}
}

// IsAuthenticated reports whether the session holds a resolved identity.
func (s *SessionState) IsAuthenticated() bool {
	return s != nil && s.Status == StatusAuthenticated
}

// IsRestoring reports whether session restoration is still in flight.
func (s *SessionState) IsRestoring() bool {
	return s != nil && s.Status == StatusRestoring
}

// Role returns the active role, or the zero role when unauthenticated or
// still restoring. Callers must treat the zero role as "no permissions".
func (s *SessionState) Role() Role {
	if !s.IsAuthenticated() || s.Profile == nil {
		return ""
	}
	return s.Profile.Role
}

// ProfileCompleted reports whether the academic profile has been completed.
// It is false for anything other than an authenticated session.
func (s *SessionState) ProfileCompleted() bool {
	return s.IsAuthenticated() && s.Profile != nil && s.Profile.ProfileCompleted
}

// HasPermission reports whether the session holds the permission. It answers
// false deterministically while restoring: "unknown yet" is never "allowed".
func (s *SessionState) HasPermission(p Permission) bool {
	if !s.IsAuthenticated() {
		return false
	}
	for _, held := range s.Permissions {
		if held == p {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether the session holds at least one of the
// candidate permissions. False for an empty candidate list or permission set.
func (s *SessionState) HasAnyPermission(candidates ...Permission) bool {
	for _, p := range candidates {
		if s.HasPermission(p) {
			return true
		}
	}
	return false
}

// HasRole reports whether the active role is one of the candidates.
func (s *SessionState) HasRole(candidates ...Role) bool {
	role := s.Role()
	if role == "" {
		return false
	}
	for _, r := range candidates {
		if role == r {
			return true
		}
	}
	return false
}
