package auth

// Package auth contains domain-level types for identity, profiles, and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"errors"
	"strings"
	"time"
)

// Role represents an application's authorization role.
// Keep string form for easy persistence and wire encoding.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleEditor    Role = "editor"
	RoleUser      Role = "user"
)

// Valid reports whether the role is a member of the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleEditor, RoleUser:
		return true
	default:
		return false
	}
}

// ParseRole normalizes a role string and reports whether it is supported.
// Unrecognized strings (including legacy short forms like "mod") are rejected,
// never coerced to a valid role.
func ParseRole(value string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	if role.Valid() {
		return role, true
	}
	return "", false
}

// Principal represents the identity record issued by the credential store.
// Adapters map provider-specific account payloads into this shape. The
// application never mutates a principal; it only caches it for the session.
type Principal struct {
	ID    string
	Email string
	Name  string
}

// AcademicScope holds the optional academic placement of a profile.
// All references point at documents owned by the wider portal; this core only
// carries them for identity scoping.
type AcademicScope struct {
	UniversityID string `json:"university_id,omitempty"`
	ProgramID    string `json:"program_id,omitempty"`
	BranchID     string `json:"branch_id,omitempty"`
}

// Empty reports whether no academic scope field is set.
func (s AcademicScope) Empty() bool {
	return s.UniversityID == "" && s.ProgramID == "" && s.BranchID == ""
}

// Profile is the authoritative per-user record keyed by principal id.
type Profile struct {
	ID               string        `json:"id"`
	PrincipalID      string        `json:"principal_id"`
	Username         string        `json:"username"`
	Role             Role          `json:"role"`
	Scope            AcademicScope `json:"scope"`
	ProfileCompleted bool          `json:"profile_completed"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// Integrity sentinels returned by Profile.Validate. A profile failing these is
// corrupt upstream data, distinct from a plain "not logged in" condition.
var (
	ErrMissingUsername = errors.New("profile username is missing")
	ErrMissingRole     = errors.New("profile role is missing")
	ErrUnknownRole     = errors.New("profile role is not a recognized role")
)

// Validate checks the hard profile invariants. A profile without a username or
// with an absent/unrecognized role must never be treated as a valid identity;
// in particular the role is never defaulted.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.Username) == "" {
		return ErrMissingUsername
	}
	if p.Role == "" {
		return ErrMissingRole
	}
	if !p.Role.Valid() {
		return ErrUnknownRole
	}
	return nil
}
