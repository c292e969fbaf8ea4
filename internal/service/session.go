package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	domainauth "github.com/campusarc/campusarc/internal/domain/auth"
	"github.com/campusarc/campusarc/internal/domain/authz"
	apperrors "github.com/campusarc/campusarc/internal/errors"
	"github.com/campusarc/campusarc/internal/ports"
)

// SessionManagerOptions groups dependencies for SessionManager.
type SessionManagerOptions struct {
	Credentials ports.CredentialStore
	Profiles    ports.ProfileRepository
	Usernames   ports.UsernameAllocator
	Logger      *slog.Logger
}

// SessionManager is the single authoritative owner of authentication and
// authorization state for the process lifetime. All reads go through Current
// and the query helpers; all writes go through the named operations. The
// snapshot is replaced whole on every transition, so readers never observe a
// torn write.
type SessionManager struct {
	credentials ports.CredentialStore
	profiles    ports.ProfileRepository
	usernames   ports.UsernameAllocator
	logger      *slog.Logger

	state atomic.Pointer[domainauth.SessionState]

	// mu serializes mutating operations. They are user-triggered and not
	// expected to overlap, but an overlapping call must observe consistent
	// pre/post state rather than corrupt it.
	mu sync.Mutex

	// restore runs at most once per process; concurrent callers collapse to
	// the single in-flight attempt and share its result.
	restoreGroup   singleflight.Group
	restoreSettled atomic.Bool
}

// NewSessionManager constructs a SessionManager in the Restoring state.
func NewSessionManager(opts SessionManagerOptions) *SessionManager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := &SessionManager{
		credentials: opts.Credentials,
		profiles:    opts.Profiles,
		usernames:   opts.Usernames,
		logger:      logger,
	}
	m.state.Store(domainauth.Restoring())
	return m
}

// Current returns the active session snapshot. The snapshot is immutable;
// callers must not modify it.
func (m *SessionManager) Current() *domainauth.SessionState {
	return m.state.Load()
}

// HasPermission reports whether the current session holds the permission.
// Deterministically false while restoring.
func (m *SessionManager) HasPermission(p domainauth.Permission) bool {
	return m.Current().HasPermission(p)
}

// HasAnyPermission reports whether the current session holds at least one of
// the candidate permissions.
func (m *SessionManager) HasAnyPermission(candidates ...domainauth.Permission) bool {
	return m.Current().HasAnyPermission(candidates...)
}

// HasRole reports whether the current session's role is one of the candidates.
func (m *SessionManager) HasRole(candidates ...domainauth.Role) bool {
	return m.Current().HasRole(candidates...)
}

// Restore attempts to recover an existing credential-store session. It runs
// the resolution at most once per process lifetime; concurrent and repeated
// calls observe the settled snapshot. Having no session is the expected
// signed-out case and returns a nil error; integrity violations and transport
// failures settle the session to Unauthenticated and surface as typed errors.
func (m *SessionManager) Restore(ctx context.Context) (*domainauth.SessionState, error) {
	if m.restoreSettled.Load() {
		return m.Current(), nil
	}

	type restoreResult struct {
		state *domainauth.SessionState
		err   error
	}

	v, _, _ := m.restoreGroup.Do("restore", func() (any, error) {
		if m.restoreSettled.Load() {
			return restoreResult{state: m.Current()}, nil
		}

		state, err := m.resolveCurrentPrincipal(ctx)
		switch {
		case err == nil:
			m.state.Store(state)
		case apperrors.IsUnauthenticated(err):
			// Never logged in: expected, not an error.
			m.state.Store(domainauth.Unauthenticated())
			err = nil
		default:
			// Integrity violation or transport failure: fail closed and
			// surface the typed error to the caller.
			m.state.Store(domainauth.Unauthenticated())
		}
		m.restoreSettled.Store(true)
		return restoreResult{state: m.Current(), err: err}, nil
	})

	res := v.(restoreResult)
	return res.state, res.err
}

// Login establishes an authenticated session for the given credentials. An
// existing credential-store session is reused; otherwise one is created. The
// full profile resolution and invariant checks run either way. On any failure
// the session keeps its prior state: a principal without a valid profile is
// never exposed as authenticated.
func (m *SessionManager) Login(ctx context.Context, email, password string) (*domainauth.SessionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, err := m.resolveCurrentPrincipal(ctx)
	if err != nil && apperrors.IsUnauthenticated(err) {
		if err = m.credentials.CreateSession(ctx, email, password); err != nil {
			return nil, wrapOp(err, "create credential session")
		}
		state, err = m.resolveCurrentPrincipal(ctx)
	}
	if err != nil {
		return nil, err
	}

	m.state.Store(state)
	m.restoreSettled.Store(true)
	return state, nil
}

// SignupInput groups parameters for Signup. There is deliberately no role
// field: the role of a new profile is fixed server-side and never
// client-controlled.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Scope    domainauth.AcademicScope
}

// Signup registers a new principal and its profile, then establishes a
// session. The sequence has no compensating transaction: if profile creation
// fails after the principal exists, the orphaned principal id is logged for
// operator reconciliation and the failure is surfaced; it is never silently
// treated as authenticated.
func (m *SessionManager) Signup(ctx context.Context, in SignupInput) (*domainauth.SessionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Best-effort teardown of any stale session. "No session" is the normal
	// case and ignored.
	if err := m.credentials.DestroySession(ctx); err != nil && !apperrors.IsUnauthenticated(err) {
		m.logger.DebugContext(ctx, "stale session teardown failed", "error", err)
	}

	principal, err := m.credentials.CreatePrincipal(ctx, in.Email, in.Password, in.Name)
	if err != nil {
		return nil, wrapOp(err, "create principal")
	}

	username, err := m.usernames.Generate(ctx, in.Name)
	if err != nil {
		m.abandonPrincipal(ctx, principal.ID, "allocate username", err)
		return nil, wrapOp(err, "allocate username")
	}

	profile, err := m.profiles.Create(ctx, domainauth.Profile{
		PrincipalID:      principal.ID,
		Username:         username,
		Role:             domainauth.RoleUser,
		Scope:            in.Scope,
		ProfileCompleted: true,
	})
	if err != nil {
		m.abandonPrincipal(ctx, principal.ID, "create profile", err)
		return nil, wrapOp(err, "create profile")
	}

	if err := m.credentials.CreateSession(ctx, in.Email, in.Password); err != nil {
		// Principal and profile exist; the user can log in later.
		return nil, wrapOp(err, "create credential session")
	}

	state := authenticatedState(principal, profile)
	m.state.Store(state)
	m.restoreSettled.Store(true)
	return state, nil
}

// CompleteAcademicProfile fills in the academic scope of the current profile
// and marks it completed. The in-memory snapshot is updated from the document
// the repository returns, so the optimistic update mirrors exactly what was
// persisted.
func (m *SessionManager) CompleteAcademicProfile(ctx context.Context, scope domainauth.AcademicScope) (*domainauth.SessionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur := m.Current()
	if !cur.IsAuthenticated() || cur.Profile == nil {
		return nil, apperrors.Unauthenticated("no authenticated session")
	}

	completed := true
	updated, err := m.profiles.UpdateFields(ctx, cur.Profile.ID, ports.ProfilePatch{
		Scope:            &scope,
		ProfileCompleted: &completed,
	})
	if err != nil {
		return nil, wrapOp(err, "update academic profile")
	}

	state := authenticatedState(*cur.Principal, updated)
	m.state.Store(state)
	return state, nil
}

// ChangeRole updates another profile's role. The caller's session must hold
// the manage:roles permission. Returns the stored profile; the target user's
// permissions change on their next recomputation, with no revocation step.
func (m *SessionManager) ChangeRole(ctx context.Context, profileID string, role domainauth.Role) (domainauth.Profile, error) {
	if !m.HasPermission(domainauth.PermissionManageRoles) {
		return domainauth.Profile{}, apperrors.Unauthenticated("role changes require the manage:roles permission")
	}
	if !role.Valid() {
		return domainauth.Profile{}, apperrors.ValidationField("role", fmt.Sprintf("unknown role %q", role))
	}

	updated, err := m.profiles.UpdateFields(ctx, profileID, ports.ProfilePatch{Role: &role})
	if err != nil {
		return domainauth.Profile{}, wrapOp(err, "update role")
	}
	return updated, nil
}

// Logout destroys the credential-store session and unconditionally clears the
// in-memory session. A failed remote destroy is logged, not retried: local
// state must never remain authenticated after a user-initiated logout.
func (m *SessionManager) Logout(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.credentials.DestroySession(ctx); err != nil && !apperrors.IsUnauthenticated(err) {
		m.logger.WarnContext(ctx, "remote session destroy failed", "error", err)
	}
	m.state.Store(domainauth.Unauthenticated())
	m.restoreSettled.Store(true)
}

// resolveCurrentPrincipal fetches the current principal and resolves its
// profile, enforcing the profile invariants before anything is exposed as
// authenticated. Errors are typed: unauthenticated (no session), integrity
// (profile missing or invalid), unavailable (transport).
func (m *SessionManager) resolveCurrentPrincipal(ctx context.Context) (*domainauth.SessionState, error) {
	principal, err := m.credentials.CurrentPrincipal(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := m.profiles.FindByPrincipalID(ctx, principal.ID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			m.logger.ErrorContext(ctx, "profile missing for principal", "principal_id", principal.ID)
			return nil, apperrors.Integrity(principal.ID, "profile missing for principal")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "fetch profile")
	}

	if err := profile.Validate(); err != nil {
		m.logger.ErrorContext(ctx, "profile integrity violation",
			"principal_id", principal.ID,
			"profile_id", profile.ID,
			"error", err,
		)
		appErr := apperrors.Wrap(err, apperrors.ErrCodeIntegrity, "profile integrity violation")
		appErr.PrincipalID = principal.ID
		return nil, appErr
	}

	return authenticatedState(principal, profile), nil
}

// abandonPrincipal records a principal left without a profile after a partial
// signup. Reconciliation is an operator task; see DESIGN.md.
func (m *SessionManager) abandonPrincipal(ctx context.Context, principalID, step string, cause error) {
	m.logger.ErrorContext(ctx, "orphaned_principal: signup failed after principal creation",
		"principal_id", principalID,
		"failed_step", step,
		"error", cause,
	)
	if err := m.credentials.DestroySession(ctx); err != nil && !apperrors.IsUnauthenticated(err) {
		m.logger.DebugContext(ctx, "post-failure session teardown failed", "error", err)
	}
}

// wrapOp wraps a port error preserving its taxonomy code. Untyped errors are
// treated as transient I/O failures.
func wrapOp(err error, message string) error {
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeUnavailable
	}
	return apperrors.Wrap(err, code, message)
}

func authenticatedState(principal domainauth.Principal, profile domainauth.Profile) *domainauth.SessionState {
	return &domainauth.SessionState{
		Status:      domainauth.StatusAuthenticated,
		Principal:   &principal,
		Profile:     &profile,
		Permissions: authz.PermissionsFor(profile.Role),
	}
}
