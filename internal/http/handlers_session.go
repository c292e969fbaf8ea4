package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/campusarc/campusarc/internal/domain/auth"
	"github.com/campusarc/campusarc/internal/service"
	"github.com/google/uuid"
)

// SessionService defines the session manager operations used by the HTTP layer.
type SessionService interface {
	Restore(ctx context.Context) (*domainauth.SessionState, error)
	Login(ctx context.Context, email, password string) (*domainauth.SessionState, error)
	Signup(ctx context.Context, in service.SignupInput) (*domainauth.SessionState, error)
	CompleteAcademicProfile(ctx context.Context, scope domainauth.AcademicScope) (*domainauth.SessionState, error)
	ChangeRole(ctx context.Context, profileID string, role domainauth.Role) (domainauth.Profile, error)
	Logout(ctx context.Context)
	Current() *domainauth.SessionState
}

// WebSessionStore persists the browser session records backing the
// session_id cookie.
type WebSessionStore interface {
	Save(ctx context.Context, sess domainauth.WebSession) error
	Delete(ctx context.Context, id string) error
}

// SessionHandlers provides HTTP handlers for session and profile operations.
type SessionHandlers struct {
	Svc          SessionService
	Web          WebSessionStore
	CookieDomain string
	SessionTTL   time.Duration
	Logger       *slog.Logger
}

func (h *SessionHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

const minPasswordLength = 8

// sessionPayload is the wire shape of a session snapshot.
type sessionPayload struct {
	Status      domainauth.Status       `json:"status"`
	Principal   *principalPayload       `json:"principal,omitempty"`
	Profile     *domainauth.Profile     `json:"profile,omitempty"`
	Permissions []domainauth.Permission `json:"permissions,omitempty"`
}

type principalPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func toSessionPayload(state *domainauth.SessionState) sessionPayload {
	p := sessionPayload{Status: state.Status}
	if state.Principal != nil {
		p.Principal = &principalPayload{
			ID:    state.Principal.ID,
			Email: state.Principal.Email,
			Name:  state.Principal.Name,
		}
	}
	p.Profile = state.Profile
	p.Permissions = state.Permissions
	return p
}

// Session returns the current session snapshot, restoring it first if needed.
// GET /auth/session.
func (h *SessionHandlers) Session(w http.ResponseWriter, r *http.Request) {
	state, err := h.Svc.Restore(r.Context())
	if err != nil {
		// The session settles to signed-out on restore failure; report the
		// settled state rather than an opaque error page.
		h.logger().WarnContext(r.Context(), "session restore failed", "error", err)
		state = h.Svc.Current()
	}
	WriteJSON(w, http.StatusOK, toSessionPayload(state))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login establishes an authenticated session.
// POST /auth/login.
func (h *SessionHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if field, msg := validateCredentials(req.Email, req.Password); field != "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_" + field,
			Err:     errors.New(msg),
		})
		return
	}

	state, err := h.Svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	h.issueWebSession(w, r, state)
	WriteJSON(w, http.StatusOK, toSessionPayload(state))
}

type signupRequest struct {
	Name     string                   `json:"name"`
	Email    string                   `json:"email"`
	Password string                   `json:"password"`
	Scope    domainauth.AcademicScope `json:"scope"`
}

// Signup registers a new account and establishes a session.
// POST /auth/signup.
func (h *SessionHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_name",
			Err:     errors.New("name is required"),
		})
		return
	}
	if field, msg := validateCredentials(req.Email, req.Password); field != "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_" + field,
			Err:     errors.New(msg),
		})
		return
	}

	state, err := h.Svc.Signup(r.Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Scope:    req.Scope,
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}

	h.issueWebSession(w, r, state)
	WriteJSON(w, http.StatusCreated, toSessionPayload(state))
}

// Logout destroys the session.
// POST /auth/logout.
func (h *SessionHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.Svc.Logout(r.Context())

	if sessionCookie, err := r.Cookie("session_id"); err == nil && h.Web != nil {
		if deleteErr := h.Web.Delete(r.Context(), sessionCookie.Value); deleteErr != nil {
			h.logger().WarnContext(r.Context(), "web session delete failed", "error", deleteErr)
		}
	}
	h.clearCookie(w, r, "session_id")

	w.WriteHeader(http.StatusNoContent)
}

// issueWebSession persists a browser session record and sets the session
// cookie. Failures are logged, not surfaced: the credential session is
// authoritative and already established.
func (h *SessionHandlers) issueWebSession(w http.ResponseWriter, r *http.Request, state *domainauth.SessionState) {
	if h.Web == nil || state == nil || state.Principal == nil {
		return
	}

	ttl := h.SessionTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	now := time.Now().UTC()
	sess := domainauth.WebSession{
		ID:          uuid.NewString(),
		PrincipalID: state.Principal.ID,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
	if err := h.Web.Save(r.Context(), sess); err != nil {
		h.logger().WarnContext(r.Context(), "web session save failed", "error", err)
		return
	}

	h.setSessionCookie(w, r, sess)
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *SessionHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s domainauth.WebSession) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	http.SetCookie(w, &http.Cookie{
		Name:     "session_id",
		Value:    s.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
}

// clearCookie clears a cookie by setting it to expire immediately. It mirrors
// key attributes (Secure, Path, Domain, SameSite) used when setting cookies
// to maximize compatibility across browsers during deletion.
func (h *SessionHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecure,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// CompleteProfile fills in the academic scope of the current profile.
// PUT /auth/profile/academic.
func (h *SessionHandlers) CompleteProfile(w http.ResponseWriter, r *http.Request) {
	var scope domainauth.AcademicScope
	if !DecodeJSON(w, r, &scope) {
		return
	}

	state, err := h.Svc.CompleteAcademicProfile(r.Context(), scope)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, toSessionPayload(state))
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

// ChangeRole updates another profile's role.
// PUT /auth/profiles/{id}/role.
func (h *SessionHandlers) ChangeRole(w http.ResponseWriter, r *http.Request) {
	profileID := r.PathValue("id")
	if profileID == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_profile_id",
			Err:     errors.New("profile id is required"),
		})
		return
	}

	var req changeRoleRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	role, ok := domainauth.ParseRole(req.Role)
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_role",
			Err:     errors.New("unknown role"),
		})
		return
	}

	profile, err := h.Svc.ChangeRole(r.Context(), profileID, role)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, profile)
}

// validateCredentials checks login/signup credential fields. Returns the
// offending field name and a message, or empty strings when valid.
func validateCredentials(email, password string) (string, string) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "email", "email is required"
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "email", "email is malformed"
	}
	if len(password) < minPasswordLength {
		return "password", "password must be at least 8 characters"
	}
	return "", ""
}
