package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/campusarc/campusarc/internal/domain/auth"
	"github.com/campusarc/campusarc/internal/domain/authz"
	apperrors "github.com/campusarc/campusarc/internal/errors"
	"github.com/campusarc/campusarc/internal/service"
)

// stubSessionService implements SessionService with overridable behavior.
type stubSessionService struct {
	state *domainauth.SessionState

	restoreErr  error
	loginFunc   func(email, password string) (*domainauth.SessionState, error)
	signupFunc  func(in service.SignupInput) (*domainauth.SessionState, error)
	completeErr error
	changeFunc  func(profileID string, role domainauth.Role) (domainauth.Profile, error)
	loggedOut   bool
}

func (s *stubSessionService) Restore(context.Context) (*domainauth.SessionState, error) {
	if s.restoreErr != nil {
		return nil, s.restoreErr
	}
	return s.state, nil
}

func (s *stubSessionService) Login(_ context.Context, email, password string) (*domainauth.SessionState, error) {
	if s.loginFunc != nil {
		return s.loginFunc(email, password)
	}
	return s.state, nil
}

func (s *stubSessionService) Signup(_ context.Context, in service.SignupInput) (*domainauth.SessionState, error) {
	if s.signupFunc != nil {
		return s.signupFunc(in)
	}
	return s.state, nil
}

func (s *stubSessionService) CompleteAcademicProfile(context.Context, domainauth.AcademicScope) (*domainauth.SessionState, error) {
	if s.completeErr != nil {
		return nil, s.completeErr
	}
	return s.state, nil
}

func (s *stubSessionService) ChangeRole(_ context.Context, profileID string, role domainauth.Role) (domainauth.Profile, error) {
	if s.changeFunc != nil {
		return s.changeFunc(profileID, role)
	}
	return domainauth.Profile{ID: profileID, Role: role}, nil
}

func (s *stubSessionService) Logout(context.Context) { s.loggedOut = true }

func (s *stubSessionService) Current() *domainauth.SessionState {
	if s.state != nil {
		return s.state
	}
	return domainauth.Unauthenticated()
}

// stubWebStore records web session saves and deletes.
type stubWebStore struct {
	saved   []domainauth.WebSession
	deleted []string
	saveErr error
}

func (s *stubWebStore) Save(_ context.Context, sess domainauth.WebSession) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, sess)
	return nil
}

func (s *stubWebStore) Delete(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func authenticatedState(role domainauth.Role) *domainauth.SessionState {
	return &domainauth.SessionState{
		Status:      domainauth.StatusAuthenticated,
		Principal:   &domainauth.Principal{ID: "p-1", Email: "ada@example.com", Name: "Ada"},
		Profile:     &domainauth.Profile{ID: "prof-1", PrincipalID: "p-1", Username: "ada", Role: role, ProfileCompleted: true},
		Permissions: authz.PermissionsFor(role),
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSessionHandler_ReturnsSettledSnapshot(t *testing.T) {
	svc := &stubSessionService{state: authenticatedState(domainauth.RoleEditor)}
	h := &SessionHandlers{Svc: svc}

	rec := httptest.NewRecorder()
	h.Session(rec, httptest.NewRequest(http.MethodGet, "/auth/session", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "authenticated", body["status"])
	principal := body["principal"].(map[string]any)
	assert.Equal(t, "p-1", principal["id"])
	assert.NotEmpty(t, body["permissions"])
}

func TestSessionHandler_RestoreFailureReportsSignedOut(t *testing.T) {
	svc := &stubSessionService{restoreErr: apperrors.Unavailable("identity provider down")}
	h := &SessionHandlers{Svc: svc}

	rec := httptest.NewRecorder()
	h.Session(rec, httptest.NewRequest(http.MethodGet, "/auth/session", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "unauthenticated", decodeBody(t, rec)["status"])
}

func TestLoginHandler_Success(t *testing.T) {
	svc := &stubSessionService{state: authenticatedState(domainauth.RoleUser)}
	web := &stubWebStore{}
	h := &SessionHandlers{Svc: svc, Web: web, SessionTTL: time.Hour}

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"ada@example.com","password":"secret123"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "authenticated", decodeBody(t, rec)["status"])

	require.Len(t, web.saved, 1)
	assert.Equal(t, "p-1", web.saved[0].PrincipalID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), web.saved[0].ExpiresAt, time.Minute)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session_id", cookies[0].Name)
	assert.Equal(t, web.saved[0].ID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestLoginHandler_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"missing email", `{"password":"secret123"}`, "invalid_email"},
		{"malformed email", `{"email":"nope","password":"secret123"}`, "invalid_email"},
		{"short password", `{"email":"ada@example.com","password":"short"}`, "invalid_password"},
		{"unknown field", `{"email":"ada@example.com","password":"secret123","extra":true}`, "invalid_json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &SessionHandlers{Svc: &stubSessionService{}}
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.Login(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantCode, decodeBody(t, rec)["error"])
		})
	}
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	svc := &stubSessionService{loginFunc: func(string, string) (*domainauth.SessionState, error) {
		return nil, apperrors.Unauthenticated("invalid credentials")
	}}
	web := &stubWebStore{}
	h := &SessionHandlers{Svc: svc, Web: web}

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"ada@example.com","password":"wrongwrong"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthenticated", decodeBody(t, rec)["error"])
	assert.Empty(t, web.saved)
	assert.Empty(t, rec.Result().Cookies())
}

func TestLoginHandler_WebStoreFailureDoesNotBlockLogin(t *testing.T) {
	svc := &stubSessionService{state: authenticatedState(domainauth.RoleUser)}
	web := &stubWebStore{saveErr: apperrors.Unavailable("redis down")}
	h := &SessionHandlers{Svc: svc, Web: web}

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"ada@example.com","password":"secret123"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestSignupHandler_Success(t *testing.T) {
	var got service.SignupInput
	svc := &stubSessionService{signupFunc: func(in service.SignupInput) (*domainauth.SessionState, error) {
		got = in
		return authenticatedState(domainauth.RoleUser), nil
	}}
	web := &stubWebStore{}
	h := &SessionHandlers{Svc: svc, Web: web}

	req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(
		`{"name":"Ada Lovelace","email":"ada@example.com","password":"secret123",`+
			`"scope":{"university_id":"u-1","program_id":"prog-1","branch_id":"b-1"}}`))
	rec := httptest.NewRecorder()
	h.Signup(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Ada Lovelace", got.Name)
	assert.Equal(t, "u-1", got.Scope.UniversityID)
	require.Len(t, web.saved, 1)
}

func TestSignupHandler_RequiresName(t *testing.T) {
	h := &SessionHandlers{Svc: &stubSessionService{}}

	req := httptest.NewRequest(http.MethodPost, "/auth/signup",
		strings.NewReader(`{"name":"  ","email":"ada@example.com","password":"secret123"}`))
	rec := httptest.NewRecorder()
	h.Signup(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_name", decodeBody(t, rec)["error"])
}

func TestSignupHandler_EmailConflict(t *testing.T) {
	svc := &stubSessionService{signupFunc: func(service.SignupInput) (*domainauth.SessionState, error) {
		return nil, apperrors.Conflict("email already registered")
	}}
	h := &SessionHandlers{Svc: svc}

	req := httptest.NewRequest(http.MethodPost, "/auth/signup",
		strings.NewReader(`{"name":"Ada","email":"ada@example.com","password":"secret123"}`))
	rec := httptest.NewRecorder()
	h.Signup(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", decodeBody(t, rec)["error"])
}

func TestLogoutHandler_ClearsWebSessionAndCookie(t *testing.T) {
	svc := &stubSessionService{state: authenticatedState(domainauth.RoleUser)}
	web := &stubWebStore{}
	h := &SessionHandlers{Svc: svc, Web: web}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, svc.loggedOut)
	assert.Equal(t, []string{"sess-1"}, web.deleted)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session_id", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestLogoutHandler_WithoutCookie(t *testing.T) {
	svc := &stubSessionService{}
	web := &stubWebStore{}
	h := &SessionHandlers{Svc: svc, Web: web}

	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, svc.loggedOut)
	assert.Empty(t, web.deleted)
}

func TestCompleteProfileHandler_Success(t *testing.T) {
	svc := &stubSessionService{state: authenticatedState(domainauth.RoleUser)}
	h := &SessionHandlers{Svc: svc}

	req := httptest.NewRequest(http.MethodPut, "/auth/profile/academic",
		strings.NewReader(`{"university_id":"u-1","program_id":"prog-1","branch_id":"b-1"}`))
	rec := httptest.NewRecorder()
	h.CompleteProfile(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "authenticated", decodeBody(t, rec)["status"])
}

func TestCompleteProfileHandler_RequiresSession(t *testing.T) {
	svc := &stubSessionService{completeErr: apperrors.Unauthenticated("no active session")}
	h := &SessionHandlers{Svc: svc}

	req := httptest.NewRequest(http.MethodPut, "/auth/profile/academic",
		strings.NewReader(`{"university_id":"u-1"}`))
	rec := httptest.NewRecorder()
	h.CompleteProfile(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChangeRoleHandler_Success(t *testing.T) {
	h := &SessionHandlers{Svc: &stubSessionService{}}

	req := httptest.NewRequest(http.MethodPut, "/auth/profiles/prof-2/role",
		strings.NewReader(`{"role":"moderator"}`))
	req.SetPathValue("id", "prof-2")
	rec := httptest.NewRecorder()
	h.ChangeRole(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "prof-2", body["id"])
	assert.Equal(t, "moderator", body["role"])
}

func TestChangeRoleHandler_RejectsUnknownRole(t *testing.T) {
	h := &SessionHandlers{Svc: &stubSessionService{}}

	req := httptest.NewRequest(http.MethodPut, "/auth/profiles/prof-2/role",
		strings.NewReader(`{"role":"mod"}`))
	req.SetPathValue("id", "prof-2")
	rec := httptest.NewRecorder()
	h.ChangeRole(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_role", decodeBody(t, rec)["error"])
}

func TestChangeRoleHandler_ForbiddenForNonAdmins(t *testing.T) {
	svc := &stubSessionService{changeFunc: func(string, domainauth.Role) (domainauth.Profile, error) {
		return domainauth.Profile{}, apperrors.Unauthenticated("manage:roles permission required")
	}}
	h := &SessionHandlers{Svc: svc}

	req := httptest.NewRequest(http.MethodPut, "/auth/profiles/prof-2/role",
		strings.NewReader(`{"role":"editor"}`))
	req.SetPathValue("id", "prof-2")
	rec := httptest.NewRecorder()
	h.ChangeRole(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
