package httpx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/campusarc/campusarc/internal/domain/auth"
	"github.com/campusarc/campusarc/internal/guard"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestGuarded_RenderPassesThrough(t *testing.T) {
	svc := &stubSessionService{state: authenticatedState(domainauth.RoleUser)}
	mw := Guarded(svc, guard.RequireAuthenticated("/login"))

	rec := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/resources", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGuarded_RedirectCarriesRequestedLocation(t *testing.T) {
	svc := &stubSessionService{state: domainauth.Unauthenticated()}
	mw := Guarded(svc, guard.RequireAuthenticated("/login"))

	rec := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/resources?tab=all", nil))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/login", loc.Path)
	assert.Equal(t, "/resources?tab=all", loc.Query().Get("redirect_uri"))
}

func TestGuarded_BlocksWhileRestoring(t *testing.T) {
	svc := &stubSessionService{state: domainauth.Restoring()}
	mw := Guarded(svc, guard.RequireAuthenticated("/login"))

	rec := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/resources", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "session_restoring")
}

func TestGuarded_RestoreFailureUsesSettledState(t *testing.T) {
	svc := &stubSessionService{restoreErr: assert.AnError}
	mw := Guarded(svc, guard.RequireAuthenticated("/login"))

	rec := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/resources", nil))

	// Current() settles to signed-out, so the guard redirects to login.
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestLogging_RecordsStatus(t *testing.T) {
	handler := Logging(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestRecover_ConvertsPanicTo500(t *testing.T) {
	handler := Recover(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSafeRedirectPath(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		want      string
	}{
		{"relative path", "/resources", "/resources"},
		{"path with query", "/resources?tab=all", "/resources?tab=all"},
		{"empty", "", "/"},
		{"absolute url", "https://evil.example.com/", "/"},
		{"schemeless host", "//evil.example.com/", "/"},
		{"no leading slash", "resources", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, safeRedirectPath(tt.candidate))
		})
	}
}
