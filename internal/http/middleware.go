package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/campusarc/campusarc/internal/domain/auth"
	"github.com/campusarc/campusarc/internal/guard"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionReader is the read side of the session manager needed by guard
// enforcement.
type SessionReader interface {
	Restore(ctx context.Context) (*domainauth.SessionState, error)
	Current() *domainauth.SessionState
}

// Guarded wraps a handler with a navigation guard. Restoration is attempted
// first so the guard evaluates a settled snapshot; after the first request
// this is a cheap atomic read. Decisions translate to HTTP as:
// render passes through, redirect answers 303 with the requested location
// preserved in redirect_uri, block answers 503.
func Guarded(sessions SessionReader, g guard.Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state, err := sessions.Restore(r.Context())
			if err != nil {
				// Restoration failures settle the session to signed-out; the
				// guard decides what that means for this surface.
				state = sessions.Current()
			}

			decision := g(state, safeRedirectPath(r.URL.RequestURI()))
			switch decision.Action {
			case guard.ActionRender:
				next.ServeHTTP(w, r)

			case guard.ActionRedirect:
				target := decision.Target
				if decision.From != "" {
					u, parseErr := url.Parse(target)
					if parseErr == nil {
						q := u.Query()
						q.Set("redirect_uri", decision.From)
						u.RawQuery = q.Encode()
						target = u.String()
					}
				}
				http.Redirect(w, r, target, http.StatusSeeOther)

			case guard.ActionBlock:
				WriteError(w, ErrorParams{
					Code:    http.StatusServiceUnavailable,
					ErrCode: "session_restoring",
					Err:     errors.New("session restoration in progress"),
				})
			}
		})
	}
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}
