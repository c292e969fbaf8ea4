package httpx

import (
	"log/slog"
	"net/http"
	"time"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Sessions     SessionService
	Web          WebSessionStore // Optional: browser session persistence
	Guards       GuardTargets
	CookieDomain string
	SessionTTL   time.Duration
	IsDev        bool         // Development mode flag
	Logger       *slog.Logger // Logger for HTTP errors (optional)
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	sessionHandlers := &SessionHandlers{
		Svc:          services.Sessions,
		Web:          services.Web,
		CookieDomain: services.CookieDomain,
		SessionTTL:   services.SessionTTL,
		Logger:       services.Logger,
	}
	guardHandlers := &GuardHandlers{
		Svc:    services.Sessions,
		Routes: BuildGuardTable(services.Guards),
		Logger: services.Logger,
	}

	registerSessionRoutes(mux, sessionHandlers, services)
	mux.Handle("GET /auth/navigate", http.HandlerFunc(guardHandlers.Navigate))
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	return mux
}

func registerSessionRoutes(mux *http.ServeMux, h *SessionHandlers, services RouterServices) {
	landing := LandingFor(services.Guards)

	anonymous := Guarded(services.Sessions, RequireAnonymousGuard(landing))
	authenticated := Guarded(services.Sessions, RequireAuthenticatedGuard(services.Guards))

	mux.Handle("POST /auth/login", anonymous(http.HandlerFunc(h.Login)))
	mux.Handle("POST /auth/signup", anonymous(http.HandlerFunc(h.Signup)))
	mux.Handle("POST /auth/logout", http.HandlerFunc(h.Logout))
	mux.Handle("GET /auth/session", http.HandlerFunc(h.Session))
	mux.Handle("PUT /auth/profile/academic", authenticated(http.HandlerFunc(h.CompleteProfile)))
	mux.Handle("PUT /auth/profiles/{id}/role", authenticated(http.HandlerFunc(h.ChangeRole)))
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
