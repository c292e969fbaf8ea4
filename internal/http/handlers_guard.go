package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	domainauth "github.com/campusarc/campusarc/internal/domain/auth"
	"github.com/campusarc/campusarc/internal/guard"
)

// GuardHandlers answers navigation-decision queries for the frontend router.
// The client asks what to do before rendering a surface; the decision is
// recomputed server-side from the settled session snapshot.
type GuardHandlers struct {
	Svc    SessionReader
	Routes []GuardedRoute
	Logger *slog.Logger
}

// decisionPayload is the wire shape of a guard decision.
type decisionPayload struct {
	Action string `json:"action"`
	Target string `json:"target,omitempty"`
	From   string `json:"from,omitempty"`
}

// Navigate evaluates the guard for a requested surface.
// GET /auth/navigate?to=<path>.
func (h *GuardHandlers) Navigate(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("to")
	if raw == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_target",
			Err:     errors.New("query parameter 'to' is required"),
		})
		return
	}
	requested := safeRedirectPath(raw)

	state, err := h.Svc.Restore(r.Context())
	if err != nil {
		state = h.Svc.Current()
	}

	decision := h.decide(state, requested)
	WriteJSON(w, http.StatusOK, decisionPayload{
		Action: string(decision.Action),
		Target: decision.Target,
		From:   decision.From,
	})
}

// decide finds the longest matching guarded prefix and evaluates it. Paths
// without a matching entry are public and always render.
func (h *GuardHandlers) decide(state *domainauth.SessionState, requested string) guard.Decision {
	var (
		best    guard.Guard
		bestLen = -1
	)
	for _, route := range h.Routes {
		if matchesPrefix(requested, route.Prefix) && len(route.Prefix) > bestLen {
			best = route.Guard
			bestLen = len(route.Prefix)
		}
	}
	if best == nil {
		return guard.Render()
	}
	return best(state, requested)
}

// matchesPrefix reports whether path is the prefix itself or a sub-path of it.
func matchesPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/' || path[len(prefix)] == '?'
}
