package router

import (
	"net/http"
	"strings"

	"github.com/anonpersonals/personals/internal/pkg/config"
)

// middlewareMaintenance returns 503 for routes listed under
// app.maintenance.endpoints. Matching is by registered route pattern, so a
// single entry covers every ad ID under that route.
func middlewareMaintenance(cfg config.Config) Middleware {
	blockedRoutes := make(map[string]struct{})
	if cfg != nil {
		for _, endpoint := range cfg.GetArray("app.maintenance.endpoints") {
			endpoint = strings.TrimSpace(endpoint)
			if endpoint == "" {
				continue
			}
			blockedRoutes[endpoint] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, blocked := blockedRoutes[matchedRoutePath(r)]; blocked {
				writeJSON(w, errorResponse{Message: "service is under maintenance"}, http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
