package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mauv0809/smashqueue/internal/auth"
)

// Middleware defines the standard signature for an HTTP middleware.
type Middleware func(http.Handler) http.Handler

// Chain combines multiple middlewares into a single handler.
// The middlewares are applied in the order they are passed.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// contextKey is a custom type to avoid key collisions in context.
type contextKey string

const (
	dryRunKey   contextKey = "dryRun"
	identityKey contextKey = "identity"
)

// paramsMiddleware handles common query parameters like 'verbose' and 'dry_run'.
func paramsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info("incoming request", "method", r.Method, "url", r.URL.String())
		// Handle 'verbose' for request-scoped verbose logging.
		if r.URL.Query().Get("verbose") == "true" {
			originalLevel := log.GetLevel()
			log.SetLevel(log.DebugLevel)
			defer log.SetLevel(originalLevel)
		}

		// Handle 'dry_run' and add it to the request context.
		isDryRun := r.URL.Query().Get("dry_run") == "true"
		ctx := context.WithValue(r.Context(), dryRunKey, isDryRun)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// isDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func isDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(dryRunKey).(bool)
	return ok && dryRun
}

// authMiddleware validates the bearer token and stores the caller identity in
// the request context. Requests without a valid token are rejected with 401.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}

		identity, err := s.Verifier.Parse(token)
		if err != nil {
			log.Warn("rejected request with invalid token", "url", r.URL.Path, "error", err)
			respondError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// identityFromContext retrieves the authenticated caller. It returns nil for
// requests that did not pass through authMiddleware.
func identityFromContext(r *http.Request) *auth.Identity {
	identity, ok := r.Context().Value(identityKey).(*auth.Identity)
	if !ok {
		return nil
	}
	return identity
}

// requireCapability gates a handler on the caller's role. It must sit after
// authMiddleware in the chain.
func requireCapability(cap auth.Capability) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := identityFromContext(r)
			if identity == nil {
				respondError(w, http.StatusUnauthorized, "unauthorized", "missing identity")
				return
			}
			if !auth.Allowed(identity.Role, cap) {
				log.Warn("caller lacks capability", "player_id", identity.PlayerID, "role", identity.Role, "capability", cap)
				respondError(w, http.StatusForbidden, "forbidden", "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
