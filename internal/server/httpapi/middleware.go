package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/kuryentech/gardian-admin/internal/server/access"
	"github.com/kuryentech/gardian-admin/internal/server/models"
)

type sessionKey struct{}

func sessionFromContext(ctx context.Context) *access.Session {
	sess, _ := ctx.Value(sessionKey{}).(*access.Session)
	return sess
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// sessionMiddleware resolves the bearer token into a Session and stores it in
// the request context. Requests without a token pass through with no session;
// the role guard rejects them later. A malformed token is rejected here.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		sess, err := s.resolver.Resolve(r.Context(), token)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRoles guards a route subtree with the access decision function. Both
// unauthenticated and wrong-role requests receive the same 401 payload with a
// redirect hint, so the dashboard sends both to the login screen.
func (s *Server) requireRoles(allowed ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := sessionFromContext(r.Context())
			if access.Decide(false, sess, allowed) != access.Render {
				writeJSON(w, http.StatusUnauthorized, map[string]string{
					"error":    "unauthorized",
					"redirect": "/login",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
