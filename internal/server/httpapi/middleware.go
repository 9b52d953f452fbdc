package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/server/auth"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// requireAuth resolves the Bearer token into a principal and stores the
// user ID in the request context. Requests without a well-formed header
// are rejected before any verification work. An empty signing secret is a
// deployment fault, not an unauthenticated caller, so it fails closed
// with a server-configuration error.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		if len(s.jwtSecret) == 0 {
			s.respondError(w, r, common.ErrServerConfig)
			return
		}

		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			s.respondError(w, r, common.ErrorUnauthorized)
			return
		}

		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			s.respondError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// principalID returns the authenticated user ID stored by requireAuth.
func principalID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}
