package httpapi

import (
	"context"
	"net/http"

	"github.com/interviewqs/backend/internal/common"
)

type ctxKey string

const emailKey ctxKey = "email"

// requireAuth is the bearer gate: it checks the access token from the custom
// "token" header statelessly and rejects before the handler runs. A missing
// or failing credential is always a 401 here; no other status code may leak
// through this gate.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(common.AccessTokenHeaderName)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Not authorized")
			return
		}
		email, err := s.sessions.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Not authorized")
			return
		}
		ctx := context.WithValue(r.Context(), emailKey, email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// emailFromContext returns the authenticated identity set by requireAuth.
func emailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(emailKey).(string)
	return email
}
