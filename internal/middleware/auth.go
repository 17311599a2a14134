package middleware

import (
	"net/http"
	"time"

	"github.com/correcaminos/cuotas/internal/auth"
	"github.com/correcaminos/cuotas/internal/store"
)

// SessionCookieName is the cookie holding the opaque session token.
const SessionCookieName = "cuotas_session"

// RequireAuth validates the session cookie, loads the household behind it,
// and populates the request's AuthContext. Expired sessions are rejected.
func RequireAuth(sessions *store.SessionStore, households *store.HouseholdStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}

			sess, err := sessions.GetByToken(cookie.Value)
			if err != nil || sess == nil {
				unauthorized(w)
				return
			}
			if time.Now().After(sess.ExpiresAt) {
				unauthorized(w)
				return
			}

			h, err := households.GetByID(sess.HouseholdID)
			if err != nil || h == nil {
				unauthorized(w)
				return
			}

			ac := &auth.AuthContext{
				HouseholdID: h.ID,
				Handle:      h.Handle,
				Role:        h.Role,
				SessionID:   sess.ID,
			}

			next.ServeHTTP(w, r.WithContext(auth.WithAuth(r.Context(), ac)))
		})
	}
}

// RequireAdmin rejects requests whose household does not hold the admin role.
// It must run inside RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ac := auth.FromContext(r.Context())
		if ac == nil || !ac.IsAdmin() {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter) {
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}
