// Package auth carries the authenticated household through a request's
// context. Middleware stores an AuthContext after validating the session
// cookie; handlers read it back with FromContext.
package auth

import "context"

type contextKey struct{}

// AuthContext describes the household behind an authenticated request.
type AuthContext struct {
	HouseholdID int64
	Handle      string
	Role        string
	SessionID   int64
}

// IsAdmin reports whether the request belongs to an admin household.
func (a *AuthContext) IsAdmin() bool {
	return a.Role == "admin"
}

// WithAuth returns a copy of ctx carrying the authenticated household.
func WithAuth(ctx context.Context, ac *AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

// FromContext extracts the AuthContext, or nil when the request was not
// authenticated.
func FromContext(ctx context.Context) *AuthContext {
	ac, _ := ctx.Value(contextKey{}).(*AuthContext)
	return ac
}
