// internal/auth/context.go
//
// Minimal user-identity helpers.
//
// Context
// -------
// Authentication itself belongs to the host platform; by the time a
// request reaches this service the platform has already established who
// the administrator is.  FromHeader lifts that identity (the
// X-Cascade-User header set by the platform's reverse proxy) into the
// request context, and UserID retrieves it downstream.
//
// Notes
// -----
// • Stores an int64 directly in context.  Swap for a richer struct if a
//   session layer ever lands here.
// • Oxford commas, two spaces after periods.

package auth

import (
	"context"
	"net/http"
	"strconv"
)

// HeaderUser is set by the platform front end after it authenticates the
// administrator.
const HeaderUser = "X-Cascade-User"

// userKey is unexported to avoid context-key collisions.
type userKey struct{}

// WithUser returns a new context carrying the given userID.
func WithUser(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// UserID extracts the userID from ctx.  It returns (0, false) if no user
// is set or if the stored value is not an int64.
func UserID(ctx context.Context) (int64, bool) {
	v := ctx.Value(userKey{})
	id, ok := v.(int64)
	return id, ok
}

// FromHeader copies the platform-supplied user ID into the request
// context.  Requests without a parseable header pass through without an
// identity; the capability gate rejects them later.
func FromHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if raw := r.Header.Get(HeaderUser); raw != "" {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
				r = r.WithContext(WithUser(r.Context(), id))
			}
		}
		next.ServeHTTP(w, r)
	})
}
