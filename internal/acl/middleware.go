// internal/acl/middleware.go
//
// Chi middleware enforcing the capability gate on admin routes.
//
// Context
// -------
// Every admin endpoint is wrapped in RequireCapability.  The check runs
// before any manager code: no identity → 401, identity without the
// capability → 403.  The anti-forgery token is a separate middleware
// (internal/middleware.AntiForgery) so read-only admin routes can skip
// it while still requiring the capability.

package acl

import (
	"database/sql"
	"net/http"

	"go.uber.org/zap"

	"github.com/yanizio/cascade/internal/auth"
)

// RequireCapability ensures the current user's roles carry the
// capability before the wrapped handler runs.
func RequireCapability(db *sql.DB, capability string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid, ok := auth.UserID(r.Context())
			if !ok {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			capable, err := UserCapable(r.Context(), db, uid, capability)
			if err != nil {
				zap.L().Error("acl capability lookup", zap.Error(err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			if !capable {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
