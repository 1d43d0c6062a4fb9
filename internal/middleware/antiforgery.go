// internal/middleware/antiforgery.go
//
// Anti-forgery gate for mutating admin requests.
//
// Context
// -------
// Every POST to the admin API must carry a token minted by
// form.GenerateToken, either in the X-Cascade-Token header or in the
// `security` form field (the field name the platform's admin scripts
// already send).  The check runs before any handler side effect.  GET
// and HEAD pass through: they never mutate, and the listing endpoint is
// how the admin page obtains a fresh token in the first place.

package middleware

import (
	"net/http"

	"github.com/yanizio/cascade/internal/form"
)

// TokenHeader carries the anti-forgery token on API requests.
const TokenHeader = "X-Cascade-Token"

// AntiForgery rejects mutating requests without a valid token.
func AntiForgery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}

		tok := r.Header.Get(TokenHeader)
		if tok == "" {
			tok = r.FormValue("security")
		}
		if !form.VerifyToken(tok) {
			http.Error(w, "invalid security token", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
