// internal/middleware/antiforgery_test.go
//
// Run: go test ./internal/middleware -v

package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/yanizio/cascade/internal/form"
)

func gateTarget() (http.Handler, *bool) {
	reached := false
	h := AntiForgery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))
	return h, &reached
}

func TestAntiForgery_ValidHeaderToken(t *testing.T) {
	h, reached := gateTarget()

	tok, err := form.GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/admin/css/delete", nil)
	req.Header.Set(TokenHeader, tok)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK || !*reached {
		t.Fatalf("status = %d, reached = %v", rr.Code, *reached)
	}
}

func TestAntiForgery_FormFieldFallback(t *testing.T) {
	h, reached := gateTarget()

	tok, err := form.GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	body := url.Values{"security": {tok}, "file": {"a.css"}}.Encode()
	req := httptest.NewRequest(http.MethodPost, "/admin/css/delete", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK || !*reached {
		t.Fatalf("status = %d, reached = %v", rr.Code, *reached)
	}
}

func TestAntiForgery_MissingTokenRejected(t *testing.T) {
	h, reached := gateTarget()

	req := httptest.NewRequest(http.MethodPost, "/admin/css/delete", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rr.Code)
	}
	if *reached {
		t.Fatal("handler ran despite missing token")
	}
}

func TestAntiForgery_GetPassesThrough(t *testing.T) {
	h, reached := gateTarget()

	req := httptest.NewRequest(http.MethodGet, "/admin/css/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK || !*reached {
		t.Fatalf("status = %d, reached = %v", rr.Code, *reached)
	}
}
