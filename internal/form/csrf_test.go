// internal/form/csrf_test.go
//
// Run: go test ./internal/form -v

package form

import (
	"encoding/base64"
	"testing"
)

func TestTokenRoundtrip(t *testing.T) {
	tok, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if !VerifyToken(tok) {
		t.Fatal("fresh token failed verification")
	}
}

func TestTokenTamperFails(t *testing.T) {
	tok, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	raw[0] ^= 0xff // flip nonce byte, signature no longer matches
	if VerifyToken(base64.RawURLEncoding.EncodeToString(raw)) {
		t.Fatal("tampered token verified")
	}
}

func TestTokenGarbageFails(t *testing.T) {
	for _, tok := range []string{"", "not-base64!!", "c2hvcnQ"} {
		if VerifyToken(tok) {
			t.Fatalf("garbage token %q verified", tok)
		}
	}
}
