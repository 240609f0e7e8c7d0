package token

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

func TestExpiredForPastAndFutureClaims(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	v := NewValidator()
	v.now = func() time.Time { return now }

	tests := []struct {
		name    string
		exp     time.Time
		expired bool
	}{
		{name: "one second past", exp: now.Add(-time.Second), expired: true},
		{name: "one hour past", exp: now.Add(-time.Hour), expired: true},
		{name: "exactly now", exp: now, expired: false},
		{name: "one hour ahead", exp: now.Add(time.Hour), expired: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.Expired(signedToken(t, tt.exp)); got != tt.expired {
				t.Fatalf("Expired = %v, want %v", got, tt.expired)
			}
		})
	}
}

func TestExpiredForUndecodableTokens(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "blank", raw: "   "},
		{name: "opaque string", raw: "not-a-jwt"},
		{name: "two segments", raw: "abc.def"},
		{name: "payload not json", raw: "aGVhZA.bm90LWpzb24.c2ln"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !v.Expired(tt.raw) {
				t.Fatalf("undecodable token must report expired")
			}
		})
	}
}

func TestExpiredWhenClaimMissing(t *testing.T) {
	v := NewValidator()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "42"})
	raw, err := tok.SignedString([]byte("unit-test"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if !v.Expired(raw) {
		t.Fatalf("token without exp claim must report expired")
	}
}

func TestSignatureIsIgnored(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	v := NewValidator()
	v.now = func() time.Time { return now }

	raw := signedToken(t, now.Add(time.Hour))
	// Corrupt the signature segment; only the exp claim matters here.
	tampered := raw[:len(raw)-4] + "AAAA"

	if v.Expired(tampered) {
		t.Fatalf("expiry check must not depend on the signature")
	}
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": exp.Unix(),
	})
	raw, err := tok.SignedString([]byte("unit-test"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}
