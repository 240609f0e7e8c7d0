package token

import (
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Validator checks the expiry claim of the session bearer token. The
// token is issued and signed by the upstream API; the gateway only reads
// the human-readable exp claim and deliberately skips signature
// verification. Any token that cannot be decoded counts as expired.
type Validator struct {
	parser *jwt.Parser
	now    func() time.Time
}

func NewValidator() *Validator {
	return &Validator{
		parser: jwt.NewParser(),
		now:    time.Now,
	}
}

// Expired reports whether the token's exp claim is in the past. Decode
// failures of any kind degrade to expired; this never panics.
func (v *Validator) Expired(raw string) bool {
	expiresAt, ok := v.expiresAt(raw)
	if !ok {
		return true
	}
	return expiresAt.Before(v.now())
}

func (v *Validator) expiresAt(raw string) (time.Time, bool) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := v.parser.ParseUnverified(raw, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}

	return exp.Time, true
}
