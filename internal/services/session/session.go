package session

import (
	"context"
	"net/http"
	"time"
)

// DefaultCookieName matches the cookie the upstream-issued bearer token
// is stored under.
const DefaultCookieName = "access_token"

type tokenContextKey string

const tokenKey tokenContextKey = "session_token"

// Manager owns the session cookie: reading it from requests, setting it
// on login and clearing it on logout, expiry, or upstream rejection.
// Cookie writes only happen as the terminal step of a request, so there
// is no shared mutable state here.
type Manager struct {
	cookieName string
	secure     bool
}

func NewManager(cookieName string, secure bool) *Manager {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &Manager{cookieName: cookieName, secure: secure}
}

func (m *Manager) CookieName() string {
	return m.cookieName
}

// Token extracts the bearer token from the request cookie.
func (m *Manager) Token(r *http.Request) (string, bool) {
	c, err := r.Cookie(m.cookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// Set stores the token for maxAge. HttpOnly keeps it away from scripts;
// SameSite=Lax matches the navigation-driven console.
func (m *Manager) Set(w http.ResponseWriter, token string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear deletes the cookie by writing an empty value with MaxAge<0.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// WithToken threads the request's bearer token into the context so
// handlers stay testable without rebuilding cookie plumbing.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok && token != ""
}
