package gatewayapp

import (
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	sessionsvc "github.com/yogaheristya/ruas-console/internal/services/session"
	tokensvc "github.com/yogaheristya/ruas-console/internal/services/token"
	httperrors "github.com/yogaheristya/ruas-console/internal/transport/http/errors"
)

const (
	loginPath     = "/login"
	dashboardPath = "/dashboard"
)

var protectedPrefixes = []string{"/dashboard", "/master-data"}

func ApplyMiddlewares(r chiRouter, log *zap.Logger) {
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(requestLogger(log))
}

// SessionGate is the page-level auth gate. It inspects the session
// cookie and redirects before any page renders: expired tokens are
// cleared and sent to the login page, authenticated visits to the
// login page are bounced to the dashboard, and anonymous visits to
// protected pages go to the login page. Everything else passes
// through untouched.
func SessionGate(sessions *sessionsvc.Manager, tokens *tokensvc.Validator, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := sessions.Token(r)
			if ok {
				if tokens.Expired(token) {
					if log != nil {
						log.Debug("session gate: expired token", zap.String("path", r.URL.Path))
					}
					sessions.Clear(w)
					http.Redirect(w, r, loginPath, http.StatusSeeOther)
					return
				}
				if r.URL.Path == loginPath {
					http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			if isProtectedPath(r.URL.Path) {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession guards the API routes: no valid session cookie means
// 401, otherwise the token rides the request context down to the
// handlers.
func RequireSession(sessions *sessionsvc.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := sessions.Token(r)
			if !ok {
				httperrors.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			ctx := sessionsvc.WithToken(r.Context(), token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func isProtectedPath(path string) bool {
	for _, prefix := range protectedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			if log != nil {
				log.Info("http_request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Duration("duration", time.Since(start)),
				)
			}
		})
	}
}

type chiRouter interface {
	Use(middlewares ...func(http.Handler) http.Handler)
}
