package middleware

import (
	"context"
	"net/http"

	"github.com/ironclub/fittrack/internal/auth"
	"github.com/ironclub/fittrack/internal/models"
)

type contextKey struct{}

var sessionKey contextKey

// SessionFrom returns the session injected by RequireAuth.
func SessionFrom(ctx context.Context) (*auth.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*auth.Session)
	return sess, ok
}

// WithSession returns a context carrying the given session. Exported for
// handler tests; production code only goes through RequireAuth.
func WithSession(ctx context.Context, sess *auth.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// RequireAuth validates the session cookie and injects the session into
// the request context. Unauthenticated requests are sent to the login page.
func RequireAuth(sessions auth.Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := currentSession(r, sessions)
			if sess == nil {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

// RequireGuest blocks the signup and login pages for users who already
// have a session, sending them to their role's homepage instead.
func RequireGuest(sessions auth.Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sess := currentSession(r, sessions); sess != nil {
				http.Redirect(w, r, sess.Role.HomePath(), http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole passes only sessions with the expected role. Must run after
// RequireAuth. Users of the other role land on their own homepage.
func RequireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := SessionFrom(r.Context())
			if !ok {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			if sess.Role != role {
				http.Redirect(w, r, sess.Role.HomePath(), http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// currentSession resolves the request's cookie to a live session, or nil.
// A store error counts as no session; the guard cannot do better than
// asking the user to log in again.
func currentSession(r *http.Request, sessions auth.Sessions) *auth.Session {
	cookie, err := r.Cookie(auth.SessionCookie)
	if err != nil {
		return nil
	}
	sess, err := sessions.Get(r.Context(), cookie.Value)
	if err != nil || sess == nil {
		return nil
	}
	return sess
}
