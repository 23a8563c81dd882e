// Package middleware provides HTTP middlewares for sessions, access control
// and logging.
package middleware

import (
	"context"
	"net/http"

	"github.com/atinyakov/CourseKeeper/internal/session"
)

type ctxKey string

const sessionKey ctxKey = "session"

// CookieName is the name of the session cookie.
const CookieName = "catalog_session"

// WithSession resolves the session cookie to a live session, creating a new
// anonymous session (and cookie) when there is none, and stores it in the
// request context.
func WithSession(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var st *session.State
			if c, err := r.Cookie(CookieName); err == nil {
				st, _ = store.Get(c.Value)
			}
			if st == nil {
				st = store.New()
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    st.ID,
					Path:     "/",
					HttpOnly: true,
					Secure:   r.TLS != nil,
					SameSite: http.SameSiteLaxMode,
				})
			}
			ctx := context.WithValue(r.Context(), sessionKey, st)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the session stored by WithSession, or nil.
func SessionFromContext(ctx context.Context) *session.State {
	st, _ := ctx.Value(sessionKey).(*session.State)
	return st
}

// RequireAuth redirects anonymous sessions to loginPath.
func RequireAuth(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := SessionFromContext(r.Context())
			if st == nil || !st.Authenticated() {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
