// Package http provides the HTTP handlers of the course catalog: login,
// catalog browsing and editing, and attachment downloads.
package http

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/CourseKeeper/internal/apperrors"
	"github.com/atinyakov/CourseKeeper/internal/metrics"
	"github.com/atinyakov/CourseKeeper/internal/middleware"
	"github.com/atinyakov/CourseKeeper/internal/session"
)

// SessionService defines the session actions required by the handlers.
type SessionService interface {
	// Login authenticates the session with a username/password pair.
	Login(st *session.State, username, password string) error
	// SelectCourse makes code the session's current course.
	SelectCourse(st *session.State, code string) error
	// CommitEdit saves description and comments on the selected course and
	// returns its code, or "" when nothing is selected.
	CommitEdit(st *session.State, description, comments string) (string, error)
}

// AuthHandler serves the login form and handles login attempts.
type AuthHandler struct {
	Sessions SessionService
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

// LoginPage renders the login form. Authenticated sessions are sent to the
// catalog.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	st := middleware.SessionFromContext(r.Context())
	if st.Authenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	render(w, h.Logger, loginPage, loginView{Notices: st.TakeNotices()})
}

// Login handles the login form. It expects "user" and "password" form
// fields and redirects to the catalog on success or back to the form with a
// notice on failure.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	st := middleware.SessionFromContext(r.Context())

	err := h.Sessions.Login(st, r.PostForm.Get("user"), r.PostForm.Get("password"))
	h.Metrics.Logins.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		if !errors.Is(err, apperrors.ErrInvalidCredentials) {
			h.Logger.Error("login", zap.Error(err))
		}
		h.Logger.Info("login rejected", zap.String("session", st.ID))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.Logger.Info("login accepted", zap.String("session", st.ID))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
