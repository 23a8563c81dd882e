package service

import (
	"errors"

	"github.com/atinyakov/CourseKeeper/internal/apperrors"
	"github.com/atinyakov/CourseKeeper/internal/models"
	"github.com/atinyakov/CourseKeeper/internal/session"
)

// User-facing notice texts.
const (
	msgInvalidCredentials = "Credenciales incorrectas"
	msgSaved              = "Cambios guardados en el archivo."
	msgPersistFailed      = "No se pudieron guardar los cambios. Intente de nuevo."
	msgCommitFailed       = "No se pudo actualizar el curso."
)

// Authenticator checks a username/password pair.
type Authenticator interface {
	Authenticate(username, password string) error
}

// Catalog is the part of CatalogService the session controller needs.
type Catalog interface {
	Course(code string) (models.Course, error)
	Commit(code string, edit models.CourseEdit) error
}

// SessionController applies user actions to a session. Every privileged
// operation checks authentication itself instead of trusting the UI.
type SessionController struct {
	auth    Authenticator
	catalog Catalog
}

// NewSessionController constructs a SessionController.
func NewSessionController(auth Authenticator, catalog Catalog) *SessionController {
	return &SessionController{auth: auth, catalog: catalog}
}

// Login authenticates the session. On failure the session is unchanged, an
// error notice is queued and apperrors.ErrInvalidCredentials is returned.
func (c *SessionController) Login(st *session.State, username, password string) error {
	if err := c.auth.Authenticate(username, password); err != nil {
		st.AddNotice(session.Notice{Level: session.LevelError, Message: msgInvalidCredentials})
		return err
	}
	st.MarkAuthenticated()
	return nil
}

// SelectCourse makes code the session's current course.
func (c *SessionController) SelectCourse(st *session.State, code string) error {
	if !st.Authenticated() {
		return apperrors.ErrUnauthenticated
	}
	if _, err := c.catalog.Course(code); err != nil {
		return err
	}
	st.Select(code)
	return nil
}

// CommitEdit saves description and comments on the selected course and
// returns its code. With no course selected it does nothing and returns "".
// The outcome is queued as a notice.
func (c *SessionController) CommitEdit(st *session.State, description, comments string) (string, error) {
	if !st.Authenticated() {
		return "", apperrors.ErrUnauthenticated
	}
	code, ok := st.Selected()
	if !ok {
		return "", nil
	}

	err := c.catalog.Commit(code, models.CourseEdit{Description: description, Comments: comments})
	switch {
	case err == nil:
		st.AddNotice(session.Notice{Level: session.LevelSuccess, Message: msgSaved})
	case errors.Is(err, apperrors.ErrPersistFailure):
		st.AddNotice(session.Notice{Level: session.LevelError, Message: msgPersistFailed})
	default:
		st.AddNotice(session.Notice{Level: session.LevelError, Message: msgCommitFailed})
	}
	return code, err
}
