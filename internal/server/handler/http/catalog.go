package http

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/CourseKeeper/internal/apperrors"
	"github.com/atinyakov/CourseKeeper/internal/metrics"
	"github.com/atinyakov/CourseKeeper/internal/middleware"
	"github.com/atinyakov/CourseKeeper/internal/models"
)

// CatalogService defines the catalog reads required by the handlers.
type CatalogService interface {
	// Codes returns the selectable course codes in catalog order.
	Codes() []string
	// Course returns the course with the given code.
	Course(code string) (models.Course, error)
	// Attachments returns the sorted attachment names of a course.
	Attachments(code string) ([]string, error)
	// HasAttachmentFolder reports whether the course has a files directory.
	HasAttachmentFolder(code string) bool
}

// CatalogHandler serves the catalog view and its two actions.
type CatalogHandler struct {
	Catalog  CatalogService
	Sessions SessionService
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

// Index renders the selector, the selected course, its edit form and its
// attachments. When nothing is selected yet the first course is.
func (h *CatalogHandler) Index(w http.ResponseWriter, r *http.Request) {
	st := middleware.SessionFromContext(r.Context())
	view := catalogView{Codes: h.Catalog.Codes()}

	code, ok := st.Selected()
	if !ok && len(view.Codes) > 0 {
		code = view.Codes[0]
		if err := h.Sessions.SelectCourse(st, code); err != nil {
			h.Logger.Error("select default course", zap.String("code", code), zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	}

	if code != "" {
		course, err := h.Catalog.Course(code)
		if err != nil {
			h.Logger.Error("selected course missing", zap.String("code", code), zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		view.Selected = code
		view.Course = course
		view.HasCourse = true

		files, err := h.Catalog.Attachments(code)
		if err != nil {
			h.Logger.Warn("list attachments", zap.String("code", code), zap.Error(err))
		}
		view.Attachments = files
		view.HasFolder = h.Catalog.HasAttachmentFolder(code)
	}

	view.Notices = st.TakeNotices()
	render(w, h.Logger, catalogPage, view)
}

// Select handles the course selector. It expects a "code" form field.
func (h *CatalogHandler) Select(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	st := middleware.SessionFromContext(r.Context())
	code := r.PostForm.Get("code")

	if err := h.Sessions.SelectCourse(st, code); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUnauthenticated):
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		case errors.Is(err, apperrors.ErrNotFound):
			h.Logger.Warn("select unknown course", zap.String("code", code))
			http.Error(w, "unknown course", http.StatusNotFound)
		default:
			h.Logger.Error("select course", zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Commit handles the edit form. It expects "description" and "comments"
// form fields. Persist failures are reported as a notice, not as an HTTP
// error, so the user can retry.
func (h *CatalogHandler) Commit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	st := middleware.SessionFromContext(r.Context())

	code, err := h.Sessions.CommitEdit(st, r.PostForm.Get("description"), r.PostForm.Get("comments"))
	if errors.Is(err, apperrors.ErrUnauthenticated) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if code == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.Metrics.Commits.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		h.Logger.Error("commit course edit", zap.String("code", code), zap.Error(err))
	} else {
		h.Logger.Info("course edit committed", zap.String("code", code))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
