package http

import (
	"errors"
	"io/fs"
	"mime"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/CourseKeeper/internal/apperrors"
	"github.com/atinyakov/CourseKeeper/internal/metrics"
)

// AttachmentOpener opens a single attachment of a course.
type AttachmentOpener interface {
	Open(code, name string) (*os.File, fs.FileInfo, error)
}

// FilesHandler serves attachment downloads. There is no upload route.
type FilesHandler struct {
	Catalog CatalogService
	Files   AttachmentOpener
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// Download handles GET /files/{code}/{name}. The code must belong to a
// catalog course.
func (h *FilesHandler) Download(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	name := chi.URLParam(r, "name")

	if _, err := h.Catalog.Course(code); err != nil {
		http.NotFound(w, r)
		return
	}

	f, fi, err := h.Files.Open(code, name)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			h.Logger.Error("open attachment", zap.String("code", code), zap.String("name", name), zap.Error(err))
		}
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	h.Metrics.Downloads.Inc()
	http.ServeContent(w, r, name, fi.ModTime(), f)
}
