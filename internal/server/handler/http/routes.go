package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/atinyakov/CourseKeeper/internal/middleware"
	"github.com/atinyakov/CourseKeeper/internal/session"
)

// NewRouter constructs the HTTP handler of the catalog server.
//
// Routes:
//
//	GET  /health              → HealthHandler
//	GET  /metrics             → metricsHandler
//	GET  /login               → authHandler.LoginPage
//	POST /login               → authHandler.Login
//	GET  /                    → catalogHandler.Index        (authenticated)
//	POST /select              → catalogHandler.Select       (authenticated)
//	POST /commit              → catalogHandler.Commit       (authenticated)
//	GET  /files/{code}/{name} → filesHandler.Download       (authenticated)
//
// Every route except /health and /metrics runs inside a session. Form posts
// must be application/x-www-form-urlencoded.
func NewRouter(
	authHandler *AuthHandler,
	catalogHandler *CatalogHandler,
	filesHandler *FilesHandler,
	sessions *session.Store,
	metricsHandler http.Handler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(chiMiddleware.Recoverer)

	r.Get("/health", HealthHandler)
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.WithSession(sessions))
		r.Use(chiMiddleware.AllowContentType("application/x-www-form-urlencoded"))

		r.Get("/login", authHandler.LoginPage)
		r.Post("/login", authHandler.Login)

		// Protected group: the session controller re-checks authentication
		// for every state change as well.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth("/login"))
			r.Get("/", catalogHandler.Index)
			r.Post("/select", catalogHandler.Select)
			r.Post("/commit", catalogHandler.Commit)
			r.Get("/files/{code}/{name}", filesHandler.Download)
		})
	})

	return r
}
