package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withTraceID, h.withLogging, middleware.Recoverer, withGZip)
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}

	router.NotFound(notFound)
	router.MethodNotAllowed(CheckHTTPMethod(router))

	router.Route("/api", func(r chi.Router) {
		// routes without authorization
		r.Get("/version", h.getServerVersion)
		r.Get("/health", h.health)

		// checks X-API-Key itself, bearer tokens cannot mint new tokens
		r.Post("/auth/token", h.issueToken)

		r.Group(func(r chi.Router) {
			r.Use(h.auth)

			r.Route("/sync", func(r chi.Router) {
				r.Post("/start", h.openSession)
				r.Post("/incremental", h.openIncrementalSession)
				r.With(h.checkHashing).Post("/metadata", h.reconcileMetadata)
				r.With(h.limitUpload).Post("/file", h.uploadFile)
				r.Post("/complete", h.completeSession)
				r.Get("/status", h.queryStatus)
				r.Post("/verify", h.verifySync)
			})
		})
	})

	return router
}
