package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/codexray/pkg/buildinfo"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Server", buildinfo.UserAgent()))
	r.Use(requestLogger(s.logger))
	r.Use(cors)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/schemes", s.handleSchemes)
		r.Post("/sessions", s.handleCreateSession)

		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Use(s.withSession)
			r.Delete("/", s.handleDeleteSession)

			r.Post("/projects", s.handleAddProject)
			r.Delete("/projects/{name}", s.handleRemoveProject)

			r.Get("/filter", s.handleGetFilter)
			r.Put("/filter", s.handlePutFilter)
			r.Post("/exclude", s.handleExclude)

			r.Get("/options", s.handleGetOptions)
			r.Put("/options", s.handlePutOptions)

			r.Get("/languages", s.handleLanguages)
			r.Get("/tree", s.handleTree)
			r.Get("/render.{format}", s.handleRender)
			r.Post("/click", s.handleClick)
		})
	})
	return r
}
