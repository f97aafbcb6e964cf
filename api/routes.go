package api

import (
	"github.com/go-chi/chi/v5"
)

func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Get("/health", handlers.healthHandler.getHealth())

	r.Route("/api", func(r chi.Router) {
		r.Get("/projects", handlers.projectHandler.listProjects())
		r.Post("/projects", handlers.projectHandler.createProject())
		r.Get("/projects/{projectID}/thumbnail", handlers.projectHandler.redirectThumbnail())

		// Moderation
		r.With(authMiddleware.authenticate).Patch("/projects/{projectID}", handlers.projectHandler.validateProject())

		r.Get("/categories", handlers.categoryHandler.getAllCategories())
	})
}
