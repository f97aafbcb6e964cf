package api

import (
	"github.com/mosaic-folio/backend/database"
	"github.com/mosaic-folio/backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, router router) *routeHandlers {
	queries := services.NewQueryService(database)

	return &routeHandlers{
		projectHandler: newProjectHandler(
			queries,
			services.NewSubmissionService(database, router.notifier),
			services.NewModerationService(database),
		),
		categoryHandler: newCategoryHandler(queries),
		healthHandler:   newHealthHandler(database, router.startupTime),
	}
}
