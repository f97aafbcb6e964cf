package api

import "github.com/mosaic-folio/backend/models"

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler  projectHandler
	categoryHandler categoryHandler
	healthHandler   healthHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error" example:"missing required field: title"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"title"`
}

// ProjectCollection is the listing returned by GET /api/projects
type ProjectCollection struct {
	Projects []models.SubmissionView `json:"projects"`
	Count    int                     `json:"count"`
}

// ProjectResponse wraps a single stored submission
type ProjectResponse struct {
	Message string             `json:"message"`
	Project *models.Submission `json:"project"`
}

// CategoryCollection is the listing returned by GET /api/categories
type CategoryCollection struct {
	Categories []*models.Category `json:"categories"`
	Count      int                `json:"count"`
}

// HealthResponse reports liveness and database reachability
type HealthResponse struct {
	Status        string `json:"status"`
	Database      string `json:"database"`
	StartedAt     string `json:"startedAt"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
}
