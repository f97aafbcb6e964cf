package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mosaic-folio/backend/database"
	"github.com/mosaic-folio/backend/errs"
	"github.com/mosaic-folio/backend/models"
	"github.com/mosaic-folio/backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const maxSubmissionBodyBytes = 1 << 20

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	queries     *services.QueryService
	submissions *services.SubmissionService
	moderation  *services.ModerationService
}

func newProjectHandler(queries *services.QueryService, submissions *services.SubmissionService, moderation *services.ModerationService) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		queries:     queries,
		submissions: submissions,
		moderation:  moderation,
	}
}

// listProjects lists submissions
// @Summary List projects
// @Description Validated projects by default. `id` selects one project, `projectId` a category
// @Description regardless of state, `pending=true` the projects awaiting validation.
// @Tags Projects
// @Produce json
// @Param id query int false "Project ID"
// @Param projectId query int false "Category ID"
// @Param pending query bool false "Only projects awaiting validation"
// @Success 200 {object} ProjectCollection
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid id or projectId"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching projects"
// @Router /api/projects [get]
func (h projectHandler) listProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, matchable, err := parseProjectFilter(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if !matchable {
			h.responder.WriteJSON(w, http.StatusOK, ProjectCollection{Projects: []models.SubmissionView{}})
			return
		}

		projects, err := h.queries.List(r.Context(), filter)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, ProjectCollection{
			Projects: projects,
			Count:    len(projects),
		})
	}
}

// parseProjectFilter reads the listing query. matchable is false when an id
// is an integer no submission or category can have.
func parseProjectFilter(r *http.Request) (filter database.SubmissionFilter, matchable bool, err error) {
	query := r.URL.Query()

	switch {
	case query.Get("id") != "":
		id, ok, err := services.ParseID("id", query.Get("id"))
		if err != nil || !ok {
			return filter, false, err
		}
		filter.ID = &id
	case query.Get("projectId") != "":
		categoryID, ok, err := services.ParseID("projectId", query.Get("projectId"))
		if err != nil || !ok {
			return filter, false, err
		}
		filter.CategoryID = &categoryID
	case query.Get("pending") == "true":
		filter.Pending = true
	}
	return filter, true, nil
}

// projectIDParam reads the {projectID} path value. Integers no submission can
// have resolve to a not found error.
func projectIDParam(r *http.Request) (uint, error) {
	projectID, ok, err := services.ParseID("projectID", chi.URLParam(r, "projectID"))
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errs.NewNotFound("project")
	}
	return projectID, nil
}

// createProject submits a project for validation
// @Summary Submit project
// @Description Stores a pending project, creating the student on first submission
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body services.SubmitRequest true "Project data"
// @Success 201 {object} ProjectResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Missing or invalid field"
// @Failure 413 {object} ErrorResponse "Request Entity Too Large - Body over 1MB"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error creating project"
// @Router /api/projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxSubmissionBodyBytes)

		var req services.SubmitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var apiErr *errs.ApiErr
			if errors.As(err, &apiErr) {
				h.responder.WriteError(w, apiErr)
				return
			}
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				h.responder.WriteError(w, errs.NewApiErr(http.StatusRequestEntityTooLarge,
					fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)))
				return
			}
			h.logger.Warn().Err(err).Msg("Failed to decode project request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		project, err := h.submissions.Submit(r.Context(), req)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, http.StatusCreated, ProjectResponse{
			Message: "project submitted successfully",
			Project: project,
		})
	}
}

// validateProject publishes a pending project
// @Summary Validate project
// @Description Sets the validation timestamp. Validating twice keeps the first timestamp.
// @Tags Moderation
// @Produce json
// @Param projectID path int true "Project ID"
// @Success 200 {object} ProjectResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 401 {object} ErrorResponse "Unauthorized - Missing or wrong moderation token"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error validating project"
// @Router /api/projects/{projectID} [patch]
func (h projectHandler) validateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.moderation.Validate(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().
			Uint("projectId", project.ID).
			Str("moderator", ctxGetModerator(r.Context())).
			Msg("Project validated")

		h.responder.WriteJSON(w, http.StatusOK, ProjectResponse{
			Message: "project validated successfully",
			Project: project,
		})
	}
}

// redirectThumbnail redirects to the thumbnail.png of the project's repository
// @Summary Project thumbnail
// @Tags Projects
// @Param projectID path int true "Project ID"
// @Success 302
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /api/projects/{projectID}/thumbnail [get]
func (h projectHandler) redirectThumbnail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.queries.Get(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		http.Redirect(w, r, services.ThumbnailURL(project.GitUsername, project.Github, project.Title), http.StatusFound)
	}
}
