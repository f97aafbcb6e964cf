package api

import (
	"net/http"

	"github.com/mosaic-folio/backend/services"
	"github.com/rs/zerolog/log"
)

type categoryHandler struct {
	responder Responder
	queries   *services.QueryService
}

func newCategoryHandler(queries *services.QueryService) categoryHandler {
	logger := log.With().Str("handlerName", "categoryHandler").Logger()

	return categoryHandler{
		responder: NewResponder(logger),
		queries:   queries,
	}
}

// getAllCategories lists the project categories with their display names
// @Summary List categories
// @Tags Categories
// @Produce json
// @Success 200 {object} CategoryCollection
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching categories"
// @Router /api/categories [get]
func (h categoryHandler) getAllCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.queries.Categories(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, CategoryCollection{
			Categories: categories,
			Count:      len(categories),
		})
	}
}
