package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mosaic-folio/backend/errs"
	"github.com/rs/zerolog"
)

const maxResponseSize = 10 * 1024 * 1024 // 10MB

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

func (r Responder) WriteJSON(w http.ResponseWriter, status int, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	if len(jsonData) > maxResponseSize {
		r.logger.Error().
			Int("responseSize", len(jsonData)).
			Int("maxSize", maxResponseSize).
			Msg("response too large, truncating")

		truncatedJSON, _ := json.Marshal(map[string]interface{}{
			"error":     "Response too large",
			"status":    "error",
			"maxSizeMB": maxResponseSize / (1024 * 1024),
		})
		w.WriteHeader(http.StatusInternalServerError)
		w.Write(truncatedJSON)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// For unexpected errors, log and return generic internal error
	if !errors.As(err, &apiErr) {
		wrapped := errs.NewInternalErrorWithCause("unexpected error", err)
		r.logger.Error().Str("error", wrapped.GetFullError()).Msg("unexpected error")
		r.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:  "Internal Server Error",
			Status: "error",
		})
		return
	}

	switch {
	case errs.IsStorage(apiErr):
		r.logger.Error().
			Int("status", apiErr.StatusCode).
			Str("error", apiErr.GetFullError()).
			Msg("storage error")
	case apiErr.IsServerError():
		r.logger.Error().
			Int("status", apiErr.StatusCode).
			Str("error", apiErr.GetFullError()).
			Msg("server error")
	case errs.IsUnauthorized(apiErr):
		r.logger.Warn().Msg("rejected unauthorized request")
	case errs.IsValidation(apiErr):
		r.logger.Debug().
			Str("field", apiErr.Field).
			Str("error", apiErr.Error()).
			Msg("rejected invalid request")
	}

	// Server errors: details stay in the logs
	if apiErr.IsServerError() {
		r.WriteJSON(w, apiErr.StatusCode, ErrorResponse{
			Error:  apiErr.Message(),
			Status: "error",
		})
		return
	}

	r.WriteJSON(w, apiErr.StatusCode, ErrorResponse{
		Error:   apiErr.Error(),
		Status:  "error",
		Field:   apiErr.Field,
		Details: apiErr.Details,
	})
}
