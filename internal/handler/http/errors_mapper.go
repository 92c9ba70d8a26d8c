package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/internal/service"
	"github.com/MKhiriev/go-invoicer/internal/utils"
	"github.com/MKhiriev/go-invoicer/internal/validators"
	"github.com/MKhiriev/go-invoicer/models"
)

type errorStatus struct {
	err    error
	status int
}

// errorStatuses is checked in order: ErrInternal comes first so that a
// wrapped internal failure is never reported with a client status.
var errorStatuses = []errorStatus{
	{service.ErrInternal, http.StatusInternalServerError},

	{ErrInvalidJSON, http.StatusBadRequest},
	{ErrInvalidID, http.StatusBadRequest},
	{ErrInvalidQuery, http.StatusBadRequest},
	{service.ErrValidation, http.StatusBadRequest},

	{ErrEmptyAuthorizationHeader, http.StatusUnauthorized},
	{ErrInvalidAuthorizationHeader, http.StatusUnauthorized},
	{ErrInvalidSession, http.StatusUnauthorized},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrAccountDisabled, http.StatusUnauthorized},
	{service.ErrUnknownOwner, http.StatusUnauthorized},
	{service.ErrUnauthorized, http.StatusUnauthorized},

	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrInvalidShareToken, http.StatusNotFound},
	{service.ErrDuplicateEmail, http.StatusConflict},
	{service.ErrConflict, http.StatusConflict},
}

func statusFromError(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// errorMessage returns the text sent to the caller. Internal details stay
// in the logs.
func errorMessage(err error, status int) string {
	if status >= http.StatusInternalServerError {
		return http.StatusText(http.StatusInternalServerError)
	}
	if errors.Is(err, service.ErrValidation) {
		return err.Error()
	}
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.err.Error()
		}
	}
	return http.StatusText(status)
}

// writeError logs err and writes it as a models.ErrorResponse.
func writeError(w http.ResponseWriter, r *http.Request, funcName string, err error) {
	status := statusFromError(err)
	log := logger.FromRequest(r)

	if status >= http.StatusInternalServerError {
		log.Err(err).Str("func", funcName).Msg("request failed")
	} else {
		log.Debug().Err(err).Str("func", funcName).Int("status", status).Msg("request rejected")
	}

	resp := models.ErrorResponse{Message: errorMessage(err, status)}

	var vErr *validators.ValidationError
	if errors.As(err, &vErr) {
		resp.Fields = vErr.Fields()
	}

	utils.WriteJSON(w, resp, status)
}
