package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"holdings-api/internal/mapper"
	"holdings-api/internal/middleware"
	"holdings-api/internal/repositories"
	"holdings-api/internal/services"
)

// errInvalidBody marks request bodies that are not a JSON object
var errInvalidBody = errors.New("request body must be a JSON object")

// errorResponse maps a service error to its status code and body
func errorResponse(err error, requestID string) (int, middleware.ErrorResponse) {
	// Stored-record failures also wrap a *mapper.ValidationError
	if errors.Is(err, services.ErrInvalidStoredRecord) {
		resp := middleware.NewErrorResponse(requestID, "Invalid stored record",
			"a stored record does not match its schema")
		resp.Detail = err.Error()
		return http.StatusInternalServerError, resp
	}

	if verr, ok := mapper.AsValidationError(err); ok {
		resp := middleware.NewErrorResponse(requestID, "Validation failed", verr.Error())
		resp.ValidationErrors = middleware.NewValidationErrors(verr)
		return http.StatusBadRequest, resp
	}

	switch {
	case errors.Is(err, errInvalidBody):
		return http.StatusBadRequest, middleware.NewErrorResponse(requestID, "Invalid request body", err.Error())
	case repositories.IsInvalidID(err):
		return http.StatusBadRequest, middleware.NewErrorResponse(requestID, "Invalid ID", err.Error())
	case repositories.IsNotFound(err):
		return http.StatusNotFound, middleware.NewErrorResponse(requestID, "Not found", err.Error())
	case repositories.IsEmptyResult(err):
		resp := middleware.NewErrorResponse(requestID, "Empty result",
			"the record was stored but could not be read back")
		resp.Detail = err.Error()
		return http.StatusInternalServerError, resp
	}

	resp := middleware.NewErrorResponse(requestID, "Internal server error", "Database operation failed")
	resp.Detail = dbErrorDetail(err)
	return http.StatusInternalServerError, resp
}

func dbErrorDetail(err error) string {
	msg := err.Error()
	if strings.HasPrefix(msg, "DB error:") {
		return msg
	}
	return "DB error: " + msg
}

func invalidBody(err error) error {
	return fmt.Errorf("%w: %v", errInvalidBody, err)
}
