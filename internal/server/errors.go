// Package server provides the HTTP REST API for the CRNA prep hub.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/asealnassar/crna-prep-hub/internal/interview"
)

// ErrForbidden indicates the caller lacks the required tier or role.
type ErrForbidden struct {
	Reason string
}

func (e *ErrForbidden) Error() string {
	return fmt.Sprintf("forbidden: %s", e.Reason)
}

// ErrNotFound indicates the requested resource does not exist.
type ErrNotFound struct {
	Resource string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus maps an error to its HTTP status code. Interview engine
// sentinels get explicit mappings; sessions that were reset or never
// existed report 410 so clients know to start over.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, interview.ErrNotEntitled):
		return http.StatusForbidden
	case errors.Is(err, interview.ErrAnswerPending):
		return http.StatusConflict
	case errors.Is(err, interview.ErrAlreadyStarted):
		return http.StatusConflict
	case errors.Is(err, interview.ErrSessionNotFound),
		errors.Is(err, interview.ErrNotStarted):
		return http.StatusGone
	case errors.Is(err, interview.ErrEnded):
		return http.StatusConflict
	case errors.Is(err, interview.ErrEmptyAnswer),
		errors.Is(err, interview.ErrMissingTopic):
		return http.StatusBadRequest
	}

	switch err.(type) {
	case *ErrForbidden:
		return http.StatusForbidden
	case *ErrNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
