// Package httpx provides HTTP response utilities.
package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/acquisition-ops/workload/internal/roster"
)

// Sentinel errors mapped onto problem responses.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrValidation = errors.New("validation failed")
)

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, roster.ErrInvalidRoster):
		Problem(w, http.StatusUnprocessableEntity, "Invalid Roster", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		Problem(w, http.StatusGatewayTimeout, "Timeout", "")
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
