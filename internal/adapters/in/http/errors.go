package http

import (
	"errors"
	"net/http"

	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error is the body of every failed response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// statusFor maps application errors onto HTTP status codes. Anything the
// taxonomy does not name is an internal error, and so is corrupt stored data
// even though it wraps a validation failure.
func statusFor(err error) int {
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.Is(err, errs.ErrCorruptData):
		return http.StatusInternalServerError
	case errors.Is(err, errs.ErrExternalPayment):
		return http.StatusBadGateway
	case errors.Is(err, errs.ErrInvalidAddress), errors.Is(err, errs.ErrProductUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrNotEligibleForRelease),
		errors.Is(err, errs.ErrAlreadyReleased),
		errors.Is(err, errs.ErrAlreadyFinalized),
		errors.Is(err, errs.ErrStateConflict):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrEmptyCart),
		errors.Is(err, errs.ErrMissingProof):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as an Error body. Internal errors are logged and hidden
// from the caller.
func (s *Server) fail(c echo.Context, err error) error {
	code := statusFor(err)
	message := err.Error()

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
	}

	if code >= http.StatusInternalServerError {
		s.logger.WithError(err).
			WithField("path", c.Path()).
			Error("request failed")
		if code == http.StatusInternalServerError {
			message = http.StatusText(code)
		}
	}

	return c.JSON(code, Error{Code: code, Message: message})
}

// errorHandler renders errors returned by middleware and unknown routes
// with the same body as handler failures.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if writeErr := s.fail(c, err); writeErr != nil {
		s.logger.WithError(writeErr).Warn("failed to write error response")
	}
}
