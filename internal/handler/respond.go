// Package handler contains the HTTP handlers for the ordering API.
// Handlers bind JSON, call into the repositories and translate
// sentinel errors into the stable error envelope
// {"error": code, "message": text}.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/maison-order-desk/internal/repository"
	"github.com/iliyamo/maison-order-desk/internal/store"
)

// fail writes the error envelope with the given status and code.
func fail(c echo.Context, status int, code, message string) error {
	return c.JSON(status, echo.Map{"error": code, "message": message})
}

// repoError maps repository sentinels onto HTTP statuses and error
// codes. Anything unrecognized is an internal error; details stay in
// the server log, never in the response.
func repoError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrUnknownDepartment):
		return fail(c, http.StatusNotFound, "not_found", "unknown department")
	case errors.Is(err, repository.ErrValidation):
		return fail(c, http.StatusBadRequest, "validation_error", "invalid input")
	case errors.Is(err, repository.ErrSetupDenied):
		return fail(c, http.StatusForbidden, "auth_setup_denied", "setup secret rejected")
	case errors.Is(err, repository.ErrSlotTaken):
		return fail(c, http.StatusConflict, "slot_taken", "credential slot already occupied")
	case errors.Is(err, repository.ErrCapacityReached):
		return fail(c, http.StatusConflict, "capacity_reached", "credential capacity reached")
	case errors.Is(err, repository.ErrAuthFailed):
		return fail(c, http.StatusUnauthorized, "auth_failed", "authentication failed")
	case errors.Is(err, store.ErrPersistence):
		return fail(c, http.StatusInternalServerError, "persistence_error", "could not persist changes")
	default:
		return fail(c, http.StatusInternalServerError, "internal_error", "unexpected error")
	}
}

// HTTPErrorHandler renders Echo-level failures (unknown routes, panics
// recovered by middleware) in the same envelope as handler errors, so
// clients never see a stack trace or an HTML error page.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	code := "internal_error"
	message := "unexpected error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if status == http.StatusNotFound {
			code = "not_found"
			message = "route not found"
		} else if status == http.StatusMethodNotAllowed {
			code = "not_found"
			message = "method not allowed"
		}
	}
	_ = fail(c, status, code, message)
}
