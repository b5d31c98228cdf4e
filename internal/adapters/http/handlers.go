// Package http contains the echo handlers that expose the document
// and the entity mutators. Handlers bind and validate requests, call
// into the services and translate domain errors to status codes; no
// business logic lives here.
package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/soloplan/core/internal/domain/entities"
)

// domainError maps domain sentinel errors onto HTTP errors. Unknown
// errors surface as 500.
func domainError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, entities.ErrProjectNotFound),
		errors.Is(err, entities.ErrTaskNotFound),
		errors.Is(err, entities.ErrQuickTaskNotFound),
		errors.Is(err, entities.ErrNoteNotFound),
		errors.Is(err, entities.ErrCategoryNotFound),
		errors.Is(err, entities.ErrTodoNotFound),
		errors.Is(err, entities.ErrTodoCategoryNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, entities.ErrDefaultCategory),
		errors.Is(err, entities.ErrInvalidStatus):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// bindAndValidate decodes the request body and runs struct validation.
// A request that fails here never reaches a mutator.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
