package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobboard/job-board-api/internal/api/middleware"
	"github.com/jobboard/job-board-api/internal/core/ports"
)

// caller returns the identity established by the Auth middleware. A missing
// identity means the route was registered without Auth.
func caller(c echo.Context) (ports.Identity, error) {
	who, ok := middleware.IdentityFrom(c)
	if !ok || who.UserID == "" {
		return ports.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	return who, nil
}

// bindAndValidate decodes the request body into req and validates it.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}
