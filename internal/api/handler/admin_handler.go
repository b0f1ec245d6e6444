package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobboard/job-board-api/internal/core/domain"
	"github.com/jobboard/job-board-api/internal/core/ports"
)

// AdminHandler serves the admin dashboard and user management.
type AdminHandler struct {
	users     ports.UserService
	integrity ports.IntegrityService
}

func NewAdminHandler(users ports.UserService, integrity ports.IntegrityService) *AdminHandler {
	return &AdminHandler{users: users, integrity: integrity}
}

// Stats handles GET /admin/stats.
//
// @Summary      Dashboard counts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  adminStatsResponse
// @Router       /admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	stats, err := h.users.Stats(c.Request().Context(), who.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, adminStatsResponse{Message: "Successfully fetched stats", Stats: *stats})
}

// Recent handles GET /admin/recent.
//
// @Summary      Newest users and jobs
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  adminRecentResponse
// @Router       /admin/recent [get]
func (h *AdminHandler) Recent(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	users, jobs, err := h.users.Recent(c.Request().Context(), who.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, adminRecentResponse{
		Message:     "Successfully fetched recent stats",
		RecentUsers: users,
		RecentJobs:  jobs,
	})
}

// ListUsers handles GET /admin/users.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  usersResponse
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	users, err := h.users.List(c.Request().Context(), who.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usersResponse{Message: "Fetched the list of users", Users: users})
}

// AddUser handles POST /admin/users.
//
// @Summary      Add a user of any role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addUserRequest  true  "User details"
// @Success      201   {object}  messageResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /admin/users [post]
func (h *AdminHandler) AddUser(c echo.Context) error {
	var req addUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	_, err := h.users.Create(c.Request().Context(), ports.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, messageResponse{Message: "User Added Successfully!"})
}

// GetUser handles GET /admin/users/:userId.
//
// @Summary      Get a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User id"
// @Success      200     {object}  userResponse
// @Failure      404     {object}  errorResponse
// @Router       /admin/users/{userId} [get]
func (h *AdminHandler) GetUser(c echo.Context) error {
	user, err := h.users.Get(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Message: "Fetched the user Successfully", User: user})
}

// EditUser handles PUT /admin/users/:userId.
//
// @Summary      Update a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string           true  "User id"
// @Param        body    body      editUserRequest  true  "Fields to change"
// @Success      200     {object}  messageResponse
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /admin/users/{userId} [put]
func (h *AdminHandler) EditUser(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	var req editUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err = h.users.Edit(c.Request().Context(), c.Param("userId"), who.UserID, ports.EditUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Role:     domain.Role(req.Role),
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "User was updated successfully."})
}

// DeleteUser handles DELETE /admin/users/:userId.
//
// @Summary      Delete a user and everything that depends on them
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User id"
// @Success      200     {object}  messageResponse
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /admin/users/{userId} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.integrity.DeleteUser(c.Request().Context(), c.Param("userId"), who.UserID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "User record was deleted successfully!"})
}
