package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cleanworks/invoicing-system/internal/core/ports"
)

// UserHandler serves the caller's profile and the admin user directory.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GetProfile returns the caller's account and profile.
//
// @Summary      Get own profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/me/profile [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}
	user, err := h.users.Profile(c.Request().Context(), actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateProfile replaces the caller's profile fields.
//
// @Summary      Update own profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profileRequest  true  "Profile fields printed on invoices"
// @Success      200   {object}  userResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/me/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}
	var req profileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), actor.ID, toProfile(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// ListUsers returns every account.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/admin/users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}
	users, err := h.users.ListUsers(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	resp := make([]*userResponse, len(users))
	for i, u := range users {
		resp[i] = toUserResponse(u)
	}
	return c.JSON(http.StatusOK, resp)
}

// ChangeRole sets another user's role.
//
// @Summary      Change a user's role
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string             true  "User id"
// @Param        body  body  changeRoleRequest  true  "New role"
// @Success      204
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/admin/users/{id}/role [put]
func (h *UserHandler) ChangeRole(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}
	var req changeRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.users.ChangeRole(c.Request().Context(), actor, c.Param("id"), req.Role); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
