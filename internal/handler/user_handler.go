package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"shopgate/internal/auth"
	apperrors "shopgate/internal/errors"
	"shopgate/internal/model"
	"shopgate/internal/service"
)

// UserHandler handles account endpoints.
type UserHandler struct {
	userService service.UserService
	authService service.AuthService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService, authService service.AuthService) *UserHandler {
	return &UserHandler{userService: userService, authService: authService}
}

// ChangePasswordRequest represents a password change request.
type ChangePasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// UserSummary is the directory projection of a user.
type UserSummary struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	RoleID *uint  `json:"role_id,omitempty"`
}

// MyUser godoc
// @Summary Get the authenticated user
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /my-user [get]
func (h *UserHandler) MyUser(c echo.Context) error {
	p := auth.PrincipalFrom(c)
	if p == nil {
		return apperrors.ErrNotAuthenticated
	}
	if err := auth.RequirePermission(p, model.PermGetMyUser); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user":        p.User,
		"permissions": p.Permissions,
	})
}

// ListUsers godoc
// @Summary List users
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserSummary
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	p := auth.PrincipalFrom(c)
	if p == nil {
		return apperrors.ErrNotAuthenticated
	}
	if err := auth.RequirePermission(p, model.PermGetUsers); err != nil {
		return err
	}

	users, err := h.userService.List(c.Request().Context())
	if err != nil {
		return err
	}

	summaries := make([]UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, UserSummary{
			Name:   u.Name,
			Email:  u.Email,
			RoleID: u.RoleID,
		})
	}
	return c.JSON(http.StatusOK, summaries)
}

// ChangePassword godoc
// @Summary Change the authenticated user's password
// @Tags account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "New password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /change-password [patch]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	p := auth.PrincipalFrom(c)
	if p == nil {
		return apperrors.ErrNotAuthenticated
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ChangePassword(c.Request().Context(), p.User.Email, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "password changed, existing tokens are invalidated",
	})
}
