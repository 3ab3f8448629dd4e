package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"storefront-service/internal/entity"
	"storefront-service/internal/service"
)

type UserHandler struct {
	userService *service.UserService
	access      *service.AccessService
}

func NewUserHandler(userService *service.UserService, access *service.AccessService) *UserHandler {
	return &UserHandler{userService: userService, access: access}
}

// UpsertUser records a user on sign-in --> POST /users
func (h *UserHandler) UpsertUser(c echo.Context) error {
	user := entity.User{}
	if err := c.Bind(&user); err != nil || user.Email == "" {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	// Role is never taken from the request body.
	user.Role = entity.RoleUser

	storedUser, err := h.userService.UpsertUser(c.Request().Context(), &user)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, storedUser)
}

// Login finds or creates the user and issues a token --> POST /login
func (h *UserHandler) Login(c echo.Context) error {
	login := struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}{}
	if err := c.Bind(&login); err != nil || login.Email == "" {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	token, user, err := h.userService.Login(c.Request().Context(), login.Email, login.Name)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, map[string]any{"token": token, "user": user})
}

// GetUsers lists all users --> GET /users
func (h *UserHandler) GetUsers(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(200, users)
}

// GetUserByEmail returns one user --> GET /users/:email
func (h *UserHandler) GetUserByEmail(c echo.Context) error {
	ctx := c.Request().Context()
	email := c.Param("email")

	if err := h.access.RequireSelfOrAdmin(ctx, principalEmail(c), email); err != nil {
		return respondError(c, err)
	}

	user, err := h.userService.GetUserByEmail(ctx, email)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, user)
}

// MakeAdmin elevates a user's role --> PATCH /users/admin/:id
func (h *UserHandler) MakeAdmin(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.access.RequireAdmin(ctx, principalEmail(c)); err != nil {
		return respondError(c, err)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	if err := h.userService.MakeAdmin(ctx, id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, map[string]string{"message": "User is now an admin"})
}

// DeleteUser removes a user --> DELETE /users/:id
func (h *UserHandler) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.access.RequireAdmin(ctx, principalEmail(c)); err != nil {
		return respondError(c, err)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	if err := h.userService.DeleteUser(ctx, id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, map[string]string{"message": "User deleted"})
}
