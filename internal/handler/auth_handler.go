package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"toiletadvisor/internal/auth"
	"toiletadvisor/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=4,max=255"`
	Password string `json:"password" validate:"required,password"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdatePasswordRequest represents a password change.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required,min=8"`
	NewPassword     string `json:"newPassword" validate:"required,password"`
}

// NameResponse is returned by register and login.
type NameResponse struct {
	Name string `json:"name"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 200 {object} NameResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /trpc/auth.register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), req.Name, req.Password)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, NameResponse{Name: user.Name})
}

// Login godoc
// @Summary Log in and receive a session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} NameResponse
// @Header 200 {string} Set-Cookie "session_id"
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /trpc/auth.login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Login(c.Request().Context(), auth.EchoCookies(c), req.Name, req.Password)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, NameResponse{Name: user.Name})
}

// Logout godoc
// @Summary Log out and expire the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /trpc/auth.logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), auth.EchoCookies(c), session(c).ID); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, success)
}

// GetSession godoc
// @Summary Current session user, or null when the user no longer exists
// @Tags auth
// @Produce json
// @Success 200 {object} model.SessionUser
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /trpc/auth.getSession [get]
func (h *AuthHandler) GetSession(c echo.Context) error {
	user, err := h.authService.GetSession(c.Request().Context(), session(c).UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdatePassword godoc
// @Summary Change the caller's password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body UpdatePasswordRequest true "Current and new password"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /trpc/auth.updatePassword [post]
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	var req UpdatePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.authService.UpdatePassword(c.Request().Context(), session(c).UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, success)
}
