package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"toiletadvisor/internal/repository"
	"toiletadvisor/internal/service"
)

// UserHandler bundles user procedures.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// UpdateProfileRequest changes the caller's public profile.
type UpdateProfileRequest struct {
	Name              *string `json:"name" validate:"omitempty,max=255"`
	ProfilePictureURL *string `json:"profilePictureUrl" validate:"omitempty,http_url,max=255"`
}

// GetAll godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} model.PublicUser
// @Failure 500 {object} errors.ErrorResponse
// @Router /trpc/user.getAll [get]
func (h *UserHandler) GetAll(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// GetByID godoc
// @Summary Public profile of a user
// @Tags users
// @Produce json
// @Param input query string true "JSON encoded IDRequest"
// @Success 200 {object} model.PublicUser
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /trpc/user.getById [get]
func (h *UserHandler) GetByID(c echo.Context) error {
	var req IDRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.svc.GetUser(c.Request().Context(), req.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// GetProfile godoc
// @Summary The caller's own profile
// @Tags users
// @Produce json
// @Success 200 {object} model.Profile
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /trpc/user.getProfile [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	profile, err := h.svc.GetProfile(c.Request().Context(), session(c).UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Change the caller's name or profile picture
// @Tags users
// @Accept json
// @Produce json
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /trpc/user.updateProfile [post]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	err := h.svc.UpdateProfile(c.Request().Context(), session(c).UserID, repository.UserUpdate{
		Name:              req.Name,
		ProfilePictureURL: req.ProfilePictureURL,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, success)
}
