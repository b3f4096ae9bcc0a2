package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"toiletadvisor/internal/service"
)

// BookmarkHandler handles saved posts.
type BookmarkHandler struct {
	bookmarks service.BookmarkService
}

// NewBookmarkHandler creates a new bookmark handler.
func NewBookmarkHandler(bookmarks service.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{bookmarks: bookmarks}
}

// ToggleBookmarkRequest addresses the post to save or unsave.
type ToggleBookmarkRequest struct {
	PostID uuid.UUID `json:"postId" validate:"required"`
}

// PageRequest pages through a listing.
type PageRequest struct {
	Limit  int `json:"limit" validate:"omitempty,min=1,max=100"`
	Offset int `json:"offset" validate:"min=0"`
}

// BookmarkResponse reports the bookmark state after a toggle.
type BookmarkResponse struct {
	Bookmarked bool `json:"bookmarked"`
}

// Toggle godoc
// @Summary Save or unsave a post
// @Tags bookmarks
// @Accept json
// @Produce json
// @Param request body ToggleBookmarkRequest true "Post id"
// @Success 200 {object} BookmarkResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /trpc/bookmark.toggle [post]
func (h *BookmarkHandler) Toggle(c echo.Context) error {
	var req ToggleBookmarkRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	bookmarked, err := h.bookmarks.Toggle(c.Request().Context(), session(c).UserID, req.PostID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, BookmarkResponse{Bookmarked: bookmarked})
}

// GetMine godoc
// @Summary Posts saved by the caller, newest first
// @Tags bookmarks
// @Produce json
// @Param input query string false "JSON encoded PageRequest"
// @Success 200 {array} model.PostSummary
// @Failure 401 {object} errors.ErrorResponse
// @Router /trpc/bookmark.getMine [get]
func (h *BookmarkHandler) GetMine(c echo.Context) error {
	var req PageRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	posts, err := h.bookmarks.ListMine(c.Request().Context(), session(c).UserID, req.Limit, req.Offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, posts)
}
