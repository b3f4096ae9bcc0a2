package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"toiletadvisor/internal/service"
)

// CommentHandler handles comment procedures.
type CommentHandler struct {
	comments service.CommentService
}

// NewCommentHandler creates a new comment handler.
func NewCommentHandler(comments service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// ListCommentsRequest pages through a post's comments.
type ListCommentsRequest struct {
	PostID uuid.UUID `json:"postId" validate:"required"`
	Limit  int       `json:"limit" validate:"omitempty,min=1,max=100"`
	Offset int       `json:"offset" validate:"min=0"`
}

// CreateCommentRequest represents a new comment.
type CreateCommentRequest struct {
	PostID  uuid.UUID `json:"postId" validate:"required"`
	Content string    `json:"content" validate:"required,max=1024"`
}

// UpdateCommentRequest replaces a comment's content.
type UpdateCommentRequest struct {
	ID      uuid.UUID `json:"id" validate:"required"`
	Content string    `json:"content" validate:"required,max=1024"`
}

// GetByPostID godoc
// @Summary Comments of a post, newest first
// @Tags comments
// @Produce json
// @Param input query string true "JSON encoded ListCommentsRequest"
// @Success 200 {array} model.CommentView
// @Failure 400 {object} errors.ErrorResponse
// @Router /trpc/comment.getByPostId [get]
func (h *CommentHandler) GetByPostID(c echo.Context) error {
	var req ListCommentsRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	comments, err := h.comments.ListByPost(c.Request().Context(), req.PostID, req.Limit, req.Offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, comments)
}

// Create godoc
// @Summary Comment on a post
// @Tags comments
// @Accept json
// @Produce json
// @Param request body CreateCommentRequest true "Comment"
// @Success 200 {object} IDResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /trpc/comment.create [post]
func (h *CommentHandler) Create(c echo.Context) error {
	var req CreateCommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	comment, err := h.comments.Create(c.Request().Context(), session(c).UserID, req.PostID, req.Content)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, IDResponse{ID: comment.ID})
}

// Update godoc
// @Summary Edit a comment written by the caller
// @Tags comments
// @Accept json
// @Produce json
// @Param request body UpdateCommentRequest true "New content"
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /trpc/comment.update [post]
func (h *CommentHandler) Update(c echo.Context) error {
	var req UpdateCommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.comments.Update(c.Request().Context(), session(c).UserID, req.ID, req.Content); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, success)
}

// Delete godoc
// @Summary Delete a comment written by the caller
// @Tags comments
// @Accept json
// @Produce json
// @Param request body IDRequest true "Comment id"
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /trpc/comment.delete [post]
func (h *CommentHandler) Delete(c echo.Context) error {
	var req IDRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.comments.Delete(c.Request().Context(), session(c).UserID, req.ID); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, success)
}
