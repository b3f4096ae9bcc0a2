package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"toiletadvisor/internal/repository"
	"toiletadvisor/internal/service"
)

// PostHandler handles post and rating procedures.
type PostHandler struct {
	posts service.PostService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(posts service.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// ListPostsRequest filters the feed.
type ListPostsRequest struct {
	Search    string   `json:"search" validate:"max=255"`
	MinRating *float64 `json:"minRating" validate:"omitempty,min=0,max=5"`
	Limit     int      `json:"limit" validate:"omitempty,min=1,max=100"`
	Offset    int      `json:"offset" validate:"min=0"`
}

// IDRequest addresses a single entity.
type IDRequest struct {
	ID uuid.UUID `json:"id" validate:"required"`
}

// CreatePostRequest represents a new post.
type CreatePostRequest struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description" validate:"required,max=1024"`
	Price       string   `json:"price" validate:"max=50"`
	MediaURLs   []string `json:"mediaUrls" validate:"max=10,dive,http_url,max=1024"`
}

// UpdatePostRequest changes the non-empty fields of a post.
type UpdatePostRequest struct {
	ID          uuid.UUID `json:"id" validate:"required"`
	Title       *string   `json:"title" validate:"omitempty,max=255"`
	Description *string   `json:"description" validate:"omitempty,max=1024"`
	Price       *string   `json:"price" validate:"omitempty,max=50"`
}

// RatePostRequest scores a post from 0 to 5.
type RatePostRequest struct {
	PostID uuid.UUID `json:"postId" validate:"required"`
	Value  *int      `json:"value" validate:"required,min=0,max=5"`
}

// IDResponse carries the id of a created entity.
type IDResponse struct {
	ID uuid.UUID `json:"id"`
}

// GetAll godoc
// @Summary List posts, newest first
// @Tags posts
// @Produce json
// @Param input query string false "JSON encoded ListPostsRequest"
// @Success 200 {array} model.PostSummary
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /trpc/post.getAll [get]
func (h *PostHandler) GetAll(c echo.Context) error {
	var req ListPostsRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	posts, err := h.posts.List(c.Request().Context(), repository.PostFilter{
		Search:    req.Search,
		MinRating: req.MinRating,
		Limit:     req.Limit,
		Offset:    req.Offset,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, posts)
}

// GetByID godoc
// @Summary Post with media, ratings and comments
// @Tags posts
// @Produce json
// @Param input query string true "JSON encoded IDRequest"
// @Success 200 {object} service.PostDetail
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /trpc/post.getById [get]
func (h *PostHandler) GetByID(c echo.Context) error {
	var req IDRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	post, err := h.posts.Get(c.Request().Context(), req.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

// Create godoc
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Param request body CreatePostRequest true "Post"
// @Success 200 {object} IDResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /trpc/post.create [post]
func (h *PostHandler) Create(c echo.Context) error {
	var req CreatePostRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	post, err := h.posts.Create(c.Request().Context(), session(c).UserID, service.CreatePostInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		MediaURLs:   req.MediaURLs,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, IDResponse{ID: post.ID})
}

// Update godoc
// @Summary Update a post owned by the caller
// @Tags posts
// @Accept json
// @Produce json
// @Param request body UpdatePostRequest true "Fields to change"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /trpc/post.update [post]
func (h *PostHandler) Update(c echo.Context) error {
	var req UpdatePostRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	err := h.posts.Update(c.Request().Context(), session(c).UserID, req.ID, repository.PostUpdate{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, success)
}

// Delete godoc
// @Summary Delete a post owned by the caller
// @Tags posts
// @Accept json
// @Produce json
// @Param request body IDRequest true "Post id"
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /trpc/post.delete [post]
func (h *PostHandler) Delete(c echo.Context) error {
	var req IDRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.posts.Delete(c.Request().Context(), session(c).UserID, req.ID); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, success)
}

// Rate godoc
// @Summary Rate a post; rating again replaces the earlier value
// @Tags posts
// @Accept json
// @Produce json
// @Param request body RatePostRequest true "Rating"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /trpc/post.rate [post]
func (h *PostHandler) Rate(c echo.Context) error {
	var req RatePostRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.posts.Rate(c.Request().Context(), session(c).UserID, req.PostID, *req.Value); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, success)
}
