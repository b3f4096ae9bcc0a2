package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"toiletadvisor/internal/errors"
	"toiletadvisor/internal/model"
	"toiletadvisor/internal/repository"
)

// Default and maximum page sizes for listings.
const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// PostDetail is a post with everything the detail page shows.
type PostDetail struct {
	model.PostSummary
	Media    []model.Media       `json:"media"`
	Ratings  []model.Rating      `json:"ratings"`
	Comments []model.CommentView `json:"comments"`
}

// CreatePostInput carries the fields of a new post.
type CreatePostInput struct {
	Title       string
	Description string
	Price       string
	MediaURLs   []string
}

// PostService handles posts and their ratings.
type PostService interface {
	List(ctx context.Context, filter repository.PostFilter) ([]model.PostSummary, error)
	Get(ctx context.Context, id uuid.UUID) (*PostDetail, error)
	Create(ctx context.Context, userID uuid.UUID, input CreatePostInput) (*model.Post, error)
	Update(ctx context.Context, userID, postID uuid.UUID, update repository.PostUpdate) error
	Delete(ctx context.Context, userID, postID uuid.UUID) error
	Rate(ctx context.Context, userID, postID uuid.UUID, value int) error
}

type postService struct {
	posts    repository.PostRepository
	ratings  repository.RatingRepository
	comments repository.CommentRepository
}

// NewPostService creates a new post service.
func NewPostService(posts repository.PostRepository, ratings repository.RatingRepository, comments repository.CommentRepository) PostService {
	return &postService{
		posts:    posts,
		ratings:  ratings,
		comments: comments,
	}
}

func (s *postService) List(ctx context.Context, filter repository.PostFilter) ([]model.PostSummary, error) {
	filter.Limit = pageSize(filter.Limit)
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	posts, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (s *postService) Get(ctx context.Context, id uuid.UUID) (*PostDetail, error) {
	summary, err := s.posts.Summary(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrPostNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	media, err := s.posts.ListMedia(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	ratings, err := s.ratings.ListByPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	comments, err := s.comments.ListByPost(ctx, id, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	detail := &PostDetail{
		PostSummary: *summary,
		Media:       media,
		Ratings:     ratings,
		Comments:    comments,
	}
	// keep the aggregates consistent with the ratings returned alongside them
	detail.AvgRating = model.AverageRating(ratings)
	detail.RatingCount = int64(len(ratings))
	detail.MediaCount = int64(len(media))
	return detail, nil
}

func (s *postService) Create(ctx context.Context, userID uuid.UUID, input CreatePostInput) (*model.Post, error) {
	if len(input.MediaURLs) > model.MaxMediaPerPost {
		return nil, errors.ErrTooManyMedia
	}

	post := &model.Post{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		UserID:      userID,
	}
	if err := s.posts.Create(ctx, post, input.MediaURLs); err != nil {
		return nil, writeFailed("create post", err)
	}
	return post, nil
}

// Update changes the non-empty fields of a post owned by userID.
func (s *postService) Update(ctx context.Context, userID, postID uuid.UUID, update repository.PostUpdate) error {
	if _, err := s.owned(ctx, userID, postID); err != nil {
		return err
	}

	update.Title = nonEmpty(update.Title)
	update.Description = nonEmpty(update.Description)
	update.Price = nonEmpty(update.Price)

	if err := s.posts.Update(ctx, postID, update); err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

func (s *postService) Delete(ctx context.Context, userID, postID uuid.UUID) error {
	if _, err := s.owned(ctx, userID, postID); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrPostNotFound
		}
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// Rate records userID's score for the post, replacing any earlier one.
func (s *postService) Rate(ctx context.Context, userID, postID uuid.UUID, value int) error {
	if value < 0 || value > model.MaxRating {
		return errors.ErrInvalidRating
	}
	if _, err := s.find(ctx, postID); err != nil {
		return err
	}

	rating := &model.Rating{UserID: userID, PostID: postID, Value: uint8(value)}
	if err := s.ratings.Upsert(ctx, rating); err != nil {
		return writeFailed("rate post", err)
	}
	return nil
}

func (s *postService) find(ctx context.Context, postID uuid.UUID) (*model.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return post, nil
}

func (s *postService) owned(ctx context.Context, userID, postID uuid.UUID) (*model.Post, error) {
	post, err := s.find(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, errors.ErrNotPostOwner
	}
	return post, nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func pageSize(limit int) int {
	switch {
	case limit <= 0:
		return DefaultPageSize
	case limit > MaxPageSize:
		return MaxPageSize
	default:
		return limit
	}
}

// writeFailed wraps an insert error. A foreign key failure means the caller's
// user row is gone while its session lives on.
func writeFailed(op string, err error) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return errors.ErrInvalidSession
	}
	return fmt.Errorf("%s: %w", op, err)
}
