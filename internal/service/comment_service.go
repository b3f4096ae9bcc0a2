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

// CommentService handles comments on posts.
type CommentService interface {
	ListByPost(ctx context.Context, postID uuid.UUID, limit, offset int) ([]model.CommentView, error)
	Create(ctx context.Context, userID, postID uuid.UUID, content string) (*model.Comment, error)
	Update(ctx context.Context, userID, commentID uuid.UUID, content string) error
	Delete(ctx context.Context, userID, commentID uuid.UUID) error
}

type commentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
}

// NewCommentService creates a new comment service.
func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository) CommentService {
	return &commentService{comments: comments, posts: posts}
}

func (s *commentService) ListByPost(ctx context.Context, postID uuid.UUID, limit, offset int) ([]model.CommentView, error) {
	if offset < 0 {
		offset = 0
	}
	comments, err := s.comments.ListByPost(ctx, postID, pageSize(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func (s *commentService) Create(ctx context.Context, userID, postID uuid.UUID, content string) (*model.Comment, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}

	comment := &model.Comment{
		ID:      uuid.New(),
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, writeFailed("create comment", err)
	}
	return comment, nil
}

func (s *commentService) Update(ctx context.Context, userID, commentID uuid.UUID, content string) error {
	if err := s.authorize(ctx, userID, commentID); err != nil {
		return err
	}
	if err := s.comments.UpdateContent(ctx, commentID, content); err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return nil
}

func (s *commentService) Delete(ctx context.Context, userID, commentID uuid.UUID) error {
	if err := s.authorize(ctx, userID, commentID); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func (s *commentService) authorize(ctx context.Context, userID, commentID uuid.UUID) error {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrCommentNotFound
		}
		return fmt.Errorf("find comment: %w", err)
	}
	if comment.UserID != userID {
		return errors.ErrNotCommentOwner
	}
	return nil
}
