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

// BookmarkService lets users save posts for later.
type BookmarkService interface {
	Toggle(ctx context.Context, userID, postID uuid.UUID) (bool, error)
	ListMine(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.PostSummary, error)
}

type bookmarkService struct {
	bookmarks repository.BookmarkRepository
	posts     repository.PostRepository
}

// NewBookmarkService creates a new bookmark service.
func NewBookmarkService(bookmarks repository.BookmarkRepository, posts repository.PostRepository) BookmarkService {
	return &bookmarkService{bookmarks: bookmarks, posts: posts}
}

func (s *bookmarkService) Toggle(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, errors.ErrPostNotFound
		}
		return false, fmt.Errorf("find post: %w", err)
	}

	bookmarked, err := s.bookmarks.Toggle(ctx, userID, postID)
	if err != nil {
		return false, writeFailed("toggle bookmark", err)
	}
	return bookmarked, nil
}

func (s *bookmarkService) ListMine(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.PostSummary, error) {
	if offset < 0 {
		offset = 0
	}
	posts, err := s.posts.List(ctx, repository.PostFilter{
		BookmarkedBy: &userID,
		Limit:        pageSize(limit),
		Offset:       offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return posts, nil
}
