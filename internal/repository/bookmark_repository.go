package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"toiletadvisor/internal/model"
)

// BookmarkRepository defines bookmark persistence operations.
type BookmarkRepository interface {
	// Toggle removes the bookmark when present and creates it otherwise.
	// It reports whether the post is bookmarked afterwards.
	Toggle(ctx context.Context, userID, postID uuid.UUID) (bool, error)
}

type bookmarkRepository struct {
	db *gorm.DB
}

// NewBookmarkRepository creates a new bookmark repository.
func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

func (r *bookmarkRepository) Toggle(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	bookmarked := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&model.Bookmark{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		bookmarked = true
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.Bookmark{UserID: userID, PostID: postID}).Error
	})
	if err != nil {
		return false, err
	}
	return bookmarked, nil
}
