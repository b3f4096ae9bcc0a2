package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"toiletadvisor/internal/model"
)

// RatingRepository defines rating persistence operations.
type RatingRepository interface {
	// Upsert creates the (user, post) rating or overwrites its value.
	Upsert(ctx context.Context, rating *model.Rating) error
	ListByPost(ctx context.Context, postID uuid.UUID) ([]model.Rating, error)
}

type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository creates a new rating repository.
func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Upsert(ctx context.Context, rating *model.Rating) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(rating).Error
}

func (r *ratingRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]model.Rating, error) {
	ratings := []model.Rating{}
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).Find(&ratings).Error; err != nil {
		return nil, err
	}
	return ratings, nil
}
