package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"toiletadvisor/internal/model"
)

// CommentRepository defines comment persistence operations.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content string) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ListByPost returns comments newest first. A zero limit means no limit.
	ListByPost(ctx context.Context, postID uuid.UUID, limit, offset int) ([]model.CommentView, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	return r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ?", id).
		Update("content", content).Error
}

func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Comment{}).Error
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uuid.UUID, limit, offset int) ([]model.CommentView, error) {
	query := r.db.WithContext(ctx).Table("comments").
		Select(`comments.id, comments.content, comments.user_id, comments.post_id,
			comments.created_at, comments.updated_at,
			users.name AS user_name, users.profile_picture_url AS user_profile_picture`).
		Joins("LEFT JOIN users ON users.id = comments.user_id").
		Where("comments.post_id = ?", postID).
		Order("comments.created_at DESC, comments.id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	comments := []model.CommentView{}
	if err := query.Scan(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
