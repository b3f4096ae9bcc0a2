package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"toiletadvisor/internal/model"
)

// UserUpdate lists the profile fields to change. Nil fields are left untouched.
type UserUpdate struct {
	Name              *string
	ProfilePictureURL *string
}

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByName(ctx context.Context, name string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateProfile(ctx context.Context, id uuid.UUID, update UserUpdate) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a user. A duplicate name surfaces as gorm.ErrDuplicatedKey.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByName(ctx context.Context, name string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

func (r *userRepository) UpdateProfile(ctx context.Context, id uuid.UUID, update UserUpdate) error {
	values := map[string]interface{}{}
	if update.Name != nil {
		values["name"] = *update.Name
	}
	if update.ProfilePictureURL != nil {
		values["profile_picture_url"] = *update.ProfilePictureURL
	}
	if len(values) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(values).Error
}
