package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"toiletadvisor/internal/cache"
	"toiletadvisor/internal/errors"
	"toiletadvisor/internal/model"
	"toiletadvisor/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserService exposes user lookups and profile edits.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.PublicUser, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.PublicUser, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, update repository.UserUpdate) error
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id.String())
}

func (s *userService) ListUsers(ctx context.Context) ([]model.PublicUser, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	public := make([]model.PublicUser, 0, len(users))
	for i := range users {
		public = append(public, users[i].Public())
	}
	return public, nil
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.PublicUser, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.PublicUser
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	public := user.Public()
	if payload, err := json.Marshal(public); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return &public, nil
}

func (s *userService) GetProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.Profile{PublicUser: user.Public(), IsAdmin: user.IsAdmin}, nil
}

// UpdateProfile applies the non-nil fields. Empty names are ignored.
func (s *userService) UpdateProfile(ctx context.Context, id uuid.UUID, update repository.UserUpdate) error {
	if update.Name != nil && *update.Name == "" {
		update.Name = nil
	}

	if update.Name != nil {
		owner, err := s.repo.FindByName(ctx, *update.Name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("check name: %w", err)
		}
		if err == nil && owner.ID != id {
			return errors.ErrNameTaken
		}
	}

	if err := s.repo.UpdateProfile(ctx, id, update); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.ErrNameTaken
		}
		return fmt.Errorf("update profile: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

func (s *userService) find(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
