package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"toiletadvisor/internal/auth"
	"toiletadvisor/internal/model"
	"toiletadvisor/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByName(ctx context.Context, name string) (*model.User, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, update repository.UserUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

// MockSessionStore is a mock implementation of SessionStoreInterface.
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Set(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	args := m.Called(ctx, token, userID, ttl)
	return args.Error(0)
}

func (m *MockSessionStore) Get(ctx context.Context, token string) (uuid.UUID, bool, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uuid.UUID), args.Bool(1), args.Error(2)
}

func (m *MockSessionStore) Delete(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// fakeCookies records cookie writes in memory.
type fakeCookies struct {
	values  map[string]string
	options map[string]auth.CookieOptions
}

func newFakeCookies() *fakeCookies {
	return &fakeCookies{values: map[string]string{}, options: map[string]auth.CookieOptions{}}
}

func (f *fakeCookies) Get(name string) (string, bool) {
	v, ok := f.values[name]
	return v, ok
}

func (f *fakeCookies) Set(name, value string, opts auth.CookieOptions) {
	f.values[name] = value
	f.options[name] = opts
}

func (f *fakeCookies) Delete(name string, opts auth.CookieOptions) {
	delete(f.values, name)
	opts.MaxAge = -1
	f.options[name] = opts
}

// MockPostRepository is a mock implementation of PostRepository.
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *model.Post, mediaURLs []string) error {
	args := m.Called(ctx, post, mediaURLs)
	return args.Error(0)
}

func (m *MockPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostRepository) Summary(ctx context.Context, id uuid.UUID) (*model.PostSummary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PostSummary), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, filter repository.PostFilter) ([]model.PostSummary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PostSummary), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, id uuid.UUID, update repository.PostUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) ListMedia(ctx context.Context, postID uuid.UUID) ([]model.Media, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Media), args.Error(1)
}

// MockRatingRepository is a mock implementation of RatingRepository.
type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) Upsert(ctx context.Context, rating *model.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

func (m *MockRatingRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]model.Rating, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Rating), args.Error(1)
}

// MockCommentRepository is a mock implementation of CommentRepository.
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockCommentRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	args := m.Called(ctx, id, content)
	return args.Error(0)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCommentRepository) ListByPost(ctx context.Context, postID uuid.UUID, limit, offset int) ([]model.CommentView, error) {
	args := m.Called(ctx, postID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CommentView), args.Error(1)
}

// MockBookmarkRepository is a mock implementation of BookmarkRepository.
type MockBookmarkRepository struct {
	mock.Mock
}

func (m *MockBookmarkRepository) Toggle(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}

// MockObjectStore is a mock implementation of ObjectStore.
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, body, size, contentType)
	return args.Error(0)
}

func (m *MockObjectStore) PublicURL(key string) string {
	args := m.Called(key)
	return args.String(0)
}
