package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"toiletadvisor/internal/model"
)

// Predicate is one WHERE condition. List combines predicates with AND.
type Predicate struct {
	Query string
	Args  []interface{}
}

// PostFilter narrows a post listing.
type PostFilter struct {
	// Search matches a substring of the title or the description.
	Search string
	// MinRating excludes posts whose average is lower, and posts without ratings.
	MinRating    *float64
	BookmarkedBy *uuid.UUID
	Limit        int
	Offset       int
}

// Predicates returns the WHERE conditions the filter translates to.
func (f PostFilter) Predicates() []Predicate {
	var preds []Predicate
	if f.Search != "" {
		pattern := "%" + escapeLike(f.Search) + "%"
		preds = append(preds, Predicate{
			Query: "(posts.title LIKE ? ESCAPE '!' OR posts.description LIKE ? ESCAPE '!')",
			Args:  []interface{}{pattern, pattern},
		})
	}
	if f.MinRating != nil {
		preds = append(preds, Predicate{
			Query: "r.avg_rating >= ?",
			Args:  []interface{}{*f.MinRating},
		})
	}
	if f.BookmarkedBy != nil {
		preds = append(preds, Predicate{
			Query: "posts.id IN (SELECT post_id FROM bookmarks WHERE user_id = ?)",
			Args:  []interface{}{*f.BookmarkedBy},
		})
	}
	return preds
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// PostUpdate lists the post fields to change. Nil fields are left untouched.
type PostUpdate struct {
	Title       *string
	Description *string
	Price       *string
}

// PostRepository defines post persistence operations.
type PostRepository interface {
	// Create inserts the post and one media row per URL in a single transaction.
	Create(ctx context.Context, post *model.Post, mediaURLs []string) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	Summary(ctx context.Context, id uuid.UUID) (*model.PostSummary, error)
	List(ctx context.Context, filter PostFilter) ([]model.PostSummary, error)
	Update(ctx context.Context, id uuid.UUID, update PostUpdate) error
	// Delete removes the post together with its ratings, comments, media and bookmarks.
	Delete(ctx context.Context, id uuid.UUID) error
	ListMedia(ctx context.Context, postID uuid.UUID) ([]model.Media, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *model.Post, mediaURLs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		if len(mediaURLs) == 0 {
			return nil
		}
		media := make([]model.Media, 0, len(mediaURLs))
		for _, url := range mediaURLs {
			media = append(media, model.Media{URL: url, PostID: post.ID, UserID: post.UserID})
		}
		return tx.Create(&media).Error
	})
}

func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// summaries selects posts joined with their author and rating/media aggregates.
func (r *postRepository) summaries(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("posts").
		Select(`posts.id, posts.title, posts.description, posts.price, posts.user_id,
			users.name AS user_name, users.profile_picture_url AS user_profile_picture,
			posts.created_at, posts.updated_at,
			r.avg_rating, COALESCE(r.rating_count, 0) AS rating_count,
			COALESCE(m.media_count, 0) AS media_count`).
		Joins("LEFT JOIN users ON users.id = posts.user_id").
		Joins("LEFT JOIN (SELECT post_id, AVG(value) AS avg_rating, COUNT(*) AS rating_count FROM ratings GROUP BY post_id) r ON r.post_id = posts.id").
		Joins("LEFT JOIN (SELECT post_id, COUNT(*) AS media_count FROM post_media GROUP BY post_id) m ON m.post_id = posts.id")
}

func (r *postRepository) Summary(ctx context.Context, id uuid.UUID) (*model.PostSummary, error) {
	var summaries []model.PostSummary
	if err := r.summaries(ctx).Where("posts.id = ?", id).Limit(1).Scan(&summaries).Error; err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &summaries[0], nil
}

func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]model.PostSummary, error) {
	query := r.summaries(ctx)
	for _, p := range filter.Predicates() {
		query = query.Where(p.Query, p.Args...)
	}
	query = query.Order("posts.created_at DESC, posts.id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	summaries := []model.PostSummary{}
	if err := query.Scan(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *postRepository) Update(ctx context.Context, id uuid.UUID, update PostUpdate) error {
	values := map[string]interface{}{}
	if update.Title != nil {
		values["title"] = *update.Title
	}
	if update.Description != nil {
		values["description"] = *update.Description
	}
	if update.Price != nil {
		values["price"] = *update.Price
	}
	if len(values) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		Updates(values).Error
}

func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{&model.Rating{}, &model.Comment{}, &model.Media{}, &model.Bookmark{}} {
			if err := tx.Where("post_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ?", id).Delete(&model.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *postRepository) ListMedia(ctx context.Context, postID uuid.UUID) ([]model.Media, error) {
	media := []model.Media{}
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).
		Order("created_at ASC").Find(&media).Error; err != nil {
		return nil, err
	}
	return media, nil
}
