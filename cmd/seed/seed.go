package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"toiletadvisor/internal/auth"
	"toiletadvisor/internal/model"
	"toiletadvisor/internal/repository"
)

// Fixture is the seed file layout. Posts, ratings and comments refer to users by name.
type Fixture struct {
	Users []FixtureUser `json:"users"`
	Posts []FixturePost `json:"posts"`
}

// FixtureUser is a user with a plaintext password.
type FixtureUser struct {
	Name              string  `json:"name"`
	Password          string  `json:"password"`
	ProfilePictureURL *string `json:"profilePictureUrl"`
	IsAdmin           bool    `json:"isAdmin"`
}

// FixturePost is a post with its media, ratings and comments.
type FixturePost struct {
	Author      string   `json:"author"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	MediaURLs   []string `json:"mediaUrls"`
	Ratings     []struct {
		User  string `json:"user"`
		Value uint8  `json:"value"`
	} `json:"ratings"`
	Comments []struct {
		User    string `json:"user"`
		Content string `json:"content"`
	} `json:"comments"`
}

// SeedStats counts what a seed run did.
type SeedStats struct {
	UsersCreated int
	UsersSkipped int
	PostsCreated int
	PostsSkipped int
	Ratings      int
	Comments     int
}

type seeder struct {
	users    repository.UserRepository
	posts    repository.PostRepository
	ratings  repository.RatingRepository
	comments repository.CommentRepository
	hasher   auth.PasswordHasher
}

func (s *seeder) seed(ctx context.Context, fixture *Fixture) (SeedStats, error) {
	var stats SeedStats
	ids := map[string]uuid.UUID{}

	for _, fu := range fixture.Users {
		existing, err := s.users.FindByName(ctx, fu.Name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return stats, fmt.Errorf("error checking user %s: %w", fu.Name, err)
		}
		if existing != nil {
			ids[fu.Name] = existing.ID
			stats.UsersSkipped++
			continue
		}

		hash, err := s.hasher.Hash(fu.Password)
		if err != nil {
			return stats, err
		}
		user := &model.User{
			Name:              fu.Name,
			PasswordHash:      hash,
			ProfilePictureURL: fu.ProfilePictureURL,
			IsAdmin:           fu.IsAdmin,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return stats, fmt.Errorf("error creating user %s: %w", fu.Name, err)
		}
		ids[fu.Name] = user.ID
		stats.UsersCreated++
	}

	for _, fp := range fixture.Posts {
		authorID, ok := ids[fp.Author]
		if !ok {
			log.Printf("Skipping post %q by unknown author %q", fp.Title, fp.Author)
			stats.PostsSkipped++
			continue
		}

		post := &model.Post{Title: fp.Title, Description: fp.Description, Price: fp.Price, UserID: authorID}
		if err := s.posts.Create(ctx, post, fp.MediaURLs); err != nil {
			return stats, fmt.Errorf("error creating post %q: %w", fp.Title, err)
		}
		stats.PostsCreated++

		for _, fr := range fp.Ratings {
			userID, ok := ids[fr.User]
			if !ok || fr.Value > model.MaxRating {
				continue
			}
			if err := s.ratings.Upsert(ctx, &model.Rating{UserID: userID, PostID: post.ID, Value: fr.Value}); err != nil {
				return stats, fmt.Errorf("error rating post %q: %w", fp.Title, err)
			}
			stats.Ratings++
		}

		for _, fc := range fp.Comments {
			userID, ok := ids[fc.User]
			if !ok {
				continue
			}
			if err := s.comments.Create(ctx, &model.Comment{PostID: post.ID, UserID: userID, Content: fc.Content}); err != nil {
				return stats, fmt.Errorf("error commenting on post %q: %w", fp.Title, err)
			}
			stats.Comments++
		}
	}

	return stats, nil
}
