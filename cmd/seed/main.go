package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"toiletadvisor/internal/auth"
	"toiletadvisor/internal/config"
	"toiletadvisor/internal/db"
	"toiletadvisor/internal/repository"
)

func main() {
	source := flag.String("file", "fixtures/seed.json", "fixture path or http(s) URL")
	flag.Parse()

	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := db.Migrate(gormDB, false); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	log.Printf("Loading fixture from: %s", *source)
	fixture, err := loadFixture(*source)
	if err != nil {
		log.Fatalf("Failed to load fixture: %v", err)
	}
	log.Printf("Loaded %d users and %d posts", len(fixture.Users), len(fixture.Posts))

	s := &seeder{
		users:    repository.NewUserRepository(gormDB),
		posts:    repository.NewPostRepository(gormDB),
		ratings:  repository.NewRatingRepository(gormDB),
		comments: repository.NewCommentRepository(gormDB),
		hasher:   auth.NewBcryptHasher(),
	}

	log.Println("Seeding database...")
	stats, err := s.seed(context.Background(), fixture)
	if err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Users created: %d", stats.UsersCreated)
	log.Printf("  - Users skipped (name exists): %d", stats.UsersSkipped)
	log.Printf("  - Posts created: %d", stats.PostsCreated)
	log.Printf("  - Posts skipped (unknown author): %d", stats.PostsSkipped)
	log.Printf("  - Ratings written: %d", stats.Ratings)
	log.Printf("  - Comments written: %d", stats.Comments)
}

// loadFixture reads a fixture from a local file or fetches it over HTTP.
func loadFixture(source string) (*Fixture, error) {
	var body []byte
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		resp, err := http.Get(source)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch fixture: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fixture URL returned status code: %d", resp.StatusCode)
		}
		if body, err = io.ReadAll(resp.Body); err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}
	} else {
		var err error
		if body, err = os.ReadFile(source); err != nil {
			return nil, fmt.Errorf("failed to read fixture: %w", err)
		}
	}

	var fixture Fixture
	if err := json.Unmarshal(body, &fixture); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return &fixture, nil
}
