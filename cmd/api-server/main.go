package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"toiletadvisor/docs"
	"toiletadvisor/internal/auth"
	"toiletadvisor/internal/cache"
	"toiletadvisor/internal/config"
	"toiletadvisor/internal/db"
	"toiletadvisor/internal/handler"
	"toiletadvisor/internal/repository"
	"toiletadvisor/internal/router"
	"toiletadvisor/internal/service"
)

// @title ToiletAdvisor API
// @version 1.0
// @description Posts, ratings, comments, users and bookmarks. Queries take a JSON encoded "input" query parameter, mutations a JSON body.
// @BasePath /
// @schemes http https
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Logger.SetLevel(log.INFO)

	gormDB, err := db.Open(cfg)
	if err != nil {
		e.Logger.Fatalf("database init: %v", err)
	}
	if cfg.ResetDB {
		e.Logger.Warn("RESET_DB=true detected, dropping all tables")
	}
	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		e.Logger.Fatalf("migrate: %v", err)
	}

	rdb := cache.NewRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	sessions := auth.NewSessionStore(rdb)
	cacheClient := cache.New(rdb)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)
	ratingRepo := repository.NewRatingRepository(gormDB)
	commentRepo := repository.NewCommentRepository(gormDB)
	bookmarkRepo := repository.NewBookmarkRepository(gormDB)

	// Initialize services
	postService := service.NewPostService(postRepo, ratingRepo, commentRepo)
	commentService := service.NewCommentService(commentRepo, postRepo)
	userService := service.NewUserService(userRepo, cacheClient)
	bookmarkService := service.NewBookmarkService(bookmarkRepo, postRepo)

	router.RegisterAPI(e, cfg, sessions, router.APIHandlers{
		Posts:     handler.NewPostHandler(postService),
		Comments:  handler.NewCommentHandler(commentService),
		Users:     handler.NewUserHandler(userService),
		Bookmarks: handler.NewBookmarkHandler(bookmarkService),
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfoapi.Host = cfg.SwaggerHost
	}
	e.Logger.Infof("Swagger documentation available at /swagger/index.html on port %s", cfg.APIPort)

	if err := e.Start(":" + cfg.APIPort); err != nil && err != http.ErrServerClosed {
		e.Logger.Fatalf("server start: %v", err)
	}
}
