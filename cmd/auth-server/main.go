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

// @title ToiletAdvisor Auth API
// @version 1.0
// @description Registration, login and cookie sessions backed by Redis.
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
	// The api server owns RESET_DB; this one only makes sure the schema exists.
	if err := db.Migrate(gormDB, false); err != nil {
		e.Logger.Fatalf("migrate: %v", err)
	}

	rdb := cache.NewRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	sessions := auth.NewSessionStore(rdb)

	userRepo := repository.NewUserRepository(gormDB)
	authService := service.NewAuthService(userRepo, sessions, auth.NewBcryptHasher(), cfg.Production())

	router.RegisterAuth(e, cfg, sessions, handler.NewAuthHandler(authService))

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfoauth.Host = cfg.SwaggerHost
	}
	e.Logger.Infof("Swagger documentation available at /swagger/index.html on port %s", cfg.AuthPort)

	if err := e.Start(":" + cfg.AuthPort); err != nil && err != http.ErrServerClosed {
		e.Logger.Fatalf("server start: %v", err)
	}
}
