package main

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"toiletadvisor/internal/auth"
	"toiletadvisor/internal/cache"
	"toiletadvisor/internal/config"
	"toiletadvisor/internal/handler"
	"toiletadvisor/internal/router"
	"toiletadvisor/internal/service"
	"toiletadvisor/internal/storage"
)

func main() {
	cfg := config.Load()

	e := echo.New()
	e.Logger.SetLevel(log.INFO)

	store, err := storage.NewS3Store(context.Background(), cfg)
	if err != nil {
		e.Logger.Fatalf("storage init: %v", err)
	}

	rdb := cache.NewRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	sessions := auth.NewSessionStore(rdb)

	uploadService := service.NewUploadService(store, cfg.UploadMaxBytes)
	router.RegisterFile(e, cfg, sessions, handler.NewUploadHandler(uploadService))

	e.Logger.Infof("uploads go to bucket %s, max %d bytes per file", cfg.S3Bucket, cfg.UploadMaxBytes)

	if err := e.Start(":" + cfg.FilePort); err != nil && err != http.ErrServerClosed {
		e.Logger.Fatalf("server start: %v", err)
	}
}
