package router

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"toiletadvisor/internal/auth"
	"toiletadvisor/internal/config"
	"toiletadvisor/internal/handler"
	"toiletadvisor/internal/service"
)

// APIHandlers groups the handlers served by the content service.
type APIHandlers struct {
	Posts     *handler.PostHandler
	Comments  *handler.CommentHandler
	Users     *handler.UserHandler
	Bookmarks *handler.BookmarkHandler
}

// RegisterAPI wires the content service routes and middleware.
func RegisterAPI(e *echo.Echo, cfg *config.Config, sessions auth.SessionStoreInterface, h APIHandlers) {
	setup(e, cfg)
	e.GET("/swagger/*", echoSwagger.EchoWrapHandler(echoSwagger.InstanceName("api")))

	e.GET("/health", health)

	rpc := e.Group("/trpc")
	rpc.GET("/healthCheck", healthCheck)

	// Public procedures
	rpc.GET("/post.getAll", h.Posts.GetAll)
	rpc.GET("/post.getById", h.Posts.GetByID)
	rpc.GET("/comment.getByPostId", h.Comments.GetByPostID)
	rpc.GET("/user.getAll", h.Users.GetAll)
	rpc.GET("/user.getById", h.Users.GetByID)

	// Protected procedures
	protected := rpc.Group("", auth.RequireSession(sessions))
	protected.POST("/post.create", h.Posts.Create)
	protected.POST("/post.update", h.Posts.Update)
	protected.POST("/post.delete", h.Posts.Delete)
	protected.POST("/post.rate", h.Posts.Rate)
	protected.POST("/comment.create", h.Comments.Create)
	protected.POST("/comment.update", h.Comments.Update)
	protected.POST("/comment.delete", h.Comments.Delete)
	protected.GET("/user.getProfile", h.Users.GetProfile)
	protected.POST("/user.updateProfile", h.Users.UpdateProfile)
	protected.POST("/bookmark.toggle", h.Bookmarks.Toggle)
	protected.GET("/bookmark.getMine", h.Bookmarks.GetMine)
}

// RegisterAuth wires the auth service routes and middleware.
func RegisterAuth(e *echo.Echo, cfg *config.Config, sessions auth.SessionStoreInterface, authHandler *handler.AuthHandler) {
	setup(e, cfg)
	e.GET("/swagger/*", echoSwagger.EchoWrapHandler(echoSwagger.InstanceName("auth")))

	e.GET("/", health)
	e.GET("/health", health)

	rpc := e.Group("/trpc")
	rpc.GET("/healthCheck", healthCheck)
	rpc.POST("/auth.register", authHandler.Register)
	rpc.POST("/auth.login", authHandler.Login)

	protected := rpc.Group("", auth.RequireSession(sessions))
	protected.POST("/auth.logout", authHandler.Logout)
	protected.GET("/auth.getSession", authHandler.GetSession)
	protected.POST("/auth.updatePassword", authHandler.UpdatePassword)
}

// RegisterFile wires the upload service routes and middleware.
func RegisterFile(e *echo.Echo, cfg *config.Config, sessions auth.SessionStoreInterface, uploadHandler *handler.UploadHandler) {
	setup(e, cfg)

	e.GET("/health", health)

	api := e.Group("/api", auth.RequireSession(sessions))
	api.POST("/upload", uploadHandler.Upload, middleware.BodyLimit(uploadBodyLimit(cfg.UploadMaxBytes)))
}

func setup(e *echo.Echo, cfg *config.Config) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
	}))

	e.Validator = NewValidator()
}

// uploadBodyLimit allows a full batch of maximum-size files plus multipart overhead.
func uploadBodyLimit(maxFileBytes int64) string {
	total := maxFileBytes*service.MaxFilesPerUpload + 1<<20
	return fmt.Sprintf("%dK", (total+1023)/1024)
}

func health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, "OK")
}
