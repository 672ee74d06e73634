package main

import (
	"context"
	"log"
	"net/http"

	_ "feedhub/docs" // swagger docs

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"feedhub/internal/auth"
	"feedhub/internal/cache"
	"feedhub/internal/config"
	"feedhub/internal/db"
	"feedhub/internal/graph"
	"feedhub/internal/handler"
	"feedhub/internal/logger"
	"feedhub/internal/model"
	"feedhub/internal/repository"
	"feedhub/internal/router"
	"feedhub/internal/service"
	"feedhub/internal/storage"
)

// @title Feedhub API
// @version 1.0
// @description Blogging backend with REST and GraphQL APIs, JWT authentication, and image uploads.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		zlog.Fatalw("database init", "error", err)
	}

	if err := gormDB.AutoMigrate(&model.User{}, &model.Post{}); err != nil {
		zlog.Fatalw("auto-migrate", "error", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	images, err := newImageStore(cfg)
	if err != nil {
		zlog.Fatalw("image store init", "error", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	authService := service.NewAuthService(userRepo, jwtService)
	userService := service.NewUserService(userRepo)
	postService := service.NewPostService(postRepo, userRepo, images, cacheClient, zlog, cfg.PageSize)

	schema, err := graph.NewSchema(authService, userService, postService)
	if err != nil {
		zlog.Fatalw("graphql schema", "error", err)
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	postHandler := handler.NewPostHandler(postService)
	imageHandler := handler.NewImageHandler(images, zlog)
	graphqlHandler := handler.NewGraphQLHandler(schema)

	e := echo.New()
	e.Use(middleware.RequestID())

	router.Register(e, cfg, zlog, authHandler, userHandler, postHandler, imageHandler, graphqlHandler)

	addr := ":" + cfg.ServerPort
	zlog.Infow("starting server", "addr", addr)
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		zlog.Fatalw("server start", "error", err)
	}
}

func newImageStore(cfg *config.Config) (storage.ImageStore, error) {
	if cfg.ImageBackend != "minio" {
		return storage.NewDisk(cfg.ImageDir)
	}

	client, err := minio.New(cfg.Minio.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Minio.AccessKey, cfg.Minio.SecretKey, ""),
		Secure: cfg.Minio.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return storage.NewMinio(context.Background(), client, cfg.Minio.Bucket)
}
