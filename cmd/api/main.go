package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cinefeed/backend/config"
	"github.com/cinefeed/backend/internal/api"
	"github.com/cinefeed/backend/internal/database"
	"github.com/cinefeed/backend/internal/router"
	"github.com/cinefeed/backend/internal/server"
	"github.com/cinefeed/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Services get the shared connection handles injected; nothing reaches
	// for globals at request time.
	chatService := service.NewChatService(db)
	omdbClient := service.NewOMDbClient(cfg.OMDbAPIKey)
	geminiClient := service.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	recommendService := service.NewRecommendService(omdbClient, geminiClient, redisClient)
	authService := service.NewAuthService(db, cfg.JWTSecret)

	var avatarService *service.AvatarService
	if os.Getenv("S3_BUCKET_NAME") != "" {
		s3cfg, err := config.NewS3Config(context.Background())
		if err != nil {
			log.Fatalf("Failed to configure S3: %v", err)
		}
		if err := s3cfg.SetupBucketPolicy(context.Background()); err != nil {
			log.Printf("Warning: could not apply avatar bucket policy: %v", err)
		}
		avatarService = service.NewAvatarService(db, s3cfg)
	}

	r := router.SetupRouter(
		api.NewChatHandler(chatService),
		api.NewRecommendHandler(recommendService),
		api.NewProxyHandler(omdbClient),
		api.NewAuthHandler(authService, avatarService),
		redisClient,
	)

	// Best-effort message expiry.
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	go service.NewCleanupWorker(chatService).Run(workerCtx)

	srv := server.New(r, cfg.ServerPort)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	stopWorker()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
