package main

import (
	"context"
	"log"

	"github.com/priyansh-garg1/Social-Media-Clone-Backend/config"
	"github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/handler"
	redisstore "github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/redis"
	"github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/repository"
	"github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/server"
	"github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/services"
	"github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/storage"
	"github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/websocket"
	"github.com/priyansh-garg1/Social-Media-Clone-Backend/pkg/database"
	"github.com/priyansh-garg1/Social-Media-Clone-Backend/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	mode := logger.DevelopmentMode
	if cfg.AppMode == server.ReleaseMode {
		mode = logger.ProductionMode
	}
	l := logger.New(mode)
	defer l.Sync()

	database.Connect(cfg)
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if cfg.SeedDemoData {
		if err := database.Seed(nil); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient := redisstore.NewClient(redisstore.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	presence := redisstore.NewPresenceStore(redisClient, 0)
	publisher := redisstore.NewPublisher(redisClient)
	subscriber := redisstore.NewSubscriber(redisClient)

	s3Client, err := storage.NewClient(ctx, storage.S3Config{
		Region:     cfg.S3Region,
		Bucket:     cfg.S3Bucket,
		AccessKey:  cfg.S3AccessKey,
		SecretKey:  cfg.S3SecretKey,
		Endpoint:   cfg.S3Endpoint,
		PublicBase: cfg.S3PublicBase,
	})
	if err != nil {
		log.Fatalf("Failed to create S3 client: %v", err)
	}

	hub := websocket.NewHub()
	go hub.Run(ctx)

	bridge := websocket.NewRedisBridge(subscriber, hub)
	go func() {
		if err := bridge.Run(ctx); err != nil && ctx.Err() == nil {
			l.Errorf("redis bridge stopped: %v", err)
		}
	}()

	conversationRepo := repository.NewConversationRepository(database.DB)
	messageRepo := repository.NewMessageRepository(database.DB)
	userRepo := repository.NewUserRepository(database.DB)

	uploader := services.NewS3ImageService(s3Client, services.DefaultMaxImageBytes)
	notifier := services.NewRedisNotifier(presence, publisher, l, cfg.PushTimeout)
	chatService := services.NewChatService(conversationRepo, messageRepo, userRepo, uploader, notifier, l)

	verifier := services.NewTokenVerifier(cfg.JWTSecret)

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		Chat: handler.NewChatHandler(chatService, l),
		WS:   websocket.NewHandler(verifier, hub, presence, l),
	}, verifier)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
}
