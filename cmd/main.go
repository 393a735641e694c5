package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fathima-sithara/vidstream/internal/auth"
	"github.com/fathima-sithara/vidstream/internal/config"
	"github.com/fathima-sithara/vidstream/internal/database"
	"github.com/fathima-sithara/vidstream/internal/events"
	"github.com/fathima-sithara/vidstream/internal/handlers"
	"github.com/fathima-sithara/vidstream/internal/media"
	"github.com/fathima-sithara/vidstream/internal/middleware"
	"github.com/fathima-sithara/vidstream/internal/repository"
	"github.com/fathima-sithara/vidstream/internal/routes"
	"github.com/fathima-sithara/vidstream/internal/server"
	"github.com/fathima-sithara/vidstream/internal/services"
	"github.com/fathima-sithara/vidstream/internal/storage"
	"github.com/fathima-sithara/vidstream/internal/utils"
	"github.com/gofiber/fiber/v2"
)

func clientIP(c *fiber.Ctx) string { return c.IP() }

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := utils.NewLogger(cfg.App.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()
	sugar := logger.Sugar()
	sugar.Infof("Starting vidstream in %s environment on port %d", cfg.App.Env, cfg.App.Port)

	db, mongoClient, err := database.ConnectMongo(cfg.Mongo, sugar)
	if err != nil {
		sugar.Fatal(err)
	}

	loginLimiter := &middleware.RateLimiter{}
	var closeRedis func() error
	if cfg.Redis.Addr != "" {
		rdb, err := database.ConnectRedis(cfg.Redis, sugar)
		if err != nil {
			sugar.Fatal(err)
		}
		loginLimiter = middleware.NewRateLimiter(rdb, "login_rate", cfg.Security.LoginRatePerMin, time.Minute)
		closeRedis = rdb.Close
	} else {
		sugar.Warn("Redis not configured, login rate limiting disabled")
	}

	ctx := context.Background()
	store, err := storage.NewS3Store(ctx, cfg.AWS.Region, cfg.AWS.Bucket)
	if err != nil {
		sugar.Fatalf("failed to init S3 store: %v", err)
	}
	uploader := media.NewS3Uploader(store)

	publisher := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if len(cfg.Kafka.Brokers) == 0 {
		sugar.Warn("Kafka not configured, domain events disabled")
	}

	userRepo := repository.NewMongoUserRepo(db, "users")
	videoRepo := repository.NewMongoVideoRepo(db, "videos")
	tokens := auth.NewTokenManager(cfg.JWT)

	authSvc := services.NewAuthService(userRepo, tokens, uploader, publisher, sugar, cfg.Security.PasswordHashCost)
	userSvc := services.NewUserService(userRepo, uploader, sugar)
	videoSvc := services.NewVideoService(videoRepo, userRepo, uploader, publisher, sugar)

	app := server.New(cfg, routes.Deps{
		Users:     handlers.NewUserHandler(authSvc, userSvc),
		Videos:    handlers.NewVideoHandler(videoSvc),
		Auth:      middleware.RequireAuth(tokens, userRepo),
		OptAuth:   middleware.OptionalAuth(tokens, userRepo),
		LoginRate: loginLimiter.MiddlewareByKey(clientIP),
	}, logger)

	go func() {
		listenAddr := fmt.Sprintf(":%d", cfg.App.Port)
		sugar.Infof("Server listening on %s", listenAddr)
		if err := app.Listen(listenAddr); err != nil {
			sugar.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	sugar.Info("Shutting down server...")

	ctxShut, cancelShut := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShut()

	if err := app.ShutdownWithContext(ctxShut); err != nil {
		sugar.Errorf("Fiber app shutdown error: %v", err)
	}
	if err := mongoClient.Disconnect(ctxShut); err != nil {
		sugar.Errorf("MongoDB disconnect error: %v", err)
	}
	if closeRedis != nil {
		if err := closeRedis(); err != nil {
			sugar.Errorf("Redis client close error: %v", err)
		}
	}
	if err := publisher.Close(); err != nil {
		sugar.Errorf("Kafka producer close error: %v", err)
	}

	sugar.Info("Graceful shutdown complete.")
}
