package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/learnlive/api/internal/application/push"
	"github.com/learnlive/api/internal/config"
	"github.com/learnlive/api/internal/infrastructure/dynamo"
	"github.com/learnlive/api/internal/infrastructure/fcm"
	jwtinfra "github.com/learnlive/api/internal/infrastructure/jwt"
	s3infra "github.com/learnlive/api/internal/infrastructure/s3"
	"github.com/learnlive/api/internal/infrastructure/snspush"
	"github.com/learnlive/api/internal/pkg/tasks"
	transporthttp "github.com/learnlive/api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// JWT provider (optional — graceful fallback if keys are missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// S3 store for course videos and material files.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// Push provider — FCM by default, SNS platform endpoints as fallback,
	// no-op when unset.
	var provider push.Provider = push.Disabled{}
	switch cfg.PushProvider {
	case "fcm":
		p, err := fcm.NewProvider(context.Background(), cfg.FCMCredentialsFile)
		if err != nil {
			log.Printf("WARN: FCM provider not available, push disabled: %v", err)
		} else {
			provider = p
		}
	case "sns":
		p, err := snspush.NewProvider(context.Background(), cfg.SNSRegion)
		if err != nil {
			log.Printf("WARN: SNS provider not available, push disabled: %v", err)
		} else {
			provider = p
		}
	case "":
		log.Println("No push provider configured, push delivery disabled")
	default:
		log.Printf("WARN: unknown push provider %q, push delivery disabled", cfg.PushProvider)
	}

	deviceTokenRepo := dynamo.NewDeviceTokenRepo(dynamoClient, cfg.DynamoTables.DeviceTokens)
	dispatcher := push.NewDispatcher(provider, deviceTokenRepo, slog.Default())

	// Background worker pool for notification fan-out and push dispatch.
	pool := tasks.NewPool(cfg.FanoutWorkers, cfg.FanoutQueueSize)

	deps := &transporthttp.Deps{
		UserRepo:         dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		CourseRepo:       dynamo.NewCourseRepo(dynamoClient, cfg.DynamoTables.Courses),
		SessionRepo:      dynamo.NewSessionRepo(dynamoClient, cfg.DynamoTables.Sessions),
		MaterialRepo:     dynamo.NewMaterialRepo(dynamoClient, cfg.DynamoTables.Materials),
		PaymentRepo:      dynamo.NewPaymentRepo(dynamoClient, cfg.DynamoTables.Payments),
		NotificationRepo: dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications),
		DeviceTokenRepo:  deviceTokenRepo,
		S3Store:          s3Store,
		JWTProvider:      jwtProvider,
		Dispatcher:       dispatcher,
		Scheduler:        pool,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	// Drain queued fan-out work before exiting so notifications written just
	// before shutdown still reach devices.
	if err := pool.Stop(ctx); err != nil {
		log.Printf("WARN: background tasks did not drain: %v", err)
	}
	log.Println("Server stopped")
}
