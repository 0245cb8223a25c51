package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"

	"mealmart/internal/caching"
	"mealmart/internal/config"
	"mealmart/internal/events"
	"mealmart/internal/handlers"
	"mealmart/internal/jobs/background"
	"mealmart/internal/middleware"
	"mealmart/internal/repositories"
	"mealmart/internal/services"
	"mealmart/pkg/database"
)

func main() {
	cfg := config.Load()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	cacheSvc := caching.NewCacheService(redisClient)

	minioClient, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize MinIO client: %v", err)
	}
	minioSvc := services.NewMinioService(minioClient, cfg.MinioBucket)
	if err := minioSvc.EnsureBucketExists(context.Background()); err != nil {
		log.Printf("WARNING: MinIO bucket check failed: %v", err)
	}

	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		log.Printf("Publishing order events to %s", cfg.KafkaTopic)
	} else {
		publisher = events.NewNoopPublisher()
		log.Printf("KAFKA_BROKERS not set, order events disabled")
	}

	// Create repositories
	userRepo := repositories.NewUserRepo(pool)
	restaurantRepo := repositories.NewRestaurantRepo(pool)
	menuItemRepo := repositories.NewMenuItemRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)
	orderItemRepo := repositories.NewOrderItemRepo(pool)
	paymentMethodRepo := repositories.NewPaymentMethodRepo(pool)

	// Create services
	authSvc := services.NewAuthService(userRepo, cacheSvc, []byte(jwtSecret))
	userSvc := services.NewUserService(userRepo)
	restaurantSvc := services.NewRestaurantService(restaurantRepo, menuItemRepo, cacheSvc)
	menuItemSvc := services.NewMenuItemService(menuItemRepo, restaurantRepo, cacheSvc)
	orderSvc := services.NewOrderService(orderRepo, orderItemRepo, menuItemRepo, restaurantRepo, paymentMethodRepo, publisher)
	paymentMethodSvc := services.NewPaymentMethodService(paymentMethodRepo, orderRepo)

	// Create handlers
	authHandlers := handlers.NewAuthHandlers(authSvc)
	userHandlers := handlers.NewUserHandlers(userSvc)
	restaurantHandlers := handlers.NewRestaurantHandlers(restaurantSvc)
	menuItemHandlers := handlers.NewMenuItemHandlers(menuItemSvc, minioSvc)
	orderHandlers := handlers.NewOrderHandlers(orderSvc)
	paymentMethodHandlers := handlers.NewPaymentMethodHandlers(paymentMethodSvc)

	e := echo.New()
	e.HideBanner = true

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	handlers.RegisterHealthRoutes(e)
	authHandlers.RegisterRoutes(e)

	protected := e.Group("")
	protected.Use(middleware.JWTMiddleware(authSvc))
	userHandlers.RegisterRoutes(protected)
	restaurantHandlers.RegisterRoutes(protected)
	menuItemHandlers.RegisterRoutes(protected)
	orderHandlers.RegisterRoutes(protected)
	paymentMethodHandlers.RegisterRoutes(protected)

	scheduler := background.NewJobScheduler(orderSvc, paymentMethodSvc)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down")

	if err := scheduler.Stop(); err != nil {
		log.Printf("Scheduler shutdown error: %v", err)
	}
	if err := publisher.Close(); err != nil {
		log.Printf("Publisher close error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
}
