package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gudang/internal/config"
	"gudang/internal/database"
	"gudang/internal/events"
	"gudang/internal/repositories"
	"gudang/internal/server"
	"gudang/internal/services"
	"gudang/internal/storage"
	"gudang/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/streadway/amqp"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database ---
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN, !cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)
	log.Printf("Connected to %s database", cfg.DatabaseDriver)

	// --- Rate limit storage (optional Redis) ---
	var limiterStorage fiber.Storage
	if cfg.RedisAddr != "" {
		client, err := storage.NewRedisClient(ctx, storage.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Fatalf("Failed to initialize Redis: %v", err)
		}
		redisStorage := storage.NewRedisStorage(client, "gudang:ratelimit:")
		defer redisStorage.Close()
		limiterStorage = redisStorage
	} else {
		log.Println("REDIS_ADDR not set, rate limit counters are kept in memory")
	}

	// --- Domain events (optional RabbitMQ) ---
	var publisher services.ProductEventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:        cfg.RabbitMQURL,
			Exchange:   cfg.RabbitMQExchange,
			BindingKey: "product.#",
		})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close() // Ensure the connection is closed on exit

		publisher = events.NewPublisher(mqClient)

		audit := events.NewAuditLogger(log.New(os.Stdout, "", log.LstdFlags))
		if err := mqClient.ConsumeEvents(func(msg amqp.Delivery) error {
			return audit.Handle(msg.Body)
		}); err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	} else {
		log.Println("RABBITMQ_URL not set, product events are disabled")
	}

	// --- Repositories and services ---
	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)

	authService := services.NewAuthService(
		userRepo,
		services.NewPasswordHasher(cfg.BcryptRounds),
		services.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiresIn),
	)
	productService := services.NewProductService(productRepo, publisher)

	app := server.New(server.Deps{
		Config:         cfg,
		DB:             db,
		AuthService:    authService,
		ProductService: productService,
		LimiterStorage: limiterStorage,
	})

	if err := server.Serve(ctx, app, cfg.Port); err != nil {
		log.Printf("Server stopped with error: %v", err)
		return
	}
	log.Println("Server gracefully stopped")
}
