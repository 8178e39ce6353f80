// Package server assembles the Fiber application: middleware order and route table.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"gudang/internal/config"
	"gudang/internal/handlers"
	"gudang/internal/middleware"
	"gudang/internal/services"
	"gudang/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 20 * time.Second

// Deps are the constructed collaborators the routes need.
type Deps struct {
	Config         *config.Config
	DB             *gorm.DB
	AuthService    *services.AuthService
	ProductService *services.ProductService
	// LimiterStorage holds rate limit counters. Nil keeps them in memory.
	LimiterStorage fiber.Storage
}

// New builds the application with every middleware and route registered.
func New(d Deps) *fiber.App {
	cfg := d.Config

	app := fiber.New(fiber.Config{
		AppName:      "gudang",
		ErrorHandler: middleware.ErrorHandler(cfg.IsProduction()),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})

	// --- Middleware ---
	app.Use(requestid.New())
	app.Use(recover.New(recover.Config{EnableStackTrace: !cfg.IsProduction()}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
	app.Use(helmet.New())

	apiLimiter := middleware.RateLimiter(middleware.RateLimitConfig{
		Max:     cfg.RateLimitMax,
		Window:  cfg.RateLimitWindow,
		Prefix:  "api:",
		Message: middleware.MsgTooManyRequests,
		Storage: d.LimiterStorage,
	})
	authLimiter := middleware.RateLimiter(middleware.RateLimitConfig{
		Max:     cfg.AuthRateLimitMax,
		Window:  cfg.RateLimitWindow,
		Prefix:  "auth:",
		Message: middleware.MsgTooManyAuthAttempts,
		Storage: d.LimiterStorage,
	})
	authRequired := middleware.AuthRequired(d.AuthService)
	validate := validation.New()

	// --- API Routes ---
	api := app.Group("/api", apiLimiter)

	handlers.NewHealthHandler(d.DB, cfg.Env).RegisterRoutes(api)

	authHandler := handlers.NewAuthHandler(d.AuthService, validate)
	authHandler.RegisterRoutes(api, authLimiter, authRequired)
	authHandler.RegisterAdminRoutes(api, authRequired)

	handlers.NewProductHandler(d.ProductService, validate).RegisterRoutes(api, authRequired)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})

	return app
}

// Serve listens on addr until ctx is cancelled, then shuts the app down
// and waits for in-flight requests.
func Serve(ctx context.Context, app *fiber.App, addr string) error {
	errGrp, ctx := errgroup.WithContext(ctx)

	errGrp.Go(func() error {
		log.Printf("server started and is listening at %s...", addr)
		if err := app.Listen(addr); err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	errGrp.Go(func() error {
		<-ctx.Done() // block until a shutdown signal or a listen failure
		log.Println("hold and wait, server is gracefully shutting down...")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			return fmt.Errorf("server failed shutdown gracefully: %w", err)
		}
		return nil
	})

	return errGrp.Wait()
}
