package handlers

import (
	"log"
	"runtime"
	"time"

	"gudang/internal/database"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HealthHandler reports process and database health.
type HealthHandler struct {
	db        *gorm.DB
	env       string
	startedAt time.Time
}

func NewHealthHandler(db *gorm.DB, env string) *HealthHandler {
	return &HealthHandler{db: db, env: env, startedAt: time.Now()}
}

func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.HandleHealth)
	router.Get("/health/detailed", h.HandleDetailedHealth)
}

func (h *HealthHandler) uptime() float64 {
	return time.Since(h.startedAt).Seconds()
}

func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	return respond(c, fiber.StatusOK, "Server is running", fiber.Map{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    h.uptime(),
	})
}

// HandleDetailedHealth responds 503 when the database does not answer a ping.
func (h *HealthHandler) HandleDetailedHealth(c *fiber.Ctx) error {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	if err := database.Ping(c.UserContext(), h.db); err != nil {
		log.Printf("Health check: database ping failed: %v", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "error",
			"message":  "Database is unreachable",
			"database": "disconnected",
		})
	}

	return respond(c, fiber.StatusOK, "Server is healthy", fiber.Map{
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"uptime":      h.uptime(),
		"environment": h.env,
		"database":    "connected",
		"goroutines":  runtime.NumGoroutine(),
		"memory": fiber.Map{
			"allocBytes":      mem.Alloc,
			"totalAllocBytes": mem.TotalAlloc,
			"sysBytes":        mem.Sys,
			"numGC":           mem.NumGC,
		},
	})
}
