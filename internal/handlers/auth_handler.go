package handlers

import (
	"log"

	"gudang/internal/middleware"
	"gudang/internal/models"
	"gudang/internal/services"
	"gudang/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validation.Validator
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, validate *validation.Validator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validate,
	}
}

// RegisterRoutes registers the authentication routes. authLimiter guards
// register and login, authRequired guards the profile.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, authLimiter, authRequired fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", authLimiter, h.HandleRegister)
	authRoutes.Post("/login", authLimiter, h.HandleLogin)
	authRoutes.Get("/profile", authRequired, h.HandleGetProfile)
	authRoutes.Put("/profile", authRequired, h.HandleUpdateProfile)
}

// RegisterAdminRoutes registers the admin-only user routes.
func (h *AuthHandler) RegisterAdminRoutes(router fiber.Router, authRequired fiber.Handler) {
	adminRoutes := router.Group("/admin", authRequired, middleware.AdminOnly())
	adminRoutes.Get("/users", h.HandleListUsers)
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := h.validate.ParseBody(c, &req); err != nil {
		return err
	}

	user, token, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return err
	}

	log.Printf("User registered: %s", user.ID)
	return respond(c, fiber.StatusCreated, "User registered successfully", fiber.Map{
		"user":  user,
		"token": token,
	})
}

// HandleLogin handles user login and returns a JWT.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := h.validate.ParseBody(c, &req); err != nil {
		return err
	}

	user, token, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "Login successful", fiber.Map{
		"user":  user,
		"token": token,
	})
}

func (h *AuthHandler) HandleGetProfile(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	return respond(c, fiber.StatusOK, "Profile retrieved successfully", fiber.Map{"user": user})
}

func (h *AuthHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req models.UpdateProfileRequest
	if err := h.validate.ParseBody(c, &req); err != nil {
		return err
	}

	current, _ := middleware.CurrentUser(c)
	user, err := h.authService.UpdateProfile(c.UserContext(), current, req)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "Profile updated successfully", fiber.Map{"user": user})
}

func (h *AuthHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.authService.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	if users == nil {
		users = []models.User{}
	}

	return respond(c, fiber.StatusOK, "Users retrieved successfully", fiber.Map{
		"users": users,
		"count": len(users),
	})
}
