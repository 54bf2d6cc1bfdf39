package handlers

import (
	"log"

	"kriya/internal/middleware"
	"kriya/internal/models"
	"kriya/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Get("/me", authRequired, h.HandleMe)
	authRoutes.Get("/verify-email/:token", h.HandleVerifyEmail)
}

// userSummary is the account shape returned by auth endpoints.
type userSummary struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	IsEmailVerified bool   `json:"is_email_verified"`
}

func newUserSummary(user *models.User) userSummary {
	return userSummary{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		Role:            user.Role,
		IsEmailVerified: user.IsEmailVerified,
	}
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	user, token, err := h.authService.RegisterUser(input)
	if err != nil {
		return respondServiceError(c, err)
	}

	return respond(c, fiber.StatusCreated, fiber.Map{
		"token": token,
		"user":  newUserSummary(user),
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.validate.Struct(req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Please provide email and password")
	}

	token, user, err := h.authService.LoginUser(req.Email, req.Password)
	if err != nil {
		return respondServiceError(c, err)
	}

	return respond(c, fiber.StatusOK, fiber.Map{
		"token": token,
		"user":  newUserSummary(user),
	})
}

// HandleMe returns the authenticated caller's account.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return respond(c, fiber.StatusOK, newUserSummary(user))
}

// HandleVerifyEmail marks the account holding the token as verified.
func (h *AuthHandler) HandleVerifyEmail(c *fiber.Ctx) error {
	user, err := h.authService.VerifyEmail(c.Params("token"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return respond(c, fiber.StatusOK, newUserSummary(user))
}
