package handlers

import (
	"kriya/internal/middleware"
	"kriya/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes with the Fiber app. Every order
// route requires authentication.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	orderRoutes := router.Group("/orders", authRequired)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/", h.HandleGetMyOrders)
}

// HandleCreateOrder places an order for the authenticated caller.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)

	var input services.CreateOrderInput
	if err := c.BodyParser(&input); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	order, err := h.service.CreateOrder(caller, input)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respond(c, fiber.StatusCreated, order)
}

// HandleGetMyOrders lists the authenticated caller's orders, newest first.
func (h *OrderHandler) HandleGetMyOrders(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)

	orders, err := h.service.GetUserOrders(caller.ID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respond(c, fiber.StatusOK, orders)
}
