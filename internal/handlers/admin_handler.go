package handlers

import (
	"kriya/internal/middleware"
	"kriya/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles HTTP requests for the admin panel.
type AdminHandler struct {
	adminService   *services.AdminService
	orderService   *services.OrderService
	productService *services.ProductService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *services.AdminService, orderService *services.OrderService, productService *services.ProductService) *AdminHandler {
	return &AdminHandler{
		adminService:   adminService,
		orderService:   orderService,
		productService: productService,
	}
}

// RegisterRoutes registers the admin routes with the Fiber app. The whole
// group sits behind authentication plus the admin role check.
func (h *AdminHandler) RegisterRoutes(router fiber.Router, authRequired, adminRequired fiber.Handler) {
	adminRoutes := router.Group("/admin", authRequired, adminRequired)
	adminRoutes.Get("/stats", h.HandleGetStats)
	adminRoutes.Get("/users", h.HandleGetUsers)
	adminRoutes.Delete("/users/:id", h.HandleDeleteUser)
	adminRoutes.Get("/products", h.HandleGetProducts)
	adminRoutes.Delete("/products/:id", h.HandleDeleteProduct)
	adminRoutes.Get("/orders", h.HandleGetOrders)
	adminRoutes.Put("/orders/:id/status", h.HandleUpdateOrderStatus)
}

// HandleGetStats returns the dashboard statistics.
func (h *AdminHandler) HandleGetStats(c *fiber.Ctx) error {
	stats, err := h.adminService.GetDashboardStats()
	if err != nil {
		return respondServiceError(c, err)
	}
	return respond(c, fiber.StatusOK, stats)
}

// HandleGetUsers lists all registered users.
func (h *AdminHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.adminService.GetAllUsers()
	if err != nil {
		return respondServiceError(c, err)
	}
	return respond(c, fiber.StatusOK, users)
}

// HandleDeleteUser removes a user account.
func (h *AdminHandler) HandleDeleteUser(c *fiber.Ctx) error {
	if err := h.adminService.DeleteUser(c.Params("id")); err != nil {
		return respondServiceError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{})
}

// HandleGetProducts lists every product in the marketplace.
func (h *AdminHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.productService.GetProducts("", "")
	if err != nil {
		return respondServiceError(c, err)
	}
	return respond(c, fiber.StatusOK, services.NewProductResponses(products))
}

// HandleDeleteProduct removes any product, regardless of owner.
func (h *AdminHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)
	if err := h.productService.DeleteProduct(c.Context(), caller, c.Params("id")); err != nil {
		return respondServiceError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{})
}

// HandleGetOrders lists every order in the marketplace.
func (h *AdminHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.GetAllOrders()
	if err != nil {
		return respondServiceError(c, err)
	}
	return respond(c, fiber.StatusOK, orders)
}

// HandleUpdateOrderStatus moves an order to a new fulfilment status.
func (h *AdminHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.orderService.UpdateOrderStatus(c.Params("id"), req.Status); err != nil {
		return respondServiceError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{"status": req.Status})
}
