package handlers

import (
	"strconv"

	"kriya/internal/middleware"
	"kriya/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app. Reads are
// public; mutations require authentication (ownership is enforced in the
// service, not at the routing layer).
func (h *ProductHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Post("/", authRequired, h.HandleCreateProduct)
	productRoutes.Put("/:id", authRequired, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", authRequired, h.HandleDeleteProduct)
	productRoutes.Put("/:id/reorder-images", authRequired, h.HandleReorderImages)
}

// HandleGetProducts lists products with optional ?search= and ?category=
// filters.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetProducts(c.Query("search"), c.Query("category"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return respond(c, fiber.StatusOK, services.NewProductResponses(products))
}

// HandleGetProduct retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return respond(c, fiber.StatusOK, services.NewProductResponse(product))
}

// HandleCreateProduct creates a product from a multipart form carrying the
// field values and up to MaxProductImages files under "images".
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)

	input := services.CreateProductInput{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		CategoryID:  c.FormValue("category"),
		Materials:   c.FormValue("materials"),
	}

	if v := c.FormValue("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return respondError(c, fiber.StatusBadRequest, "price must be a number")
		}
		input.Price = &price
	}
	if v := c.FormValue("stock"); v != "" {
		stock, err := strconv.Atoi(v)
		if err != nil {
			return respondError(c, fiber.StatusBadRequest, "stock must be an integer")
		}
		input.Stock = stock
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		input.Images = form.File["images"]
	}

	product, err := h.service.CreateProduct(c.Context(), caller, input)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respond(c, fiber.StatusCreated, services.NewProductResponse(product))
}

// updateProductRequest is the JSON shape of a partial product update.
type updateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Stock       *int     `json:"stock"`
	Materials   *string  `json:"materials"`
}

// HandleUpdateProduct applies a partial update. It accepts either a JSON
// body or a multipart form; new files under "images" replace the product's
// image sequence.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)

	var input services.UpdateProductInput
	if form, err := c.MultipartForm(); err == nil && form != nil {
		formValue := func(key string) *string {
			if vals, ok := form.Value[key]; ok && len(vals) > 0 {
				return &vals[0]
			}
			return nil
		}
		input.Name = formValue("name")
		input.Description = formValue("description")
		input.CategoryID = formValue("category")
		input.Materials = formValue("materials")
		if v := formValue("price"); v != nil {
			price, err := strconv.ParseFloat(*v, 64)
			if err != nil {
				return respondError(c, fiber.StatusBadRequest, "price must be a number")
			}
			input.Price = &price
		}
		if v := formValue("stock"); v != nil {
			stock, err := strconv.Atoi(*v)
			if err != nil {
				return respondError(c, fiber.StatusBadRequest, "stock must be an integer")
			}
			input.Stock = &stock
		}
		input.Images = form.File["images"]
	} else {
		var req updateProductRequest
		if err := c.BodyParser(&req); err != nil {
			return respondError(c, fiber.StatusBadRequest, "Invalid request body")
		}
		input.Name = req.Name
		input.Description = req.Description
		input.Price = req.Price
		input.CategoryID = req.Category
		input.Stock = req.Stock
		input.Materials = req.Materials
	}

	product, err := h.service.UpdateProduct(c.Context(), caller, c.Params("id"), input)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respond(c, fiber.StatusOK, services.NewProductResponse(product))
}

// HandleDeleteProduct removes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)
	if err := h.service.DeleteProduct(c.Context(), caller, c.Params("id")); err != nil {
		return respondServiceError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{})
}

// HandleReorderImages moves the image at primaryImageIndex to the front of
// the product's image sequence.
func (h *ProductHandler) HandleReorderImages(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)

	var req struct {
		PrimaryImageIndex *int `json:"primaryImageIndex"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.PrimaryImageIndex == nil {
		return respondError(c, fiber.StatusBadRequest, "primaryImageIndex is required")
	}

	product, err := h.service.ReorderImages(caller, c.Params("id"), *req.PrimaryImageIndex)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respond(c, fiber.StatusOK, services.NewProductResponse(product))
}
