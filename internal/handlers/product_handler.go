package handlers

import (
	"gudang/internal/middleware"
	"gudang/internal/models"
	"gudang/internal/services"
	"gudang/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the caller's products.
type ProductHandler struct {
	productService *services.ProductService
	validate       *validation.Validator
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService, validate *validation.Validator) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validate:       validate,
	}
}

// RegisterRoutes registers the product routes behind authRequired.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	productRoutes := router.Group("/products", authRequired)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Get("/", h.HandleListProducts)
	// must be registered before /:id
	productRoutes.Get("/stats", h.HandleGetStats)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
	productRoutes.Patch("/:id/quantity", h.HandleAdjustQuantity)
}

func ownerID(c *fiber.Ctx) string {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return ""
	}
	return user.ID
}

// HandleCreateProduct handles POST /products.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req models.CreateProductRequest
	if err := h.validate.ParseBody(c, &req); err != nil {
		return err
	}

	product, err := h.productService.CreateProduct(c.UserContext(), ownerID(c), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Product created successfully", fiber.Map{"product": product})
}

// HandleListProducts handles GET /products with filters, sorting and pagination.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	var query models.ListProductsQuery
	if err := h.validate.ParseQuery(c, &query); err != nil {
		return err
	}

	page, err := h.productService.ListProducts(c.UserContext(), ownerID(c), query)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Products retrieved successfully", fiber.Map{
		"products":   page.Products,
		"pagination": page.Pagination,
	})
}

// HandleGetStats handles GET /products/stats.
func (h *ProductHandler) HandleGetStats(c *fiber.Ctx) error {
	stats, err := h.productService.Statistics(c.UserContext(), ownerID(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Inventory statistics retrieved successfully", fiber.Map{"stats": stats})
}

func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.productService.GetProductByID(c.UserContext(), ownerID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Product retrieved successfully", fiber.Map{"product": product})
}

func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req models.UpdateProductRequest
	if err := h.validate.ParseBody(c, &req); err != nil {
		return err
	}

	product, err := h.productService.UpdateProduct(c.UserContext(), ownerID(c), c.Params("id"), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Product updated successfully", fiber.Map{"product": product})
}

func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	product, err := h.productService.DeleteProduct(c.UserContext(), ownerID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Product deleted successfully", fiber.Map{"product": product})
}

// HandleAdjustQuantity handles PATCH /products/:id/quantity.
func (h *ProductHandler) HandleAdjustQuantity(c *fiber.Ctx) error {
	var req models.AdjustQuantityRequest
	if err := h.validate.ParseBody(c, &req); err != nil {
		return err
	}

	product, err := h.productService.AdjustQuantity(c.UserContext(), ownerID(c), c.Params("id"), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Product quantity updated successfully", fiber.Map{"product": product})
}
