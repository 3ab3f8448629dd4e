package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"storefront-service/internal/entity"
	"storefront-service/internal/service"
)

type ProductHandler struct {
	productService *service.ProductService
	access         *service.AccessService
}

func NewProductHandler(productService *service.ProductService, access *service.AccessService) *ProductHandler {
	return &ProductHandler{productService: productService, access: access}
}

// CreateProduct adds a catalog item --> POST /products
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.access.RequireManager(ctx, principalEmail(c)); err != nil {
		return respondError(c, err)
	}

	product := entity.Product{}
	if err := c.Bind(&product); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	createdProduct, err := h.productService.CreateProduct(ctx, &product)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, createdProduct)
}

// GetProducts lists the catalog, public --> GET /products
func (h *ProductHandler) GetProducts(c echo.Context) error {
	products, err := h.productService.ListProducts(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(200, products)
}

// GetProduct returns one catalog item, public --> GET /products/:id
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid product ID"})
	}

	product, err := h.productService.GetProductByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, product)
}

// UpdateProduct edits a catalog item --> PATCH /products/:id
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.access.RequireManager(ctx, principalEmail(c)); err != nil {
		return respondError(c, err)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid product ID"})
	}

	patch := service.ProductPatch{}
	if err := c.Bind(&patch); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	updatedProduct, err := h.productService.UpdateProduct(ctx, id, &patch)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, updatedProduct)
}

// DeleteProduct removes a catalog item --> DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.access.RequireManager(ctx, principalEmail(c)); err != nil {
		return respondError(c, err)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid product ID"})
	}

	if err := h.productService.DeleteProduct(ctx, id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, map[string]string{"message": "Product deleted"})
}
