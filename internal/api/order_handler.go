package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"storefront-service/internal/entity"
	"storefront-service/internal/service"
)

type OrderHandler struct {
	orderService *service.OrderService
	access       *service.AccessService
}

func NewOrderHandler(orderService *service.OrderService, access *service.AccessService) *OrderHandler {
	return &OrderHandler{orderService: orderService, access: access}
}

// CreateOrder creates a new order --> POST /orders
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	order := entity.Order{}
	if err := c.Bind(&order); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	if order.Email == "" {
		order.Email = principalEmail(c)
	}

	createdOrder, err := h.orderService.CreateOrder(ctx, &order)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, createdOrder)
}

// GetOrders lists the orders of one buyer --> GET /orders?email=
func (h *OrderHandler) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	email := c.QueryParam("email")

	if err := h.access.RequireSelfOrAdmin(ctx, principalEmail(c), email); err != nil {
		return respondError(c, err)
	}

	orders, err := h.orderService.ListOrdersByEmail(ctx, email)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, orders)
}

// GetOrder retrieves a single order --> GET /orders/:id
func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	order, err := h.orderService.GetOrderByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, order)
}

// DeleteOrder deletes an order, owner or admin only --> DELETE /orders/:id
func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	order, err := h.orderService.GetOrderByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.access.RequireSelfOrAdmin(ctx, principalEmail(c), order.Email); err != nil {
		return respondError(c, err)
	}

	if err := h.orderService.DeleteOrder(ctx, id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, map[string]string{"message": "Order deleted"})
}

// GetPendingOrders lists orders awaiting review --> GET /orders/pending
func (h *OrderHandler) GetPendingOrders(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.access.RequireManager(ctx, principalEmail(c)); err != nil {
		return respondError(c, err)
	}

	orders, err := h.orderService.ListPending(ctx)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, orders)
}

// GetApprovedOrders lists the active fulfillment queue --> GET /orders/approved
func (h *OrderHandler) GetApprovedOrders(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.access.RequireManager(ctx, principalEmail(c)); err != nil {
		return respondError(c, err)
	}

	orders, err := h.orderService.ListActive(ctx)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, orders)
}

// UpdateOrderStatus moves an order through review --> PATCH /orders/status/:id
func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.access.RequireManager(ctx, principalEmail(c)); err != nil {
		return respondError(c, err)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	body := struct {
		Status string `json:"status"`
	}{}
	if err := c.Bind(&body); err != nil || body.Status == "" {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	order, err := h.orderService.UpdateOrderStatus(ctx, id, body.Status)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, order)
}

// AppendTracking records a fulfillment event --> PATCH /orders/tracking/:id
func (h *OrderHandler) AppendTracking(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.access.RequireManager(ctx, principalEmail(c)); err != nil {
		return respondError(c, err)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	event := entity.TrackingEvent{}
	if err := c.Bind(&event); err != nil || event.Status == "" {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	order, err := h.orderService.AppendTracking(ctx, id, &event)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, order)
}
