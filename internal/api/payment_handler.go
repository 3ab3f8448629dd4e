package api

import (
	"github.com/labstack/echo/v4"

	"storefront-service/internal/entity"
	"storefront-service/internal/service"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
	access         *service.AccessService
}

func NewPaymentHandler(paymentService *service.PaymentService, access *service.AccessService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, access: access}
}

// CreateCheckoutSession opens a processor session --> POST /create-checkout-session
func (h *PaymentHandler) CreateCheckoutSession(c echo.Context) error {
	body := struct {
		Order entity.Order `json:"order"`
	}{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	url, err := h.paymentService.CreateCheckoutSession(c.Request().Context(), &body.Order)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, map[string]string{"url": url})
}

// ConfirmPayment records a completed session --> POST /payments/success
func (h *PaymentHandler) ConfirmPayment(c echo.Context) error {
	body := struct {
		SessionID string `json:"sessionId"`
		OrderID   int64  `json:"orderId"`
	}{}
	if err := c.Bind(&body); err != nil || body.SessionID == "" {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	result, err := h.paymentService.ConfirmPayment(c.Request().Context(), body.SessionID, body.OrderID)
	if err != nil {
		return respondError(c, err)
	}

	if result.InsertedID == nil {
		return c.JSON(200, map[string]any{"message": result.Message, "paymentResult": result})
	}
	return c.JSON(200, map[string]any{"paymentResult": result})
}

// GetPayments lists one payer's history --> GET /payments?email=
func (h *PaymentHandler) GetPayments(c echo.Context) error {
	ctx := c.Request().Context()
	email := c.QueryParam("email")

	if err := h.access.RequireSelfOrAdmin(ctx, principalEmail(c), email); err != nil {
		return respondError(c, err)
	}

	if email == "" {
		return c.JSON(200, []entity.Payment{})
	}

	payments, err := h.paymentService.ListPaymentsByEmail(ctx, email)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, payments)
}

// GetPaymentsByEmail lists one payer's history --> GET /payments/:email
func (h *PaymentHandler) GetPaymentsByEmail(c echo.Context) error {
	ctx := c.Request().Context()
	email := c.Param("email")

	if err := h.access.RequireSelfOrAdmin(ctx, principalEmail(c), email); err != nil {
		return respondError(c, err)
	}

	payments, err := h.paymentService.ListPaymentsByEmail(ctx, email)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, payments)
}
