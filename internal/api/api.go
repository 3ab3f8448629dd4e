// Package api holds the echo handlers. Authentication (a valid bearer token)
// is enforced by the echo-jwt middleware before any of these run; role checks
// all go through the access service.
package api

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"storefront-service/internal/service"
)

// principalEmail extracts the verified email from the token the jwt middleware
// stored on the context. Empty on public routes.
func principalEmail(c echo.Context) string {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	email, _ := claims["email"].(string)
	return email
}

func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(403, map[string]string{"message": "forbidden access"})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(404, map[string]string{"error": "not found"})
	case errors.Is(err, service.ErrPaymentNotVerified):
		return c.JSON(400, map[string]string{"message": "Payment not verified"})
	case errors.Is(err, service.ErrUpstreamUnavailable):
		return c.JSON(502, map[string]string{"error": "payment processor unavailable"})
	default:
		return c.JSON(500, map[string]string{"error": err.Error()})
	}
}
