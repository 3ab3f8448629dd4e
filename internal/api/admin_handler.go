package api

import (
	"github.com/labstack/echo/v4"

	"storefront-service/internal/service"
)

type AdminHandler struct {
	statsService *service.StatsService
	access       *service.AccessService
}

func NewAdminHandler(statsService *service.StatsService, access *service.AccessService) *AdminHandler {
	return &AdminHandler{statsService: statsService, access: access}
}

// GetStats returns dashboard aggregates --> GET /admin-stats
func (h *AdminHandler) GetStats(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.access.RequireAdmin(ctx, principalEmail(c)); err != nil {
		return respondError(c, err)
	}

	overview, err := h.statsService.Overview(ctx)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, overview)
}
