package dashboard

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/careatlas/careatlas/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/dashboard/enquiries", h.EnquiryStats, auth.RequireRole(auth.RoleClinic))
}

func (h *Handler) EnquiryStats(c echo.Context) error {
	ctx := c.Request().Context()
	stats, err := h.svc.EnquiryStats(ctx, auth.UserIDFromContext(ctx), auth.RolesFromContext(ctx))
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			return echo.NewHTTPError(http.StatusForbidden, "dashboard access requires a clinic or admin role")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}
