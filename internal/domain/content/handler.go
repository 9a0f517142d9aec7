package content

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/careatlas/careatlas/internal/platform/auth"
	"github.com/careatlas/careatlas/pkg/pagination"
)

// Handler provides HTTP handlers for editorial content.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers content routes. Public callers see published items
// only; the admin surface manages the full set.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/content", h.ListPublished)
	api.GET("/content/:slug", h.GetBySlug)

	admin := api.Group("/admin", auth.RequireRole(auth.RoleAdmin))
	admin.GET("/content", h.ListAll)
	admin.POST("/content", h.Create)
	admin.PUT("/content/:id", h.Update)
	admin.DELETE("/content/:id", h.Delete)
}

func (h *Handler) ListPublished(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListPublished(c.Request().Context(), c.QueryParam("kind"), pg.Limit, pg.Offset())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) GetBySlug(c echo.Context) error {
	it, err := h.svc.GetPublishedBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "content not found")
	}
	return c.JSON(http.StatusOK, it)
}

func (h *Handler) ListAll(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListAll(c.Request().Context(), pg.Limit, pg.Offset())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) Create(c echo.Context) error {
	var it Item
	if err := c.Bind(&it); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &it); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, it)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var it Item
	if err := c.Bind(&it); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	it.ID = id
	if err := h.svc.Update(c.Request().Context(), &it); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, it)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
