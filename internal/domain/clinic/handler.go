package clinic

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/careatlas/careatlas/internal/platform/auth"
	"github.com/careatlas/careatlas/pkg/pagination"
)

// Handler provides HTTP handlers for clinic listings.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers clinic routes. Reads are public; creation is
// admin-only; updates require the owner or an admin; claiming requires an
// authenticated clinic user.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/clinics", h.Search)
	api.GET("/clinics/:slug", h.GetBySlug)

	api.POST("/clinics", h.Create, auth.RequireRole(auth.RoleAdmin))
	api.PUT("/clinics/:id", h.Update, auth.RequireRole(auth.RoleClinic))
	api.POST("/clinics/:id/claim", h.Claim, auth.RequireRole(auth.RoleClinic))
}

func (h *Handler) Create(c echo.Context) error {
	var cl Clinic
	if err := c.Bind(&cl); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &cl); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, cl)
}

func (h *Handler) GetBySlug(c echo.Context) error {
	cl, err := h.svc.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "clinic not found")
	}
	return c.JSON(http.StatusOK, cl)
}

func (h *Handler) Search(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := SearchFilter{
		DestinationCode: c.QueryParam("destination"),
		Procedure:       c.QueryParam("procedure"),
		Query:           c.QueryParam("q"),
	}
	items, total, err := h.svc.Search(c.Request().Context(), f, pg.Limit, pg.Offset())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	ctx := c.Request().Context()
	existing, err := h.svc.Get(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "clinic not found")
	}

	// Owners may only edit their own listing. Admins pass the role gate with
	// any listing.
	userID := auth.UserIDFromContext(ctx)
	if !auth.HasRole(ctx, auth.RoleAdmin) {
		if existing.OwnerUserID == nil || *existing.OwnerUserID != userID {
			return echo.NewHTTPError(http.StatusForbidden, "not the owner of this clinic")
		}
	}

	var cl Clinic
	if err := c.Bind(&cl); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	cl.ID = id
	cl.Slug = existing.Slug
	cl.OwnerUserID = existing.OwnerUserID
	if err := h.svc.Update(ctx, &cl); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, cl)
}

func (h *Handler) Claim(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	ctx := c.Request().Context()
	userID := auth.UserIDFromContext(ctx)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	if err := h.svc.Claim(ctx, id, userID); err != nil {
		if errors.Is(err, ErrAlreadyClaimed) {
			return echo.NewHTTPError(http.StatusConflict, "clinic already claimed")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"clinicId": id, "claimed": true})
}
