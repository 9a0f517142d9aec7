package enquiry

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/careatlas/careatlas/internal/platform/auth"
	"github.com/careatlas/careatlas/pkg/pagination"
)

// Handler provides the HTTP surface of the enquiry pipeline.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers enquiry routes. Submission is public (signed-in
// callers are attributed); reads and transitions require authentication.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/enquiries", h.Submit)

	authed := api.Group("", auth.RequireAuthenticated())
	authed.GET("/enquiries", h.List)
	authed.GET("/enquiries/:id", h.Get)
	authed.POST("/enquiries/:id/status", h.UpdateStatus)
}

func (h *Handler) caller(c echo.Context) Caller {
	ctx := c.Request().Context()
	return Caller{
		UserID: auth.UserIDFromContext(ctx),
		Roles:  auth.RolesFromContext(ctx),
	}
}

// Submit maps pipeline outcomes onto the response contract: 201 created,
// 400 validation, 404 unknown clinic, 424 saved-but-not-notified, 500
// persistence failure.
func (h *Handler) Submit(c echo.Context) error {
	var req SubmitRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
	}

	ctx := c.Request().Context()
	res, err := h.svc.Submit(ctx, &req, auth.UserIDFromContext(ctx))
	if err != nil {
		var validationErr *ValidationError
		var degraded *DegradedError
		var persistErr *PersistError

		switch {
		case errors.As(err, &validationErr):
			details := make(map[string]string, len(validationErr.Violations))
			for _, v := range validationErr.Violations {
				details[v.Field] = v.Message
			}
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"error":   "Validation failed",
				"details": details,
			})
		case errors.Is(err, ErrClinicNotFound):
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"error": "Clinic not found",
			})
		case errors.As(err, &degraded):
			return c.JSON(http.StatusFailedDependency, map[string]interface{}{
				"error":             "Enquiry saved but the clinic could not be notified by email",
				"code":              degraded.Code,
				"enquiryId":         degraded.EnquiryID,
				"leadSavedInPortal": true,
			})
		case errors.As(err, &persistErr):
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{
				"error":  "Failed to save enquiry",
				"detail": persistErr.Err.Error(),
			})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{
				"error":  "Internal error",
				"detail": err.Error(),
			})
		}
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"id":        res.ID,
		"status":    res.Status,
		"createdAt": res.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	status := Status(c.QueryParam("status"))

	items, total, err := h.svc.List(c.Request().Context(), h.caller(c), status, pg.Limit, pg.Offset())
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			return echo.NewHTTPError(http.StatusForbidden, "role not permitted to list enquiries")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if items == nil {
		items = []*Enquiry{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"enquiries":  items,
		"total":      total,
		"page":       pg.Page,
		"totalPages": pg.TotalPages(total),
	})
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	e, err := h.svc.Get(c.Request().Context(), h.caller(c), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "enquiry not found")
		case errors.Is(err, ErrForbidden):
			return echo.NewHTTPError(http.StatusForbidden, "not permitted to view this enquiry")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var body struct {
		Status Status `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	e, err := h.svc.UpdateStatus(c.Request().Context(), h.caller(c), id, body.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "enquiry not found")
		case errors.Is(err, ErrForbidden):
			return echo.NewHTTPError(http.StatusForbidden, "not permitted to transition this enquiry")
		case errors.Is(err, ErrInvalidTransition):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusOK, e)
}
