package summaries

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/summaries/patient/:id", h.GetPatientSummary)
}

func (h *Handler) GetPatientSummary(c echo.Context) error {
	summary, err := h.svc.PatientSummary(c.Request().Context(), c.Param("id"))
	if errors.Is(err, ErrPatientNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Patient not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, summary)
}
