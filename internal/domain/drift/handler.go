package drift

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// oracleWarning is surfaced on the alert endpoints when no usable
// credential is configured. The caller still gets HTTP 200 with an empty
// alert list: missing configuration is a degraded state, not a failure.
const oracleWarning = "OpenAI API key not configured. Please add your API key to the .env file."

type Handler struct {
	svc *Service
	log zerolog.Logger
}

func NewHandler(svc *Service, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/alerts", h.GetAllAlerts)
	api.GET("/alerts/patient/:id", h.GetPatientAlerts)
	api.GET("/alerts/:id", h.GetAlert)
}

// AlertsResponse is the wire shape of every alert list endpoint. Warning
// carries the not-configured message; Error carries a pipeline failure.
// Both arrive with HTTP 200 and an empty alert list.
type AlertsResponse struct {
	Alerts  []Alert `json:"alerts"`
	Count   int     `json:"count"`
	Warning string  `json:"warning,omitempty"`
	Error   string  `json:"error,omitempty"`
}

func (h *Handler) GetAllAlerts(c echo.Context) error {
	set, err := h.svc.AllAlerts(c.Request().Context())
	if err != nil {
		return h.degraded(c, err)
	}
	return c.JSON(http.StatusOK, AlertsResponse{Alerts: set.Alerts, Count: set.Count})
}

func (h *Handler) GetPatientAlerts(c echo.Context) error {
	set, err := h.svc.PatientAlerts(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.degraded(c, err)
	}
	return c.JSON(http.StatusOK, AlertsResponse{Alerts: set.Alerts, Count: set.Count})
}

func (h *Handler) GetAlert(c echo.Context) error {
	alert, err := h.svc.GetAlert(c.Request().Context(), c.Param("id"))
	if errors.Is(err, ErrAlertNotFound) || errors.Is(err, ErrOracleNotConfigured) {
		return echo.NewHTTPError(http.StatusNotFound, "Alert not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, alert)
}

// degraded maps pipeline errors onto the empty-but-200 response contract:
// the user should see "fewer alerts" before they see "no response".
func (h *Handler) degraded(c echo.Context, err error) error {
	resp := AlertsResponse{Alerts: []Alert{}, Count: 0}
	if errors.Is(err, ErrOracleNotConfigured) {
		resp.Warning = oracleWarning
	} else {
		h.log.Error().Err(err).Msg("alert computation failed")
		resp.Error = err.Error()
	}
	return c.JSON(http.StatusOK, resp)
}
