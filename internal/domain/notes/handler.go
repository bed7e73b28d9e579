package notes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/JassK0/care-sync/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/notes", h.ListNotes)
	api.GET("/notes/:id", h.GetNote)
	api.GET("/notes/patient/:id", h.ListByPatient)
	api.POST("/notes/by-ids", h.GetByIDs)
}

// NoteListResponse wraps a note list with its count, the shape all list
// endpoints share.
type NoteListResponse struct {
	Notes []Note `json:"notes"`
	Count int    `json:"count"`
}

type byIDsRequest struct {
	NoteIDs []string `json:"note_ids"`
}

func (h *Handler) ListNotes(c echo.Context) error {
	ns, err := h.svc.ListNotes(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	// Optional limit/offset; without them the full list comes back.
	start, end := pagination.FromContext(c).Bounds(len(ns))
	page := ns[start:end]
	return c.JSON(http.StatusOK, NoteListResponse{Notes: emptyIfNil(page), Count: len(page)})
}

func (h *Handler) GetNote(c echo.Context) error {
	n, err := h.svc.GetNote(c.Request().Context(), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Note not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, n)
}

func (h *Handler) ListByPatient(c echo.Context) error {
	ns, err := h.svc.ListByPatient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, NoteListResponse{Notes: emptyIfNil(ns), Count: len(ns)})
}

func (h *Handler) GetByIDs(c echo.Context) error {
	var req byIDsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	ns, err := h.svc.GetByIDs(c.Request().Context(), req.NoteIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, NoteListResponse{Notes: emptyIfNil(ns), Count: len(ns)})
}

func emptyIfNil(ns []Note) []Note {
	if ns == nil {
		return []Note{}
	}
	return ns
}
