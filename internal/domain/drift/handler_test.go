package drift

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/JassK0/care-sync/internal/domain/notes"
)

var errListFailed = errors.New("note store unavailable")

func alertRequest(t *testing.T, h *Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h.RegisterRoutes(e.Group("/api"))

	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandler_GetAllAlerts(t *testing.T) {
	repo := &stubNoteRepo{notes: []notes.Note{
		note("n1", "pat-1", "RN", "2024-03-15 08:00:00"),
		note("n2", "pat-1", "MD", "2024-03-15 10:00:00"),
	}}
	h := NewHandler(conflictService(repo, oxygenOracle(), true), zerolog.Nop())

	rec := alertRequest(t, h, http.MethodGet, "/api/alerts")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp AlertsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Count != 1 || len(resp.Alerts) != 1 {
		t.Errorf("count = %d, alerts = %d", resp.Count, len(resp.Alerts))
	}
	if resp.Warning != "" || resp.Error != "" {
		t.Errorf("unexpected warning/error: %q / %q", resp.Warning, resp.Error)
	}
}

func TestHandler_GetAllAlertsNotConfigured(t *testing.T) {
	repo := &stubNoteRepo{notes: []notes.Note{
		note("n1", "pat-1", "RN", "2024-03-15 08:00:00"),
	}}
	h := NewHandler(conflictService(repo, &stubOracle{}, false), zerolog.Nop())

	rec := alertRequest(t, h, http.MethodGet, "/api/alerts")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want degraded 200", rec.Code)
	}
	var resp AlertsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Count != 0 || len(resp.Alerts) != 0 {
		t.Errorf("expected empty alert list, got %+v", resp)
	}
	if !strings.Contains(resp.Warning, "API key not configured") {
		t.Errorf("warning = %q", resp.Warning)
	}
}

func TestHandler_GetAllAlertsRepoFailureIsDegraded(t *testing.T) {
	repo := &stubNoteRepo{listErr: errListFailed}
	h := NewHandler(conflictService(repo, &stubOracle{}, true), zerolog.Nop())

	rec := alertRequest(t, h, http.MethodGet, "/api/alerts")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want degraded 200", rec.Code)
	}
	var resp AlertsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Error == "" {
		t.Error("expected error field on pipeline failure")
	}
	if resp.Alerts == nil {
		t.Error("alerts must be an empty list, not null")
	}
}

func TestHandler_GetPatientAlerts(t *testing.T) {
	repo := &stubNoteRepo{notes: []notes.Note{
		note("n1", "pat-1", "RN", "2024-03-15 08:00:00"),
		note("n2", "pat-1", "MD", "2024-03-15 10:00:00"),
		note("n3", "pat-2", "RN", "2024-03-15 10:00:00"),
	}}
	h := NewHandler(conflictService(repo, oxygenOracle(), true), zerolog.Nop())

	rec := alertRequest(t, h, http.MethodGet, "/api/alerts/patient/pat-1")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp AlertsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Count != 1 {
		t.Errorf("count = %d, want 1", resp.Count)
	}
	if resp.Alerts[0].PatientID != "pat-1" {
		t.Errorf("patient id = %q", resp.Alerts[0].PatientID)
	}
}

func TestHandler_GetAlertByID(t *testing.T) {
	repo := &stubNoteRepo{notes: []notes.Note{
		note("n1", "pat-1", "RN", "2024-03-15 08:00:00"),
		note("n2", "pat-1", "MD", "2024-03-15 10:00:00"),
	}}
	h := NewHandler(conflictService(repo, oxygenOracle(), true), zerolog.Nop())

	rec := alertRequest(t, h, http.MethodGet, "/api/alerts/conflict_pat-1_n1_n2")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var alert Alert
	if err := json.Unmarshal(rec.Body.Bytes(), &alert); err != nil {
		t.Fatalf("unmarshal alert: %v", err)
	}
	if alert.AlertID != "conflict_pat-1_n1_n2" {
		t.Errorf("alert id = %q", alert.AlertID)
	}
}

func TestHandler_GetAlertNotFound(t *testing.T) {
	repo := &stubNoteRepo{notes: []notes.Note{
		note("n1", "pat-1", "RN", "2024-03-15 08:00:00"),
		note("n2", "pat-1", "MD", "2024-03-15 10:00:00"),
	}}
	h := NewHandler(conflictService(repo, oxygenOracle(), true), zerolog.Nop())

	rec := alertRequest(t, h, http.MethodGet, "/api/alerts/nope")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandler_GetAlertNotConfiguredIs404(t *testing.T) {
	repo := &stubNoteRepo{notes: []notes.Note{
		note("n1", "pat-1", "RN", "2024-03-15 08:00:00"),
	}}
	h := NewHandler(conflictService(repo, &stubOracle{}, false), zerolog.Nop())

	rec := alertRequest(t, h, http.MethodGet, "/api/alerts/anything")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
