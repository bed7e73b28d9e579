package patients

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func patientServer(repo *stubRepo) *echo.Echo {
	e := echo.New()
	NewHandler(NewService(repo)).RegisterRoutes(e.Group("/api"))
	return e
}

func TestHandler_ListPatients(t *testing.T) {
	e := patientServer(&stubRepo{notes: sampleNotes()})

	req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp patientListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Count != 2 || len(resp.Patients) != 2 {
		t.Errorf("count = %d, patients = %d", resp.Count, len(resp.Patients))
	}
}

func TestHandler_ListPatientsEmpty(t *testing.T) {
	e := patientServer(&stubRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp patientListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Patients == nil {
		t.Error("patients must be an empty list, not null")
	}
}

func TestHandler_GetPatient(t *testing.T) {
	e := patientServer(&stubRepo{notes: sampleNotes()})

	req := httptest.NewRequest(http.MethodGet, "/api/patients/pat-1", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var p PatientDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("unmarshal detail: %v", err)
	}
	if p.PatientID != "pat-1" || p.NoteCount != 3 {
		t.Errorf("detail = %+v", p)
	}
}

func TestHandler_GetPatientNotFound(t *testing.T) {
	e := patientServer(&stubRepo{notes: sampleNotes()})

	req := httptest.NewRequest(http.MethodGet, "/api/patients/nobody", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
