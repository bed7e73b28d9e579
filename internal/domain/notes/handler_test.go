package notes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestServer(t *testing.T, doc string) *echo.Echo {
	t.Helper()
	repo := NewFileRepo(writeNotesFile(t, doc))
	e := echo.New()
	NewHandler(NewService(repo)).RegisterRoutes(e.Group("/api"))
	return e
}

func TestListNotes(t *testing.T) {
	e := newTestServer(t, nestedDoc)

	req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp NoteListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Count != 3 || len(resp.Notes) != 3 {
		t.Errorf("count = %d, notes = %d", resp.Count, len(resp.Notes))
	}
}

func TestListNotes_Paginated(t *testing.T) {
	e := newTestServer(t, nestedDoc)

	req := httptest.NewRequest(http.MethodGet, "/api/notes?limit=2&offset=1", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp NoteListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("count = %d, want 2", resp.Count)
	}
	if resp.Notes[0].NoteID != "n2" || resp.Notes[1].NoteID != "n3" {
		t.Errorf("page = %s, %s; want n2, n3", resp.Notes[0].NoteID, resp.Notes[1].NoteID)
	}
}

func TestGetNote(t *testing.T) {
	e := newTestServer(t, nestedDoc)

	req := httptest.NewRequest(http.MethodGet, "/api/notes/n2", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var n Note
	if err := json.Unmarshal(rec.Body.Bytes(), &n); err != nil {
		t.Fatalf("unmarshal note: %v", err)
	}
	if n.NoteID != "n2" || n.AuthorRole != "MD" {
		t.Errorf("note = %+v", n)
	}
}

func TestGetNote_NotFound(t *testing.T) {
	e := newTestServer(t, nestedDoc)

	req := httptest.NewRequest(http.MethodGet, "/api/notes/missing", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestListByPatient(t *testing.T) {
	e := newTestServer(t, nestedDoc)

	req := httptest.NewRequest(http.MethodGet, "/api/notes/patient/pat-2", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp NoteListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Count != 1 || resp.Notes[0].NoteID != "n3" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestListByPatient_UnknownPatientIsEmptyList(t *testing.T) {
	e := newTestServer(t, nestedDoc)

	req := httptest.NewRequest(http.MethodGet, "/api/notes/patient/nobody", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"notes":[]`) {
		t.Errorf("expected empty notes array, got %s", rec.Body.String())
	}
}

func TestGetByIDs(t *testing.T) {
	e := newTestServer(t, nestedDoc)

	body := strings.NewReader(`{"note_ids": ["n3", "missing", "n1"]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/notes/by-ids", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp NoteListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("count = %d, want 2", resp.Count)
	}
	if resp.Notes[0].NoteID != "n3" || resp.Notes[1].NoteID != "n1" {
		t.Errorf("order = %s, %s", resp.Notes[0].NoteID, resp.Notes[1].NoteID)
	}
}

func TestGetByIDs_BadBody(t *testing.T) {
	e := newTestServer(t, nestedDoc)

	req := httptest.NewRequest(http.MethodPost, "/api/notes/by-ids", strings.NewReader("{"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
