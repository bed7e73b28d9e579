package patients

import "github.com/JassK0/care-sync/internal/domain/notes"

// Patient is a directory entry derived from the note set; there is no
// separate patient store.
type Patient struct {
	PatientID  string   `json:"patient_id"`
	Name       string   `json:"name"`
	MRN        string   `json:"mrn"`
	NoteCount  int      `json:"note_count"`
	Roles      []string `json:"roles"`
	LatestNote string   `json:"latest_note"`
}

// PatientDetail is the single-patient view with the full note list attached.
type PatientDetail struct {
	PatientID string       `json:"patient_id"`
	Name      string       `json:"name"`
	MRN       string       `json:"mrn"`
	NoteCount int          `json:"note_count"`
	Notes     []notes.Note `json:"notes"`
}
