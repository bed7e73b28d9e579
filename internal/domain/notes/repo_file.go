package notes

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// fileRepo reads notes from a flat JSON file on every call, mirroring the
// request-scoped loading of the original deployment. The file is either a
// nested patient document or a bare note list; see decodeNotes.
type fileRepo struct {
	path string
}

func NewFileRepo(path string) Repository {
	return &fileRepo{path: path}
}

// patientDocument is the nested file layout: patient demographics at the
// top, notes inside. Demographics are copied onto each note on load.
type patientDocument struct {
	Patients []struct {
		PatientID   string `json:"patient_id"`
		PatientName string `json:"patient_name"`
		MRN         string `json:"mrn"`
		Notes       []Note `json:"notes"`
	} `json:"patients"`
}

func (r *fileRepo) List(ctx context.Context) ([]Note, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Note{}, nil
		}
		return nil, fmt.Errorf("read notes file: %w", err)
	}
	return decodeNotes(data)
}

func decodeNotes(data []byte) ([]Note, error) {
	// Nested structure first: {"patients": [{..., "notes": [...]}]}
	var doc patientDocument
	if err := json.Unmarshal(data, &doc); err == nil && doc.Patients != nil {
		var flattened []Note
		for _, p := range doc.Patients {
			for _, n := range p.Notes {
				n.PatientID = p.PatientID
				n.PatientName = p.PatientName
				n.MRN = p.MRN
				flattened = append(flattened, n)
			}
		}
		return flattened, nil
	}

	// Flat structure: [{"note_id": ...}, ...]
	var flat []Note
	if err := json.Unmarshal(data, &flat); err == nil {
		return flat, nil
	}

	return nil, fmt.Errorf("notes file is neither a patient document nor a note list")
}

func (r *fileRepo) GetByID(ctx context.Context, noteID string) (*Note, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].NoteID == noteID {
			return &all[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *fileRepo) ListByPatient(ctx context.Context, patientID string) ([]Note, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []Note
	for _, n := range all {
		if n.PatientID == patientID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fileRepo) GetByIDs(ctx context.Context, noteIDs []string) ([]Note, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]Note, len(all))
	for _, n := range all {
		byID[n.NoteID] = n
	}
	out := make([]Note, 0, len(noteIDs))
	for _, id := range noteIDs {
		if n, ok := byID[id]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}
