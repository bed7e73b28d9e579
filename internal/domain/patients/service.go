package patients

import (
	"context"
	"errors"
	"sort"

	"github.com/JassK0/care-sync/internal/domain/notes"
)

// ErrNotFound is returned when no notes exist for a patient id.
var ErrNotFound = errors.New("patient not found")

type Service struct {
	repo notes.Repository
}

func NewService(repo notes.Repository) *Service {
	return &Service{repo: repo}
}

// ListPatients folds the note set into one directory entry per patient.
// Entries are ordered by first appearance in the note set.
func (s *Service) ListPatients(ctx context.Context) ([]Patient, error) {
	ns, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*Patient)
	roles := make(map[string]map[string]bool)
	var order []string

	for _, n := range ns {
		pid := n.PatientID
		if pid == "" {
			pid = "unknown"
		}
		p, ok := byID[pid]
		if !ok {
			p = &Patient{
				PatientID: pid,
				Name:      n.PatientName,
				MRN:       n.MRN,
			}
			if p.Name == "" {
				p.Name = "Unknown"
			}
			byID[pid] = p
			roles[pid] = make(map[string]bool)
			order = append(order, pid)
		}

		p.NoteCount++
		roles[pid][n.AuthorRole] = true
		if n.Timestamp > p.LatestNote {
			p.LatestNote = n.Timestamp
		}
	}

	out := make([]Patient, 0, len(order))
	for _, pid := range order {
		p := byID[pid]
		for role := range roles[pid] {
			p.Roles = append(p.Roles, role)
		}
		sort.Strings(p.Roles)
		out = append(out, *p)
	}
	return out, nil
}

func (s *Service) GetPatient(ctx context.Context, patientID string) (*PatientDetail, error) {
	ns, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if len(ns) == 0 {
		return nil, ErrNotFound
	}

	first := ns[0]
	name := first.PatientName
	if name == "" {
		name = "Unknown"
	}
	return &PatientDetail{
		PatientID: patientID,
		Name:      name,
		MRN:       first.MRN,
		NoteCount: len(ns),
		Notes:     ns,
	}, nil
}
