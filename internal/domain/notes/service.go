package notes

import (
	"context"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListNotes(ctx context.Context) ([]Note, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetNote(ctx context.Context, noteID string) (*Note, error) {
	if noteID == "" {
		return nil, fmt.Errorf("note_id is required")
	}
	return s.repo.GetByID(ctx, noteID)
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]Note, error) {
	if patientID == "" {
		return nil, fmt.Errorf("patient_id is required")
	}
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) GetByIDs(ctx context.Context, noteIDs []string) ([]Note, error) {
	return s.repo.GetByIDs(ctx, noteIDs)
}
