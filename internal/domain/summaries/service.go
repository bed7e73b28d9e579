package summaries

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/JassK0/care-sync/internal/domain/drift"
	"github.com/JassK0/care-sync/internal/domain/notes"
	"github.com/JassK0/care-sync/internal/platform/oracle"
)

// ErrPatientNotFound is returned when a patient has no notes.
var ErrPatientNotFound = errors.New("patient not found")

const briefUnavailable = "Unable to generate summary: OpenAI API key not configured."

// Summary is the patient review packet: extracted facts, drift alerts, and
// a free-text reconciliation brief over both.
type Summary struct {
	PatientID           string                    `json:"patient_id"`
	Name                string                    `json:"name"`
	NoteCount           int                       `json:"note_count"`
	AlertCount          int                       `json:"alert_count"`
	ReconciliationBrief string                    `json:"reconciliation_brief"`
	ExtractedFacts      []oracle.ExtractionRecord `json:"extracted_facts"`
	Alerts              []drift.Alert             `json:"alerts"`
}

type Service struct {
	repo       notes.Repository
	oracle     oracle.Oracle
	drift      *drift.Service
	configured bool
	log        zerolog.Logger
}

func NewService(repo notes.Repository, o oracle.Oracle, driftSvc *drift.Service, configured bool, log zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		oracle:     o,
		drift:      driftSvc,
		configured: configured,
		log:        log,
	}
}

// PatientSummary builds the review packet for one patient. Facts are
// extracted once and reused for drift detection. Brief generation failures
// degrade to explanatory text; the facts and alerts still come back.
func (s *Service) PatientSummary(ctx context.Context, patientID string) (*Summary, error) {
	ns, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("load patient notes: %w", err)
	}
	if len(ns) == 0 {
		return nil, ErrPatientNotFound
	}

	name := ns[0].PatientName
	if name == "" {
		name = "Unknown"
	}
	summary := &Summary{
		PatientID:      patientID,
		Name:           name,
		NoteCount:      len(ns),
		ExtractedFacts: []oracle.ExtractionRecord{},
		Alerts:         []drift.Alert{},
	}

	if !s.configured {
		summary.ReconciliationBrief = briefUnavailable
		return summary, nil
	}

	records := s.oracle.ExtractFactsBatch(ctx, ns)
	set := s.drift.DetectWithRecords(ctx, ns, records)

	summary.ExtractedFacts = records
	summary.Alerts = set.Alerts
	summary.AlertCount = set.Count
	summary.ReconciliationBrief = s.brief(ctx, records, set.Alerts)
	return summary, nil
}

func (s *Service) brief(ctx context.Context, records []oracle.ExtractionRecord, alerts []drift.Alert) string {
	var facts []oracle.BriefFact
	for _, rec := range records {
		for _, f := range rec.Facts {
			facts = append(facts, oracle.BriefFact{
				Type:    f.Type,
				Value:   f.Value,
				Details: f.Details,
				Source:  f.SourceQuote,
			})
		}
	}

	var briefAlerts []oracle.BriefAlert
	for _, a := range alerts {
		briefAlerts = append(briefAlerts, oracle.BriefAlert{
			Type:        a.AlertType,
			Description: a.Description,
			Roles:       a.RolesInvolved,
		})
	}

	brief, err := s.oracle.GenerateBrief(ctx, facts, briefAlerts)
	if err != nil {
		s.log.Warn().Err(err).Msg("brief generation failed")
		return fmt.Sprintf("Error generating summary: %v", err)
	}
	return brief
}
