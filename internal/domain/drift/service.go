package drift

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/JassK0/care-sync/internal/domain/notes"
	"github.com/JassK0/care-sync/internal/platform/oracle"
)

// ErrOracleNotConfigured signals that no usable oracle credential is
// present. Handlers translate it into a degraded 200 response, never a 5xx.
var ErrOracleNotConfigured = errors.New("oracle not configured")

// ErrAlertNotFound is returned when an alert id does not appear in the
// freshly computed alert set.
var ErrAlertNotFound = errors.New("alert not found")

// Service is the drift detection pipeline: extract facts, group by patient,
// run the rules, order the output. The all-alerts aggregate is served
// through the result cache; per-patient queries always recompute.
type Service struct {
	repo       notes.Repository
	oracle     oracle.Oracle
	engine     *Engine
	cache      *ResultCache
	configured bool
	log        zerolog.Logger
}

func NewService(repo notes.Repository, o oracle.Oracle, engine *Engine, cache *ResultCache, configured bool, log zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		oracle:     o,
		engine:     engine,
		cache:      cache,
		configured: configured,
		log:        log,
	}
}

// Detect runs the full pipeline over the given notes. Output is
// deterministic for a deterministic oracle: alert ids derive from rule,
// patient, and source notes, and ordering is a stable timestamp sort.
func (s *Service) Detect(ctx context.Context, ns []notes.Note) *AlertSet {
	s.log.Info().Int("note_count", len(ns)).Msg("extracting facts")
	records := s.oracle.ExtractFactsBatch(ctx, ns)
	return s.DetectWithRecords(ctx, ns, records)
}

// DetectWithRecords runs grouping and the rules over already-extracted
// facts. The summaries endpoint uses this to avoid re-extracting a note set
// it has just extracted.
func (s *Service) DetectWithRecords(ctx context.Context, ns []notes.Note, records []oracle.ExtractionRecord) *AlertSet {
	index := GroupByPatient(ns, records)
	alerts := s.engine.Run(ctx, index)
	s.log.Info().Int("alert_count", len(alerts)).Msg("drift detection complete")

	if alerts == nil {
		alerts = []Alert{}
	}
	return &AlertSet{Alerts: alerts, Count: len(alerts)}
}

// AllAlerts returns the cached aggregate alert set, recomputing when the
// cache has expired. An empty note set short-circuits to an empty result
// without touching the oracle or the cache.
func (s *Service) AllAlerts(ctx context.Context) (*AlertSet, error) {
	ns, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}
	if len(ns) == 0 {
		return &AlertSet{Alerts: []Alert{}, Count: 0}, nil
	}
	if !s.configured {
		return nil, ErrOracleNotConfigured
	}

	return s.cache.GetOrCompute(func() (*AlertSet, error) {
		return s.Detect(ctx, ns), nil
	})
}

// PatientAlerts recomputes drift for one patient's notes, bypassing the
// cache.
func (s *Service) PatientAlerts(ctx context.Context, patientID string) (*AlertSet, error) {
	ns, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("load patient notes: %w", err)
	}
	if len(ns) == 0 {
		return &AlertSet{Alerts: []Alert{}, Count: 0}, nil
	}
	if !s.configured {
		return nil, ErrOracleNotConfigured
	}

	return s.Detect(ctx, ns), nil
}

// GetAlert looks an alert up by id in the (possibly cached) aggregate set.
func (s *Service) GetAlert(ctx context.Context, alertID string) (*Alert, error) {
	set, err := s.AllAlerts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range set.Alerts {
		if set.Alerts[i].AlertID == alertID {
			return &set.Alerts[i], nil
		}
	}
	return nil, ErrAlertNotFound
}
