package drift

import (
	"context"

	"github.com/JassK0/care-sync/internal/domain/notes"
	"github.com/JassK0/care-sync/internal/platform/oracle"
)

// stubOracle implements oracle.Oracle with per-call function fields. Unset
// fields behave like an oracle that always declines, mirroring the
// fail-closed contract of the real client.
type stubOracle struct {
	extractFn      func(noteText, noteID, authorRole string) oracle.ExtractionRecord
	conflictFn     func(note1, note2 notes.Note, facts1, facts2 []oracle.Fact) (*oracle.ConflictResult, bool)
	sameConcernFn  func(fact1, fact2 oracle.Fact, role1, role2 string) bool
	acknowledgedFn func(concern, physician oracle.Fact) bool
	briefFn        func(facts []oracle.BriefFact, alerts []oracle.BriefAlert) (string, error)
}

func (s *stubOracle) ExtractFacts(ctx context.Context, noteText, noteID, authorRole string) oracle.ExtractionRecord {
	if s.extractFn == nil {
		return oracle.ExtractionRecord{NoteID: noteID, Facts: []oracle.Fact{}}
	}
	return s.extractFn(noteText, noteID, authorRole)
}

func (s *stubOracle) ExtractFactsBatch(ctx context.Context, ns []notes.Note) []oracle.ExtractionRecord {
	records := make([]oracle.ExtractionRecord, 0, len(ns))
	for _, n := range ns {
		records = append(records, s.ExtractFacts(ctx, n.NoteText, n.NoteID, n.AuthorRole))
	}
	return records
}

func (s *stubOracle) DetectConflict(ctx context.Context, note1, note2 notes.Note, facts1, facts2 []oracle.Fact) (*oracle.ConflictResult, bool) {
	if s.conflictFn == nil {
		return nil, false
	}
	return s.conflictFn(note1, note2, facts1, facts2)
}

func (s *stubOracle) SameConcern(ctx context.Context, fact1, fact2 oracle.Fact, role1, role2 string) bool {
	if s.sameConcernFn == nil {
		return false
	}
	return s.sameConcernFn(fact1, fact2, role1, role2)
}

func (s *stubOracle) Acknowledged(ctx context.Context, concern, physician oracle.Fact) bool {
	if s.acknowledgedFn == nil {
		return false
	}
	return s.acknowledgedFn(concern, physician)
}

func (s *stubOracle) GenerateBrief(ctx context.Context, facts []oracle.BriefFact, alerts []oracle.BriefAlert) (string, error) {
	if s.briefFn == nil {
		return "", nil
	}
	return s.briefFn(facts, alerts)
}

// note builds a minimal clinical note for rule tests.
func note(noteID, patientID, role, timestamp string) notes.Note {
	return notes.Note{
		NoteID:     noteID,
		PatientID:  patientID,
		AuthorRole: role,
		Timestamp:  timestamp,
		NoteText:   "text for " + noteID,
	}
}

func fact(factType, value string) oracle.Fact {
	return oracle.Fact{Type: factType, Value: value}
}
