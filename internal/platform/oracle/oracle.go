package oracle

import (
	"context"

	"github.com/JassK0/care-sync/internal/domain/notes"
)

// Fact categories the extraction oracle is allowed to emit. Anything else
// it returns is preserved as-is; the rules only dispatch on symptoms/other.
const (
	FactVitalSign         = "vital_sign"
	FactOxygenRequirement = "oxygen_requirement"
	FactFunctionalStatus  = "functional_status"
	FactSymptoms          = "symptoms"
	FactMedicationChanges = "medication_changes"
	FactLabResults        = "lab_results"
	FactOther             = "other"
)

// Fact is a discrete clinical observation extracted from exactly one note.
// SourceQuote is the exact excerpt the oracle cited; it is never empty — the
// client backfills it from Details when the oracle omits it.
type Fact struct {
	Type        string `json:"type"`
	Value       string `json:"value"`
	Details     string `json:"details"`
	SourceQuote string `json:"source_quote"`
}

// ExtractionRecord ties a note's extracted facts back to its note_id. A
// failed extraction yields a record with an empty Facts slice, never an
// error: one unreadable note must not poison the batch.
type ExtractionRecord struct {
	NoteID string `json:"note_id"`
	Facts  []Fact `json:"facts"`
}

// ConflictResult is the conflict oracle's verdict on a pair of notes.
type ConflictResult struct {
	IsConflict      bool   `json:"is_conflict"`
	ConflictType    string `json:"conflict_type"`
	ConflictingType string `json:"conflicting_type"`
	Severity        string `json:"severity"`
	Description     string `json:"description"`
}

type sameConcernResult struct {
	IsSameConcern bool   `json:"is_same_concern"`
	Reason        string `json:"reason"`
}

type acknowledgementResult struct {
	IsAcknowledged bool   `json:"is_acknowledged"`
	Reason         string `json:"reason"`
}

// BriefFact and BriefAlert are the flattened inputs to the reconciliation
// brief prompt.
type BriefFact struct {
	Type    string `json:"type"`
	Value   string `json:"value"`
	Details string `json:"details"`
	Source  string `json:"source"`
}

type BriefAlert struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Roles       []string `json:"roles"`
}

// Oracle is the language-model judgment service the drift pipeline depends
// on. Every method is fail-closed: call or parse failures degrade to "no
// evidence" (empty facts, no conflict, false) and are logged by the
// implementation, never raised to the caller. Rule isolation in the drift
// engine depends on this contract.
type Oracle interface {
	// ExtractFacts pulls explicitly-stated facts from one note.
	ExtractFacts(ctx context.Context, noteText, noteID, authorRole string) ExtractionRecord

	// ExtractFactsBatch processes notes independently, in note order. One
	// note's failure must not affect another's; output order matches input.
	ExtractFactsBatch(ctx context.Context, ns []notes.Note) []ExtractionRecord

	// DetectConflict asks whether two notes from different roles contain
	// conflicting information. The second return is false when there is no
	// conflict or the oracle could not answer.
	DetectConflict(ctx context.Context, note1, note2 notes.Note, facts1, facts2 []Fact) (*ConflictResult, bool)

	// SameConcern asks whether two facts describe the same patient concern.
	SameConcern(ctx context.Context, fact1, fact2 Fact, role1, role2 string) bool

	// Acknowledged asks whether a physician fact acknowledges, addresses,
	// or responds to a concern fact.
	Acknowledged(ctx context.Context, concern, physician Fact) bool

	// GenerateBrief produces a neutral free-text reconciliation brief from
	// facts and alerts. Unlike the judgment calls this returns its error;
	// the summaries handler substitutes explanatory text.
	GenerateBrief(ctx context.Context, facts []BriefFact, alerts []BriefAlert) (string, error)
}
