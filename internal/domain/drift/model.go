package drift

import (
	"github.com/JassK0/care-sync/internal/domain/notes"
	"github.com/JassK0/care-sync/internal/platform/oracle"
)

// Alert severities and types.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"

	alertTypeCrossRoleConflict = "cross_role_conflict"
	alertTypeSymptomAck        = "symptom_acknowledgement"
)

// ConflictingFact is one evidentiary citation inside an alert: the fact, who
// documented it, and where.
type ConflictingFact struct {
	Role          string      `json:"role"`
	Fact          oracle.Fact `json:"fact"`
	NoteID        string      `json:"note_id"`
	NoteTimestamp string      `json:"note_timestamp"`
}

// Alert is one detected documentation drift finding. AlertID is derived from
// the rule, patient, and the two source notes, so re-running detection on the
// same input produces identical ids.
type Alert struct {
	AlertID              string            `json:"alert_id"`
	AlertType            string            `json:"alert_type"`
	Severity             string            `json:"severity"`
	PatientID            string            `json:"patient_id"`
	RolesInvolved        []string          `json:"roles_involved"`
	ConflictingFactTypes []string          `json:"conflicting_fact_types"`
	ConflictingFacts     []ConflictingFact `json:"conflicting_facts"`
	TimeWindow           string            `json:"time_window"`
	SourceNoteIDs        []string          `json:"source_note_ids"`
	Description          string            `json:"description"`
	Timestamp            string            `json:"timestamp"`
}

// AlertSet is the unit returned to all alert API callers and the value held
// by the result cache.
type AlertSet struct {
	Alerts []Alert `json:"alerts"`
	Count  int     `json:"count"`
}

// IndexEntry links a fact to the note it came from and that note's author
// role, for the by-type index.
type IndexEntry struct {
	Fact oracle.Fact
	Note notes.Note
	Role string
}

// PatientFactIndex is the per-patient view the rules operate on. Derived,
// rebuilt per request, never persisted. Notes preserve encounter order.
type PatientFactIndex struct {
	Notes  []notes.Note
	Facts  []oracle.Fact
	ByRole map[string][]oracle.Fact
	ByType map[string][]IndexEntry
}

// physicianRoles are the author roles treated as physician-class by the
// unacknowledged-concern rule.
var physicianRoles = map[string]bool{
	"MD": true,
	"DO": true,
	"NP": true,
	"PA": true,
}
