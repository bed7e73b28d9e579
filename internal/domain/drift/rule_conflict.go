package drift

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/JassK0/care-sync/internal/domain/notes"
	"github.com/JassK0/care-sync/internal/platform/oracle"
)

// ConflictRule flags pairs of notes where different roles document
// conflicting information within the comparison window: an RN charting
// worsening oxygen requirements against an MD charting improvement, a PT
// documenting functional decline against a stable physician assessment.
// The conflict judgment itself is delegated to the oracle; this rule only
// generates candidate pairs and assembles the evidence.
type ConflictRule struct {
	oracle oracle.Oracle
	window time.Duration
}

func NewConflictRule(o oracle.Oracle, window time.Duration) *ConflictRule {
	return &ConflictRule{oracle: o, window: window}
}

func (r *ConflictRule) Name() string { return "cross_role_conflict" }

func (r *ConflictRule) Evaluate(ctx context.Context, index map[string]*PatientFactIndex) []Alert {
	var alerts []Alert

	for _, patientID := range patientIDs(index) {
		idx := index[patientID]

		patientNotes := append([]notes.Note(nil), idx.Notes...)
		sort.SliceStable(patientNotes, func(i, j int) bool {
			return patientNotes[i].Timestamp < patientNotes[j].Timestamp
		})

		if len(patientNotes) < 2 {
			continue
		}

		// O(n²) over a patient's notes; clinical volumes per patient are
		// tens, not thousands.
		for i, note1 := range patientNotes {
			for _, note2 := range patientNotes[i+1:] {
				if note1.AuthorRole == note2.AuthorRole {
					continue
				}
				if !withinWindow(note1.Timestamp, note2.Timestamp, r.window) {
					continue
				}

				entries1 := idx.EntriesForNote(note1.NoteID)
				entries2 := idx.EntriesForNote(note2.NoteID)
				if len(entries1) == 0 || len(entries2) == 0 {
					continue
				}

				result, ok := r.oracle.DetectConflict(ctx, note1, note2, entryFacts(entries1), entryFacts(entries2))
				if !ok {
					continue
				}

				var conflicting []ConflictingFact
				for _, e := range entries1 {
					if e.Fact.Type == result.ConflictingType {
						conflicting = append(conflicting, ConflictingFact{
							Role:          note1.AuthorRole,
							Fact:          e.Fact,
							NoteID:        note1.NoteID,
							NoteTimestamp: note1.Timestamp,
						})
					}
				}
				for _, e := range entries2 {
					if e.Fact.Type == result.ConflictingType {
						conflicting = append(conflicting, ConflictingFact{
							Role:          note2.AuthorRole,
							Fact:          e.Fact,
							NoteID:        note2.NoteID,
							NoteTimestamp: note2.Timestamp,
						})
					}
				}
				// The oracle reported a type none of the extracted facts
				// carry; there is no citable evidence, so no alert.
				if len(conflicting) == 0 {
					continue
				}

				alerts = append(alerts, Alert{
					AlertID:              fmt.Sprintf("conflict_%s_%s_%s", patientID, note1.NoteID, note2.NoteID),
					AlertType:            defaultString(result.ConflictType, alertTypeCrossRoleConflict),
					Severity:             defaultString(result.Severity, SeverityMedium),
					PatientID:            patientID,
					RolesInvolved:        []string{note1.AuthorRole, note2.AuthorRole},
					ConflictingFactTypes: dedupFactTypes(conflicting),
					ConflictingFacts:     conflicting,
					TimeWindow:           formatTimeDiff(note1.Timestamp, note2.Timestamp),
					SourceNoteIDs:        []string{note1.NoteID, note2.NoteID},
					Description:          defaultString(result.Description, fmt.Sprintf("%s and %s document conflicting information", note1.AuthorRole, note2.AuthorRole)),
					Timestamp:            maxTimestamp(note1.Timestamp, note2.Timestamp),
				})
			}
		}
	}
	return alerts
}

func entryFacts(entries []IndexEntry) []oracle.Fact {
	facts := make([]oracle.Fact, 0, len(entries))
	for _, e := range entries {
		facts = append(facts, e.Fact)
	}
	return facts
}

// dedupFactTypes returns the unique fact types cited by the alert, in
// first-seen order.
func dedupFactTypes(facts []ConflictingFact) []string {
	seen := make(map[string]bool, len(facts))
	var out []string
	for _, cf := range facts {
		t := cf.Fact.Type
		if t == "" {
			t = "unknown"
		}
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
