package drift

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/JassK0/care-sync/internal/platform/oracle"
)

// UnackRule flags patient concerns documented repeatedly by non-physician
// roles without any physician-class fact acknowledging them. Same-concern
// and acknowledgement judgments are delegated to the oracle.
type UnackRule struct {
	oracle oracle.Oracle
	window time.Duration
}

func NewUnackRule(o oracle.Oracle, window time.Duration) *UnackRule {
	return &UnackRule{oracle: o, window: window}
}

func (r *UnackRule) Name() string { return "unacknowledged_concerns" }

func (r *UnackRule) Evaluate(ctx context.Context, index map[string]*PatientFactIndex) []Alert {
	var alerts []Alert

	for _, patientID := range patientIDs(index) {
		idx := index[patientID]

		// Concerns live in the symptoms and other buckets.
		concerns := append([]IndexEntry(nil), idx.ByType[oracle.FactSymptoms]...)
		concerns = append(concerns, idx.ByType[oracle.FactOther]...)
		if len(concerns) < 2 {
			continue
		}

		sort.SliceStable(concerns, func(i, j int) bool {
			return concerns[i].Note.Timestamp < concerns[j].Note.Timestamp
		})

		for i := 0; i < len(concerns); i++ {
			for j := i + 1; j < len(concerns); j++ {
				item1, item2 := concerns[i], concerns[j]

				if physicianRoles[item1.Role] && physicianRoles[item2.Role] {
					continue
				}
				if !withinWindow(item1.Note.Timestamp, item2.Note.Timestamp, r.window) {
					continue
				}
				if !r.oracle.SameConcern(ctx, item1.Fact, item2.Fact, item1.Role, item2.Role) {
					continue
				}
				if r.acknowledged(ctx, item1, concerns) {
					continue
				}

				alerts = append(alerts, Alert{
					AlertID:              fmt.Sprintf("unack_%s_%s_%s", patientID, item1.Note.NoteID, item2.Note.NoteID),
					AlertType:            alertTypeSymptomAck,
					Severity:             SeverityLow,
					PatientID:            patientID,
					RolesInvolved:        dedupRoles(item1.Role, item2.Role),
					ConflictingFactTypes: dedupConcernTypes(item1.Fact, item2.Fact),
					ConflictingFacts: []ConflictingFact{
						{
							Role:          item1.Role,
							Fact:          item1.Fact,
							NoteID:        item1.Note.NoteID,
							NoteTimestamp: item1.Note.Timestamp,
						},
						{
							Role:          item2.Role,
							Fact:          item2.Fact,
							NoteID:        item2.Note.NoteID,
							NoteTimestamp: item2.Note.Timestamp,
						},
					},
					TimeWindow:    formatTimeDiff(item1.Note.Timestamp, item2.Note.Timestamp),
					SourceNoteIDs: []string{item1.Note.NoteID, item2.Note.NoteID},
					Description:   fmt.Sprintf("Patient concern documented by %s and %s without physician acknowledgement", item1.Role, item2.Role),
					Timestamp:     maxTimestamp(item1.Note.Timestamp, item2.Note.Timestamp),
				})
			}
		}
	}
	return alerts
}

// acknowledged scans the concern facts for a physician-class entry that the
// oracle judges to acknowledge the concern. The window is checked against
// the first flagged item only, not both sides of the pair; this asymmetry
// is deliberate and covered by tests.
func (r *UnackRule) acknowledged(ctx context.Context, concern IndexEntry, concerns []IndexEntry) bool {
	for _, candidate := range concerns {
		if !physicianRoles[candidate.Role] {
			continue
		}
		if !withinWindow(concern.Note.Timestamp, candidate.Note.Timestamp, r.window) {
			continue
		}
		if r.oracle.Acknowledged(ctx, concern.Fact, candidate.Fact) {
			return true
		}
	}
	return false
}

// dedupRoles returns the unique roles in first-seen order.
func dedupRoles(roles ...string) []string {
	seen := make(map[string]bool, len(roles))
	var out []string
	for _, role := range roles {
		if !seen[role] {
			seen[role] = true
			out = append(out, role)
		}
	}
	return out
}

func dedupConcernTypes(facts ...oracle.Fact) []string {
	seen := make(map[string]bool, len(facts))
	var out []string
	for _, f := range facts {
		t := f.Type
		if t == "" {
			t = oracle.FactSymptoms
		}
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
