package drift

import (
	"sort"

	"github.com/JassK0/care-sync/internal/domain/notes"
	"github.com/JassK0/care-sync/internal/platform/oracle"
)

// GroupByPatient builds the per-patient fact index the rules consume.
// Extraction records whose note_id does not resolve against the supplied
// note set are orphans and are silently dropped. Runs in O(total facts).
func GroupByPatient(ns []notes.Note, records []oracle.ExtractionRecord) map[string]*PatientFactIndex {
	noteByID := make(map[string]notes.Note, len(ns))
	for _, n := range ns {
		noteByID[n.NoteID] = n
	}

	index := make(map[string]*PatientFactIndex)
	for _, rec := range records {
		note, ok := noteByID[rec.NoteID]
		if !ok {
			continue
		}

		patientID := note.PatientID
		if patientID == "" {
			patientID = "unknown"
		}

		idx, ok := index[patientID]
		if !ok {
			idx = &PatientFactIndex{
				ByRole: make(map[string][]oracle.Fact),
				ByType: make(map[string][]IndexEntry),
			}
			index[patientID] = idx
		}

		role := note.AuthorRole
		if role == "" {
			role = "unknown"
		}

		idx.Notes = append(idx.Notes, note)
		idx.Facts = append(idx.Facts, rec.Facts...)
		idx.ByRole[role] = append(idx.ByRole[role], rec.Facts...)

		for _, fact := range rec.Facts {
			factType := fact.Type
			if factType == "" {
				factType = oracle.FactOther
			}
			idx.ByType[factType] = append(idx.ByType[factType], IndexEntry{
				Fact: fact,
				Note: note,
				Role: role,
			})
		}
	}
	return index
}

// EntriesForNote collects every indexed fact entry originating from the
// given note, walking fact types in sorted order so callers see a stable
// sequence.
func (idx *PatientFactIndex) EntriesForNote(noteID string) []IndexEntry {
	types := make([]string, 0, len(idx.ByType))
	for t := range idx.ByType {
		types = append(types, t)
	}
	sort.Strings(types)

	var out []IndexEntry
	for _, t := range types {
		for _, e := range idx.ByType[t] {
			if e.Note.NoteID == noteID {
				out = append(out, e)
			}
		}
	}
	return out
}

// patientIDs returns the index keys in sorted order. Rule output must be
// deterministic for a deterministic oracle; map iteration order is not.
func patientIDs(index map[string]*PatientFactIndex) []string {
	ids := make([]string, 0, len(index))
	for id := range index {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
