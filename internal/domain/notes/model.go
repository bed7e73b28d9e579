package notes

// Note is one authored clinical note. Notes are immutable once loaded; the
// drift pipeline only ever reads them.
//
// Timestamp is kept as the source string ("T" or space separated ISO-8601,
// no timezone guarantee). Lexicographic comparison is well-defined for the
// formats the stores accept, and the drift package parses it only when a
// real duration is needed.
type Note struct {
	NoteID      string `json:"note_id"`
	PatientID   string `json:"patient_id"`
	PatientName string `json:"patient_name"`
	MRN         string `json:"mrn"`
	AuthorRole  string `json:"author_role"`
	Timestamp   string `json:"timestamp"`
	NoteText    string `json:"note_text"`
}
