package notes

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgRepo serves notes from the clinical_note table (see migrations/). Used
// when DATABASE_URL is configured; larger note sets outgrow the flat file.
type pgRepo struct {
	pool *pgxpool.Pool
}

func NewPGRepo(pool *pgxpool.Pool) Repository {
	return &pgRepo{pool: pool}
}

const noteCols = `note_id, patient_id, patient_name, mrn, author_role, recorded_at, note_text`

func scanNote(row pgx.Row) (*Note, error) {
	var n Note
	err := row.Scan(&n.NoteID, &n.PatientID, &n.PatientName, &n.MRN, &n.AuthorRole, &n.Timestamp, &n.NoteText)
	return &n, err
}

func collectNotes(rows pgx.Rows) ([]Note, error) {
	defer rows.Close()
	var out []Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

func (r *pgRepo) List(ctx context.Context) ([]Note, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+noteCols+` FROM clinical_note ORDER BY recorded_at, note_id`)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return collectNotes(rows)
}

func (r *pgRepo) GetByID(ctx context.Context, noteID string) (*Note, error) {
	n, err := scanNote(r.pool.QueryRow(ctx, `SELECT `+noteCols+` FROM clinical_note WHERE note_id = $1`, noteID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return n, nil
}

func (r *pgRepo) ListByPatient(ctx context.Context, patientID string) ([]Note, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+noteCols+` FROM clinical_note WHERE patient_id = $1 ORDER BY recorded_at, note_id`, patientID)
	if err != nil {
		return nil, fmt.Errorf("list patient notes: %w", err)
	}
	return collectNotes(rows)
}

func (r *pgRepo) GetByIDs(ctx context.Context, noteIDs []string) ([]Note, error) {
	if len(noteIDs) == 0 {
		return []Note{}, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT `+noteCols+` FROM clinical_note WHERE note_id = ANY($1)`, noteIDs)
	if err != nil {
		return nil, fmt.Errorf("get notes by ids: %w", err)
	}
	found, err := collectNotes(rows)
	if err != nil {
		return nil, err
	}

	// Re-order to the requested id order, dropping misses.
	byID := make(map[string]Note, len(found))
	for _, n := range found {
		byID[n.NoteID] = n
	}
	out := make([]Note, 0, len(noteIDs))
	for _, id := range noteIDs {
		if n, ok := byID[id]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}
