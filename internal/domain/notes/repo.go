package notes

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a note id does not exist in the store.
var ErrNotFound = errors.New("note not found")

// Repository loads notes from the configured backing store. Implementations
// must preserve the store's note order in List and ListByPatient; downstream
// grouping relies on encounter order within a patient.
type Repository interface {
	List(ctx context.Context) ([]Note, error)
	GetByID(ctx context.Context, noteID string) (*Note, error)
	ListByPatient(ctx context.Context, patientID string) ([]Note, error)
	// GetByIDs returns the notes for the requested ids, in request order,
	// silently skipping ids not present in the store.
	GetByIDs(ctx context.Context, noteIDs []string) ([]Note, error)
}
