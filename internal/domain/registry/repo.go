package registry

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a patient identifier does not resolve.
var ErrNotFound = errors.New("patient not found")

type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	List(ctx context.Context) ([]*Patient, error)
}

type TestRepository interface {
	Create(ctx context.Context, t *Test) error
	// ListByPatients returns, for each given patient ID, the patient's
	// tests joined with their analyte names.
	ListByPatients(ctx context.Context, patientIDs []uuid.UUID) (map[uuid.UUID][]*TestWithAnalyte, error)
}

// AnalyteChecker reports whether an analyte identifier resolves. Used to
// skip stale analyte selections at registration time.
type AnalyteChecker interface {
	AnalyteExists(ctx context.Context, id uuid.UUID) (bool, error)
}
