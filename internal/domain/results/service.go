package results

import (
	"context"

	"github.com/google/uuid"

	"github.com/labworks/lims/internal/domain/registry"
	"github.com/labworks/lims/internal/platform/db"
)

// PatientDirectory loads a patient with its tests. Satisfied by
// registry.Service.
type PatientDirectory interface {
	GetPatient(ctx context.Context, id uuid.UUID) (*registry.PatientWithTests, error)
}

type Service struct {
	patients PatientDirectory
	tests    TestResultRepository
	tx       db.TxRunner
}

func NewService(patients PatientDirectory, tests TestResultRepository, tx db.TxRunner) *Service {
	return &Service{patients: patients, tests: tests, tx: tx}
}

// GetPatientForEdit returns the patient whose results are being entered.
// Returns registry.ErrNotFound when the ID does not resolve.
func (s *Service) GetPatientForEdit(ctx context.Context, patientID uuid.UUID) (*registry.PatientWithTests, error) {
	return s.patients.GetPatient(ctx, patientID)
}

// UpdateResults applies a batch of result values by test ID. Entries whose
// test ID does not resolve are skipped; every resolvable entry is written
// and the whole pass commits as one transaction. Test ownership is not
// checked against patientID, matching the historical behavior.
func (s *Service) UpdateResults(ctx context.Context, patientID uuid.UUID, resultsByTestID map[uuid.UUID]string) error {
	if _, err := s.patients.GetPatient(ctx, patientID); err != nil {
		return err
	}
	if len(resultsByTestID) == 0 {
		return nil
	}
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		for testID, result := range resultsByTestID {
			if _, err := s.tests.SetResult(ctx, testID, result); err != nil {
				return err
			}
		}
		return nil
	})
}
