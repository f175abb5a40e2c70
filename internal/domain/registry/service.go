package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/labworks/lims/internal/platform/db"
)

const maxNameLen = 100

type Service struct {
	patients PatientRepository
	tests    TestRepository
	analytes AnalyteChecker
	tx       db.TxRunner
}

func NewService(patients PatientRepository, tests TestRepository, analytes AnalyteChecker, tx db.TxRunner) *Service {
	return &Service{patients: patients, tests: tests, analytes: analytes, tx: tx}
}

// Registration holds the typed registration input assembled by the
// transport layer.
type Registration struct {
	Name       string
	Age        *int
	Gender     string
	AnalyteIDs []uuid.UUID
}

// RegisterPatient creates one patient plus one test per resolvable
// selected analyte, all in a single transaction. Analyte IDs that do not
// resolve are skipped rather than failing the registration.
func (s *Service) RegisterPatient(ctx context.Context, reg Registration) (*Patient, error) {
	reg.Name = strings.TrimSpace(reg.Name)
	if reg.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if len(reg.Name) > maxNameLen {
		return nil, fmt.Errorf("name must be at most %d characters", maxNameLen)
	}
	if reg.Age != nil && *reg.Age < 0 {
		return nil, fmt.Errorf("age must be a non-negative integer")
	}

	p := &Patient{Name: reg.Name, Age: reg.Age, Gender: reg.Gender}
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.patients.Create(ctx, p); err != nil {
			return err
		}
		for _, analyteID := range reg.AnalyteIDs {
			ok, err := s.analytes.AnalyteExists(ctx, analyteID)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			t := &Test{PatientID: p.ID, AnalyteID: analyteID}
			if err := s.tests.Create(ctx, t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetPatient returns one patient with its tests eagerly loaded. Returns
// ErrNotFound when the ID does not resolve.
func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*PatientWithTests, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tests, err := s.tests.ListByPatients(ctx, []uuid.UUID{p.ID})
	if err != nil {
		return nil, err
	}
	return &PatientWithTests{Patient: p, Tests: tests[p.ID]}, nil
}

// ListPatients returns every patient with its tests. Tests are loaded in
// one query for all patients rather than per patient.
func (s *Service) ListPatients(ctx context.Context) ([]*PatientWithTests, error) {
	patients, err := s.patients.List(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(patients))
	for i, p := range patients {
		ids[i] = p.ID
	}
	tests, err := s.tests.ListByPatients(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]*PatientWithTests, len(patients))
	for i, p := range patients {
		items[i] = &PatientWithTests{Patient: p, Tests: tests[p.ID]}
	}
	return items, nil
}
