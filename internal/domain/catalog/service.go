package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	maxNameLen        = 100
	maxDescriptionLen = 200
)

type Service struct {
	analytes AnalyteRepository
}

func NewService(analytes AnalyteRepository) *Service {
	return &Service{analytes: analytes}
}

// CreateAnalyte persists a new analyte. Name is required; description is
// optional and stored as NULL when blank.
func (s *Service) CreateAnalyte(ctx context.Context, name, description string) (*Analyte, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if len(name) > maxNameLen {
		return nil, fmt.Errorf("name must be at most %d characters", maxNameLen)
	}
	if len(description) > maxDescriptionLen {
		return nil, fmt.Errorf("description must be at most %d characters", maxDescriptionLen)
	}

	a := &Analyte{Name: name}
	if description != "" {
		a.Description = &description
	}
	if err := s.analytes.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) GetAnalyte(ctx context.Context, id uuid.UUID) (*Analyte, error) {
	return s.analytes.GetByID(ctx, id)
}

// ListAnalytes returns the full catalog. An empty catalog is valid.
func (s *Service) ListAnalytes(ctx context.Context) ([]*Analyte, error) {
	return s.analytes.List(ctx)
}
